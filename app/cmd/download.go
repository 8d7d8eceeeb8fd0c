package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/Semior001/gocensus/app/census"
	"golang.org/x/exp/slog"
)

// Download is a command to download data for a geography and variables.
type Download struct {
	ClientGroup  `group:"client" namespace:"client" env-namespace:"CLIENT"`
	DatasetGroup `group:"dataset" namespace:"dataset" env-namespace:"DATASET"`

	GeoLevel   string   `long:"geo-level" env:"GEO_LEVEL" required:"true" description:"geography level as shown in the census API, e.g. 040"`
	GeoFilters []string `long:"geo" description:"geography filter in field=ids form, may be repeated"`
	Get        []string `long:"get" required:"true" description:"variable name to download, may be repeated"`
}

// Execute runs the command.
func (c Download) Execute(_ []string) error {
	ctx, cancel := commandCtx()
	defer cancel()

	cl, closeFn, err := c.ClientGroup.Client(slog.Default())
	if err != nil {
		return fmt.Errorf("make client: %w", err)
	}
	defer closeAndLog(closeFn)

	var geoFilters []census.GeoFilter
	for _, s := range c.GeoFilters {
		field, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("geography filter %q is not in field=ids form", s)
		}
		geoFilters = append(geoFilters, census.GeoFilter{Field: field, Value: value})
	}

	ds, err := cl.Dataset(ctx, c.Year, c.Path)
	if err != nil {
		return fmt.Errorf("get dataset: %w", err)
	}

	rows, err := ds.Download(ctx, census.DownloadRequest{
		GeoLevel:      c.GeoLevel,
		GeoFilters:    geoFilters,
		VariableNames: c.Get,
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	w := csv.NewWriter(os.Stdout)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return nil
}
