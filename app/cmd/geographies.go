package cmd

import (
	"fmt"
	"os"

	"golang.org/x/exp/slog"
)

// Geographies is a command to list geographies of a dataset.
type Geographies struct {
	ClientGroup  `group:"client" namespace:"client" env-namespace:"CLIENT"`
	DatasetGroup `group:"dataset" namespace:"dataset" env-namespace:"DATASET"`

	Filters []string `long:"filter" short:"f" description:"regex filter in field=regex form, fields: name, level"`
}

// Execute runs the command.
func (c Geographies) Execute(_ []string) error {
	ctx, cancel := commandCtx()
	defer cancel()

	cl, closeFn, err := c.ClientGroup.Client(slog.Default())
	if err != nil {
		return fmt.Errorf("make client: %w", err)
	}
	defer closeAndLog(closeFn)

	filters, err := parseFilters(c.Filters)
	if err != nil {
		return err
	}

	ds, err := cl.Dataset(ctx, c.Year, c.Path)
	if err != nil {
		return fmt.Errorf("get dataset: %w", err)
	}

	geos, err := ds.Geographies(ctx, filters...)
	if err != nil {
		return fmt.Errorf("search geographies: %w", err)
	}

	return printItems(os.Stdout, geos)
}
