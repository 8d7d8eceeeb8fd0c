package cmd

import (
	"fmt"
	"os"

	"golang.org/x/exp/slog"
)

// Datasets is a command to search datasets of a vintage year.
type Datasets struct {
	ClientGroup `group:"client" namespace:"client" env-namespace:"CLIENT"`

	Year       int    `long:"year" env:"YEAR" required:"true" description:"vintage year"`
	Path       string `long:"path" env:"PATH" description:"dataset path, e.g. acs/acs5"`
	IncludeSub bool   `long:"include-sub" env:"INCLUDE_SUB" description:"include sub-datasets sharing the path"`
}

// Execute runs the command.
func (c Datasets) Execute(_ []string) error {
	ctx, cancel := commandCtx()
	defer cancel()

	cl, closeFn, err := c.ClientGroup.Client(slog.Default())
	if err != nil {
		return fmt.Errorf("make client: %w", err)
	}
	defer closeAndLog(closeFn)

	datasets, err := cl.SearchDatasets(ctx, c.Year, c.Path, c.IncludeSub)
	if err != nil {
		return fmt.Errorf("search datasets: %w", err)
	}

	return printItems(os.Stdout, datasets)
}
