package cmd

import (
	"fmt"
	"os"

	"golang.org/x/exp/slog"
)

// Groups is a command to list variable groups of a dataset.
type Groups struct {
	ClientGroup  `group:"client" namespace:"client" env-namespace:"CLIENT"`
	DatasetGroup `group:"dataset" namespace:"dataset" env-namespace:"DATASET"`
	FilterGroup  `group:"filters" namespace:"filters" env-namespace:"FILTERS"`
}

// Execute runs the command.
func (c Groups) Execute(_ []string) error {
	ctx, cancel := commandCtx()
	defer cancel()

	cl, closeFn, err := c.ClientGroup.Client(slog.Default())
	if err != nil {
		return fmt.Errorf("make client: %w", err)
	}
	defer closeAndLog(closeFn)

	filters, op, err := c.FilterGroup.parse()
	if err != nil {
		return err
	}

	ds, err := cl.Dataset(ctx, c.Year, c.Path)
	if err != nil {
		return fmt.Errorf("get dataset: %w", err)
	}

	groups, err := ds.Groups(ctx, op, filters...)
	if err != nil {
		return fmt.Errorf("search groups: %w", err)
	}

	return printItems(os.Stdout, groups)
}
