package cmd

import (
	"fmt"
	"os"

	"github.com/Semior001/gocensus/app/census"
	"golang.org/x/exp/slog"
)

// Variables is a command to list variables of a dataset or a single group.
type Variables struct {
	ClientGroup  `group:"client" namespace:"client" env-namespace:"CLIENT"`
	DatasetGroup `group:"dataset" namespace:"dataset" env-namespace:"DATASET"`
	FilterGroup  `group:"filters" namespace:"filters" env-namespace:"FILTERS"`

	Group string `long:"group" env:"GROUP" description:"list variables of this group only, exact name"`
}

// Execute runs the command.
func (c Variables) Execute(_ []string) error {
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

	var vars []census.Variable
	if c.Group != "" {
		groups, err := ds.Groups(ctx, census.And,
			census.MatchFunc("name", func(s string) bool { return s == c.Group }))
		if err != nil {
			return fmt.Errorf("search groups: %w", err)
		}
		if len(groups) == 0 {
			return fmt.Errorf("no group %q in dataset %s", c.Group, ds.Path)
		}

		if vars, err = groups[0].Variables(ctx, op, filters...); err != nil {
			return fmt.Errorf("search group variables: %w", err)
		}

		return printItems(os.Stdout, vars)
	}

	if vars, err = ds.Variables(ctx, op, filters...); err != nil {
		return fmt.Errorf("search variables: %w", err)
	}

	return printItems(os.Stdout, vars)
}
