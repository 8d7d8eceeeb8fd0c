package census

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// Group is a named group of variables within a dataset.
type Group struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	VariablesURL string `json:"variables_url"`

	cl *Client
}

func (g Group) filterField(name string) (string, bool) {
	switch name {
	case "name":
		return g.Name, true
	case "description":
		return g.Description, true
	}
	return "", false
}

// Variables lists variables of the group, narrowed by filters on "name",
// "label", "concept" and "group" fields, combined with the given logical
// operator.
func (g Group) Variables(ctx context.Context, op Op, filters ...Filter) ([]Variable, error) {
	return g.cl.searchVariables(ctx, g.VariablesURL, op, filters...)
}

type groupsCatalog struct {
	Groups []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Variables   string `json:"variables"`
	} `json:"groups"`
}

func (c *Client) searchGroups(ctx context.Context, u string, op Op, filters ...Filter) ([]Group, error) {
	bts, err := c.fetchCatalog(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("get groups catalog: %w", err)
	}

	var catalog groupsCatalog
	if err := json.Unmarshal(bts, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal groups catalog: %w", err)
	}

	var hits []Group
	for _, info := range catalog.Groups {
		group := Group{
			Name:         info.Name,
			Description:  info.Description,
			VariablesURL: info.Variables,
			cl:           c,
		}

		ok, err := matchesFilters(group, op, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, group)
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Name < hits[j].Name })

	return hits, nil
}
