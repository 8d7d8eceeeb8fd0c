package census

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Variable is a single column that can be requested from a dataset.
type Variable struct {
	Name          string   `json:"name"`
	Label         string   `json:"label"`
	Group         string   `json:"group"`
	Limit         int      `json:"limit"`
	Concept       string   `json:"concept,omitempty"`
	PredicateType string   `json:"predicate_type,omitempty"`
	Attributes    []string `json:"attributes,omitempty"`
}

func (v Variable) filterField(name string) (string, bool) {
	switch name {
	case "name":
		return v.Name, true
	case "label":
		return v.Label, true
	case "concept":
		return v.Concept, true
	case "group":
		return v.Group, true
	}
	return "", false
}

type variablesCatalog struct {
	Variables map[string]struct {
		Label         string `json:"label"`
		Group         string `json:"group"`
		Limit         int    `json:"limit"`
		Concept       string `json:"concept"`
		PredicateType string `json:"predicateType"`
		Attributes    string `json:"attributes"`
	} `json:"variables"`
}

// searchVariables caches the parsed catalog, variable documents easily reach
// tens of megabytes.
func (c *Client) searchVariables(ctx context.Context, u string, op Op, filters ...Filter) ([]Variable, error) {
	vars, ok := c.vars.Get(u)
	if !ok {
		bts, err := c.fetchCatalog(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("get variables catalog: %w", err)
		}

		var catalog variablesCatalog
		if err := json.Unmarshal(bts, &catalog); err != nil {
			return nil, fmt.Errorf("unmarshal variables catalog: %w", err)
		}

		for name, info := range catalog.Variables {
			v := Variable{
				Name:          name,
				Label:         info.Label,
				Group:         info.Group,
				Limit:         info.Limit,
				Concept:       info.Concept,
				PredicateType: info.PredicateType,
			}
			if info.Attributes != "" {
				v.Attributes = strings.Split(info.Attributes, ",")
			}
			vars = append(vars, v)
		}
		sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })

		c.vars.Set(u, vars, 0)
	}

	var hits []Variable
	for _, v := range vars {
		ok, err := matchesFilters(v, op, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, v)
		}
	}

	return hits, nil
}
