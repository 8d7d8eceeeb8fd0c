package census

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Geography is a geography hierarchy available within a dataset.
type Geography struct {
	Name             string    `json:"name"`
	Level            string    `json:"level"`
	ReferenceDate    time.Time `json:"reference_date"`
	Requires         []string  `json:"requires,omitempty"`
	Wildcard         []string  `json:"wildcard,omitempty"`
	OptionalWildcard string    `json:"optional_wildcard,omitempty"`

	// Complexity is the number of geography tiers, i.e. the number of
	// trailing columns the API reserves for geography in data responses.
	Complexity int `json:"complexity"`
}

func (g Geography) filterField(name string) (string, bool) {
	switch name {
	case "name":
		return g.Name, true
	case "level":
		return g.Level, true
	}
	return "", false
}

// GeoFilter limits a download to the given geography field values.
type GeoFilter struct{ Field, Value string }

// Params translates geography filters into census API query parameters.
// Nil filters mean all locations on the geography's own level. Every field
// the geography requires must be filtered, except the optional wildcard one,
// and only fields listed in Wildcard accept the "*" value.
func (g Geography) Params(geoFilters []GeoFilter) ([]Param, error) {
	if geoFilters == nil {
		return []Param{{Key: "for", Value: g.Name + ":*"}}, nil
	}

	values := map[string][]string{}
	var order []string
	for _, f := range geoFilters {
		if _, ok := values[f.Field]; !ok {
			order = append(order, f.Field)
		}
		values[f.Field] = append(values[f.Field], f.Value)
	}

	for _, f := range append([]string{g.Name}, g.Requires...) {
		if _, ok := values[f]; !ok && f != g.OptionalWildcard {
			return nil, fmt.Errorf("required geography field not found in filter: %s", f)
		}
	}

	params := []Param{{Key: "for", Value: g.Name + ":" + strings.Join(values[g.Name], ",")}}
	for _, f := range order {
		if f == g.Name {
			continue
		}

		value := strings.Join(values[f], ",")
		if value == "*" && !lo.Contains(g.Wildcard, f) {
			return nil, fmt.Errorf("geography field %s does not accept wildcards", f)
		}

		params = append(params, Param{Key: "in", Value: f + ":" + value})
	}

	return params, nil
}

type geographyCatalog struct {
	Fips []struct {
		Name              string   `json:"name"`
		GeoLevelDisplay   string   `json:"geoLevelDisplay"`
		ReferenceDate     string   `json:"referenceDate"`
		Requires          []string `json:"requires"`
		Wildcard          []string `json:"wildcard"`
		OptionalWithWCFor string   `json:"optionalWithWCFor"`
	} `json:"fips"`
}

func (c *Client) searchGeographies(ctx context.Context, u string, filters ...Filter) ([]Geography, error) {
	bts, err := c.fetchCatalog(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("get geography catalog: %w", err)
	}

	var catalog geographyCatalog
	if err := json.Unmarshal(bts, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal geography catalog: %w", err)
	}

	var hits []Geography
	for _, info := range catalog.Fips {
		refDate, err := time.Parse("2006-01-02", info.ReferenceDate)
		if err != nil {
			return nil, fmt.Errorf("parse reference date of %s: %w", info.Name, err)
		}

		geo := Geography{
			Name:             info.Name,
			Level:            info.GeoLevelDisplay,
			ReferenceDate:    refDate,
			Requires:         info.Requires,
			Wildcard:         info.Wildcard,
			OptionalWildcard: info.OptionalWithWCFor,
			Complexity:       len(info.Requires) + 1,
		}

		ok, err := matchesFilters(geo, And, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			hits = append(hits, geo)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Level != hits[j].Level {
			return hits[i].Level < hits[j].Level
		}
		return hits[i].Name < hits[j].Name
	})

	return hits, nil
}
