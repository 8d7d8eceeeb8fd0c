package census

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Dataset describes a single census dataset of some vintage year.
type Dataset struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Year        int    `json:"year"`
	Path        string `json:"path"`

	GeographyURL string `json:"geography_url"`
	VariablesURL string `json:"variables_url"`
	GroupsURL    string `json:"groups_url"`
	AccessURL    string `json:"access_url,omitempty"`

	cl *Client
}

type datasetCatalog struct {
	Dataset []struct {
		Title         string         `json:"title"`
		Description   string         `json:"description"`
		Dataset       []string       `json:"c_dataset"`
		GeographyLink string         `json:"c_geographyLink"`
		VariablesLink string         `json:"c_variablesLink"`
		GroupsLink    string         `json:"c_groupsLink"`
		Distribution  []distribution `json:"distribution"`
	} `json:"dataset"`
}

type distribution struct {
	Format    string `json:"format"`
	AccessURL string `json:"accessURL"`
}

// SearchDatasets lists datasets of the given vintage year, narrowed by path.
// With includeSub, datasets whose path merely contains the given one, e.g.
// acs/acs5/profile for acs/acs5, are listed as well; otherwise the path must
// be a suffix.
func (c *Client) SearchDatasets(ctx context.Context, year int, path string, includeSub bool) ([]Dataset, error) {
	u := fmt.Sprintf("%s/%d.json", c.base, year)

	bts, err := c.fetchCatalog(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("get datasets catalog: %w", err)
	}

	var catalog datasetCatalog
	if err := json.Unmarshal(bts, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal datasets catalog: %w", err)
	}

	var hits []Dataset
	for _, info := range catalog.Dataset {
		ds := Dataset{
			Title:        info.Title,
			Description:  info.Description,
			Year:         year,
			Path:         strings.Join(info.Dataset, "/"),
			GeographyURL: info.GeographyLink,
			VariablesURL: info.VariablesLink,
			GroupsURL:    info.GroupsLink,
			cl:           c,
		}

		if dist, ok := lo.Find(info.Distribution, func(d distribution) bool {
			return d.Format == "API"
		}); ok {
			ds.AccessURL = dist.AccessURL
		}

		if includeSub && !strings.Contains(ds.Path, path) {
			continue
		}
		if !includeSub && !strings.HasSuffix(ds.Path, path) {
			continue
		}

		hits = append(hits, ds)
	}

	return hits, nil
}

// ErrNoDataset is returned when no dataset matches the year and path.
var ErrNoDataset = errors.New("no dataset found")

// Dataset returns the first dataset matching the year and path. Sub-datasets
// sharing the path prefix are not considered.
func (c *Client) Dataset(ctx context.Context, year int, path string) (Dataset, error) {
	datasets, err := c.SearchDatasets(ctx, year, path, false)
	if err != nil {
		return Dataset{}, err
	}
	if len(datasets) == 0 {
		return Dataset{}, fmt.Errorf("%w for year %d and path %q", ErrNoDataset, year, path)
	}
	return datasets[0], nil
}

// Geographies lists geographies available within the dataset, narrowed by
// filters on "name" and "level" fields.
func (d Dataset) Geographies(ctx context.Context, filters ...Filter) ([]Geography, error) {
	return d.cl.searchGeographies(ctx, d.GeographyURL, filters...)
}

// Groups lists variable groups of the dataset, narrowed by filters on "name"
// and "description" fields, combined with the given logical operator.
func (d Dataset) Groups(ctx context.Context, op Op, filters ...Filter) ([]Group, error) {
	return d.cl.searchGroups(ctx, d.GroupsURL, op, filters...)
}

// Variables lists variables of the dataset, narrowed by filters on "name",
// "label", "concept" and "group" fields, combined with the given logical
// operator.
func (d Dataset) Variables(ctx context.Context, op Op, filters ...Filter) ([]Variable, error) {
	return d.cl.searchVariables(ctx, d.VariablesURL, op, filters...)
}
