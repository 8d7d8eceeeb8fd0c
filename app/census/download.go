package census

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// varBatchSize is the maximum number of variables the census API accepts in
// a single call.
const varBatchSize = 50

// DownloadRequest describes what Download should fetch. Either GeoLevel or
// Geography must be set, GeoLevel takes precedence; same for VariableNames
// over Variables.
type DownloadRequest struct {
	GeoLevel   string
	Geography  *Geography
	GeoFilters []GeoFilter

	VariableNames []string
	Variables     []Variable
}

// Download fetches data for the requested geography and variables. The first
// row of the result is the header row, as served by the API. Variables are
// requested in batches, responses are stitched back together column-wise.
func (d Dataset) Download(ctx context.Context, req DownloadRequest) ([][]string, error) {
	var geo Geography
	switch {
	case req.GeoLevel != "":
		f, err := Match("level", req.GeoLevel)
		if err != nil {
			return nil, fmt.Errorf("make level filter: %w", err)
		}

		geos, err := d.Geographies(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("search geographies: %w", err)
		}
		if len(geos) == 0 {
			return nil, fmt.Errorf("no geography found for level %q", req.GeoLevel)
		}

		geo = geos[0]
	case req.Geography != nil:
		geo = *req.Geography
	default:
		return nil, errors.New("either geo level or geography must be specified")
	}

	params, err := geo.Params(req.GeoFilters)
	if err != nil {
		return nil, fmt.Errorf("geography params: %w", err)
	}

	names := req.VariableNames
	if len(names) == 0 {
		if len(req.Variables) == 0 {
			return nil, errors.New("either variable names or variables must be specified")
		}
		names = lo.Map(req.Variables, func(v Variable, _ int) string { return v.Name })
	}

	return d.download(ctx, geo.Complexity, params, names)
}

func (d Dataset) download(ctx context.Context, complexity int, geoParams []Param, names []string) ([][]string, error) {
	if d.AccessURL == "" {
		return nil, errors.New("dataset is not accessible via API")
	}

	batches := lo.Chunk(names, varBatchSize)
	parts := make([][][]string, len(batches))

	ewg, ctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		last := i == len(batches)-1

		ewg.Go(func() error {
			params := append([]Param{{Key: "get", Value: strings.Join(batch, ",")}}, geoParams...)
			if d.cl.apiKey != "" {
				params = append(params, Param{Key: "key", Value: d.cl.apiKey})
			}

			rows, err := d.cl.table(ctx, d.AccessURL, params)
			if err != nil {
				return fmt.Errorf("fetch batch %d: %w", i+1, err)
			}

			// every batch response ends with the geography tier columns,
			// keep them only in the last one
			if !last {
				for ri, row := range rows {
					if len(row) < complexity {
						return fmt.Errorf("row %d of batch %d is shorter than geography complexity %d",
							ri, i+1, complexity)
					}
					rows[ri] = row[:len(row)-complexity]
				}
			}

			parts[i] = rows
			return nil
		})
	}
	if err := ewg.Wait(); err != nil {
		return nil, err
	}

	result := parts[0]
	for i, part := range parts[1:] {
		if len(part) != len(result) {
			return nil, fmt.Errorf("batch %d returned %d rows, want %d", i+2, len(part), len(result))
		}
		for ri := range result {
			result[ri] = append(result[ri], part[ri]...)
		}
	}

	return result, nil
}
