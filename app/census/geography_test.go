package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestDataset_Geographies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geography.json", r.URL.Path)
		_, err := w.Write(geographyJSON)
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewClient(slog.Default(), ts.Client(), Opts{BaseURL: ts.URL})
	ds := Dataset{GeographyURL: ts.URL + "/geography.json", cl: cl}
	ctx := context.Background()

	geos, err := ds.Geographies(ctx)
	require.NoError(t, err)
	require.Len(t, geos, 4)

	// sorted by level
	names := lo.Map(geos, func(g Geography, _ int) string { return g.Name })
	assert.Equal(t, []string{"us", "state", "county", "tract"}, names)

	assert.Equal(t, Geography{
		Name:             "county",
		Level:            "050",
		ReferenceDate:    time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		Requires:         []string{"state"},
		Wildcard:         []string{"state"},
		OptionalWildcard: "state",
		Complexity:       2,
	}, geos[2])

	t.Run("filtered by name", func(t *testing.T) {
		f, err := Match("name", "^county$")
		require.NoError(t, err)

		geos, err := ds.Geographies(ctx, f)
		require.NoError(t, err)
		require.Len(t, geos, 1)
		assert.Equal(t, "county", geos[0].Name)
	})

	t.Run("unknown filter field", func(t *testing.T) {
		_, err := ds.Geographies(ctx, MatchFunc("bogus", func(string) bool { return true }))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"bogus"`)
	})
}

func TestGeography_Params(t *testing.T) {
	county := Geography{
		Name:     "county",
		Requires: []string{"state"},
		Wildcard: []string{"state"},
	}
	tract := Geography{
		Name:             "tract",
		Requires:         []string{"state", "county"},
		Wildcard:         []string{"county"},
		OptionalWildcard: "county",
	}

	tbl := []struct {
		name    string
		geo     Geography
		filters []GeoFilter
		want    []Param
		wantErr string
	}{
		{
			name: "nil filters give wildcard",
			geo:  county,
			want: []Param{{Key: "for", Value: "county:*"}},
		},
		{
			name: "values of the same field are grouped",
			geo:  county,
			filters: []GeoFilter{
				{Field: "county", Value: "001"},
				{Field: "county", Value: "003"},
				{Field: "state", Value: "06"},
			},
			want: []Param{
				{Key: "for", Value: "county:001,003"},
				{Key: "in", Value: "state:06"},
			},
		},
		{
			name:    "missing required field",
			geo:     county,
			filters: []GeoFilter{{Field: "county", Value: "001"}},
			wantErr: "required geography field not found in filter: state",
		},
		{
			name: "wildcard allowed",
			geo:  county,
			filters: []GeoFilter{
				{Field: "county", Value: "001"},
				{Field: "state", Value: "*"},
			},
			want: []Param{
				{Key: "for", Value: "county:001"},
				{Key: "in", Value: "state:*"},
			},
		},
		{
			name: "wildcard rejected",
			geo:  tract,
			filters: []GeoFilter{
				{Field: "tract", Value: "000100"},
				{Field: "state", Value: "*"},
				{Field: "county", Value: "001"},
			},
			wantErr: "geography field state does not accept wildcards",
		},
		{
			name: "optional wildcard field may be omitted",
			geo:  tract,
			filters: []GeoFilter{
				{Field: "tract", Value: "000100"},
				{Field: "state", Value: "06"},
			},
			want: []Param{
				{Key: "for", Value: "tract:000100"},
				{Key: "in", Value: "state:06"},
			},
		},
	}

	for _, tc := range tbl {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.geo.Params(tc.filters)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
