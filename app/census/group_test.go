package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestDataset_Groups(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups.json", r.URL.Path)
		_, err := w.Write(groupsJSON)
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewClient(slog.Default(), ts.Client(), Opts{BaseURL: ts.URL})
	ds := Dataset{GroupsURL: ts.URL + "/groups.json", cl: cl}
	ctx := context.Background()

	groups, err := ds.Groups(ctx, And)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// sorted by name
	names := lo.Map(groups, func(g Group, _ int) string { return g.Name })
	assert.Equal(t, []string{"B01001", "B19013", "B25001"}, names)

	t.Run("filtered by description", func(t *testing.T) {
		f, err := Match("description", "housing")
		require.NoError(t, err)

		groups, err := ds.Groups(ctx, And, f)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "B25001", groups[0].Name)
	})

	t.Run("or combines filters", func(t *testing.T) {
		housing, err := Match("description", "housing")
		require.NoError(t, err)
		sex, err := Match("description", "sex")
		require.NoError(t, err)

		groups, err := ds.Groups(ctx, Or, housing, sex)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "B01001", groups[0].Name)
		assert.Equal(t, "B25001", groups[1].Name)
	})
}

func TestGroup_Variables(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/groups/B01001.json", r.URL.Path)
		_, err := w.Write(variablesJSON)
		require.NoError(t, err)
	}))
	defer ts.Close()

	cl := NewClient(slog.Default(), ts.Client(), Opts{BaseURL: ts.URL})
	g := Group{Name: "B01001", VariablesURL: ts.URL + "/groups/B01001.json", cl: cl}

	f, err := Match("group", "^B01001$")
	require.NoError(t, err)

	vars, err := g.Variables(context.Background(), And, f)
	require.NoError(t, err)
	require.Len(t, vars, 2)
	assert.Equal(t, "B01001_001E", vars[0].Name)
	assert.Equal(t, "B01001_002E", vars[1].Name)
}
