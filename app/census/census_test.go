package census

import (
	"context"
	_ "embed"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Semior001/gocensus/app/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

//go:embed data/test/datasets.json
var datasetsJSON []byte

//go:embed data/test/geography.json
var geographyJSON []byte

//go:embed data/test/groups.json
var groupsJSON []byte

//go:embed data/test/variables.json
var variablesJSON []byte

func TestEncodeParams(t *testing.T) {
	got := encodeParams([]Param{
		{Key: "get", Value: "B01001_001E,B25001_001E"},
		{Key: "for", Value: "county:*"},
		{Key: "in", Value: "state:06"},
		{Key: "key", Value: "secret value"},
	})
	assert.Equal(t, "get=B01001_001E,B25001_001E&for=county:*&in=state:06&key=secret%20value", got)
}

func TestClient_catalogCache(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/2019.json", r.URL.Path)
		_, err := w.Write(datasetsJSON)
		require.NoError(t, err)
	}))
	defer ts.Close()

	catalogs, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, catalogs.Close()) }()

	cl := NewClient(slog.Default(), ts.Client(), Opts{
		BaseURL:    ts.URL,
		Catalogs:   catalogs,
		CatalogTTL: time.Minute,
	})

	for i := 0; i < 3; i++ {
		datasets, err := cl.SearchDatasets(context.Background(), 2019, "acs/acs5", false)
		require.NoError(t, err)
		require.Len(t, datasets, 1)
	}

	assert.Equal(t, 1, hits)
}

func TestClient_expiredCatalogRefetched(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, err := w.Write(datasetsJSON)
		require.NoError(t, err)
	}))
	defer ts.Close()

	catalogs, err := store.NewBolt(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, catalogs.Close()) }()

	stale := store.Payload{
		URL:       ts.URL + "/2019.json",
		Body:      []byte(`{"dataset":[]}`),
		FetchedAt: time.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, catalogs.Put(context.Background(), stale))

	cl := NewClient(slog.Default(), ts.Client(), Opts{
		BaseURL:    ts.URL,
		Catalogs:   catalogs,
		CatalogTTL: time.Hour,
	})

	datasets, err := cl.SearchDatasets(context.Background(), 2019, "acs/acs5", false)
	require.NoError(t, err)
	require.Len(t, datasets, 1)
	assert.Equal(t, 1, hits)

	refreshed, err := catalogs.Get(context.Background(), stale.URL)
	require.NoError(t, err)
	assert.JSONEq(t, string(datasetsJSON), string(refreshed.Body))
}

func TestClient_badStatusCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	cl := NewClient(slog.Default(), ts.Client(), Opts{BaseURL: ts.URL})

	_, err := cl.SearchDatasets(context.Background(), 2019, "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status code: 404")
}
