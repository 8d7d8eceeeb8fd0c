package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBolt(t *testing.T) {
	b, err := NewBolt(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close()) }()

	ctx := context.Background()

	_, err = b.Get(ctx, "https://api.census.gov/data/2019.json")
	assert.ErrorIs(t, err, ErrNotFound)

	p := Payload{
		URL:       "https://api.census.gov/data/2019.json",
		Body:      []byte(`{"dataset":[]}`),
		FetchedAt: time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, b.Put(ctx, p))

	got, err := b.Get(ctx, p.URL)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	require.NoError(t, b.Delete(ctx, p.URL))

	_, err = b.Get(ctx, p.URL)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBolt_overwrite(t *testing.T) {
	b, err := NewBolt(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close()) }()

	ctx := context.Background()
	u := "https://api.census.gov/data/2019/acs/acs5/variables.json"

	require.NoError(t, b.Put(ctx, Payload{URL: u, Body: []byte("old"),
		FetchedAt: time.Date(2023, 3, 14, 12, 0, 0, 0, time.UTC)}))
	require.NoError(t, b.Put(ctx, Payload{URL: u, Body: []byte("new"),
		FetchedAt: time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC)}))

	got, err := b.Get(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got.Body)
}

func TestBolt_badDir(t *testing.T) {
	_, err := NewBolt("/definitely/not/existing/dir")
	assert.Error(t, err)
}
