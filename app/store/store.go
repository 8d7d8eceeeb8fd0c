// Package store contains entities and services to persist catalog documents
// between runs.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is an error that is returned when the requested entity is not found.
var ErrNotFound = errors.New("not found")

// Interface defines methods for the catalog cache.
type Interface interface {
	Put(ctx context.Context, p Payload) error
	Get(ctx context.Context, url string) (Payload, error)
	Delete(ctx context.Context, url string) error
}

// Payload is a single catalog document fetched from the census API.
type Payload struct {
	URL       string    `json:"url"`
	Body      []byte    `json:"body"`
	FetchedAt time.Time `json:"fetched_at"`
}
