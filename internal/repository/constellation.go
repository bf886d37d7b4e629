// Package repository contains the data access contract for constellation records.
// Implementations live in subpackages (postgres, objectstore, memory).
package repository

import (
	"context"
	"errors"

	"constellationapi/internal/model"
)

// ErrNotFound is returned by FindByRef when no record carries the ref.
var ErrNotFound = errors.New("record not found")

// ConstellationRepository persists records in a named collection.
// No business logic here; strictly persistence operations.
type ConstellationRepository interface {
	// Create stores a new record. The backend allocates the ref and creation time
	// and returns the record as stored.
	Create(ctx context.Context, data model.ConstellationData) (*model.Constellation, error)

	// FindByRef returns the record with the given ref, or ErrNotFound.
	FindByRef(ctx context.Context, ref string) (*model.Constellation, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
