package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"constellationapi/internal/model"
	"constellationapi/internal/repository"
)

// ConstellationPostgres is a PostgreSQL implementation of repository.ConstellationRepository.
// Records share the records table and are partitioned by collection name.
type ConstellationPostgres struct {
	db         *sql.DB
	collection string
}

// NewConstellationPostgres creates a repository bound to one collection.
func NewConstellationPostgres(db *sql.DB, collection string) *ConstellationPostgres {
	return &ConstellationPostgres{db: db, collection: collection}
}

var _ repository.ConstellationRepository = (*ConstellationPostgres)(nil)

// Create inserts a record and lets the database allocate its ref and timestamp.
func (r *ConstellationPostgres) Create(ctx context.Context, data model.ConstellationData) (*model.Constellation, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	const q = `
		INSERT INTO records (collection, data)
		VALUES ($1, $2::jsonb)
		RETURNING ref::text, data::text, created_at
	`
	row := r.db.QueryRowContext(ctx, q, r.collection, string(payload))
	return scanRecord(row)
}

// FindByRef fetches a record of this collection by ref.
// A ref that is not a UUID cannot exist and is reported as not found without a query.
// Other UUID spellings (urn:uuid:, braces, bare hex) are looked up in canonical form.
func (r *ConstellationPostgres) FindByRef(ctx context.Context, ref string) (*model.Constellation, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	const q = `
		SELECT ref::text, data::text, created_at
		FROM records
		WHERE ref = $1 AND collection = $2
	`
	row := r.db.QueryRowContext(ctx, q, id.String(), r.collection)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return rec, err
}

// Ping checks connectivity of the underlying pool.
func (r *ConstellationPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanRecord(row *sql.Row) (*model.Constellation, error) {
	var (
		out  model.Constellation
		data string
	)
	if err := row.Scan(&out.Ref, &data, &out.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &out.Data); err != nil {
		return nil, fmt.Errorf("decode data of %s: %w", out.Ref, err)
	}
	return &out, nil
}
