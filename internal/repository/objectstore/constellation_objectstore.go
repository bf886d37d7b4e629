package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"

	"constellationapi/internal/model"
	"constellationapi/internal/repository"
	"constellationapi/internal/storage"
)

const contentType = "application/json"

// ConstellationObjectStore keeps each record as one JSON object at <collection>/<ref>.json.
type ConstellationObjectStore struct {
	store      storage.Storage
	collection string
}

// NewConstellationObjectStore creates a repository bound to one collection prefix.
func NewConstellationObjectStore(store storage.Storage, collection string) *ConstellationObjectStore {
	return &ConstellationObjectStore{store: store, collection: collection}
}

var _ repository.ConstellationRepository = (*ConstellationObjectStore)(nil)

func (r *ConstellationObjectStore) key(ref string) string {
	return path.Join(r.collection, ref+".json")
}

// Create writes a new object under a freshly generated ref.
// The stored timestamp is the object's last-modified time reported by the store.
func (r *ConstellationObjectStore) Create(ctx context.Context, data model.ConstellationData) (*model.Constellation, error) {
	ref := uuid.NewString()
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}

	info, err := r.store.Put(ctx, r.key(ref), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: contentType,
		Metadata:    map[string]string{"collection": r.collection},
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &model.Constellation{
		Ref:       ref,
		Data:      data,
		CreatedAt: info.LastModified.UTC(),
	}, nil
}

// FindByRef reads and decodes the object for ref.
func (r *ConstellationObjectStore) FindByRef(ctx context.Context, ref string) (*model.Constellation, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	ref = id.String()

	rc, info, err := r.store.Get(ctx, r.key(ref))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	var data model.ConstellationData
	if err := json.NewDecoder(rc).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode object %s: %w", info.Key, err)
	}
	return &model.Constellation{
		Ref:       ref,
		Data:      data,
		CreatedAt: info.LastModified.UTC(),
	}, nil
}

func (r *ConstellationObjectStore) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
