// Package bootstrap assembles process-wide dependencies from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"constellationapi/internal/config"
	"constellationapi/internal/database"
	"constellationapi/internal/database/migration"
	"constellationapi/internal/repository"
	"constellationapi/internal/repository/memory"
	"constellationapi/internal/repository/objectstore"
	"constellationapi/internal/repository/postgres"
	"constellationapi/internal/storage"
)

// CloseFunc releases resources held by a repository.
type CloseFunc func() error

// Constructors are variables so tests can substitute the network-bound ones.
var (
	openPostgres = database.NewPostgres
	openMinIO    = storage.NewMinIO
	migrate      = migration.EnsureMigrated
)

// OpenRepository builds the backend named by cfg.Store.Backend.
// The repository lives until the returned CloseFunc is called.
func OpenRepository(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger) (repository.ConstellationRepository, CloseFunc, error) {
	fields := logrus.Fields{
		"backend":    cfg.Store.Backend,
		"collection": cfg.Store.Collection,
	}

	var (
		repo    repository.ConstellationRepository
		closeFn CloseFunc = func() error { return nil }
	)

	switch cfg.Store.Backend {
	case "postgres":
		db, err := openPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		fields["db_host"] = cfg.Database.Host
		repo = postgres.NewConstellationPostgres(db, cfg.Store.Collection)
		closeFn = db.Close
	case "s3":
		store, err := openMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("open object storage: %w", err)
		}
		fields["bucket"] = cfg.MinIO.Bucket
		repo = objectstore.NewConstellationObjectStore(store, cfg.Store.Collection)
	case "memory":
		repo = memory.NewConstellationMemory()
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %q", cfg.Store.Backend)
	}

	log.WithFields(fields).Info("using store")
	return repo, closeFn, nil
}
