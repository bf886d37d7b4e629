// Package secrets resolves credentials that must not live in source or config files.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"constellationapi/internal/config"
)

// ErrNotFound is returned when a provider has no value for a key.
var ErrNotFound = errors.New("secret not found")

// Keys looked up by Hydrate.
const (
	KeyDatabasePassword = "db_password"
	KeyMinIOSecretKey   = "minio_secret_key"
)

// Store reads secret values by key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// NewStore builds the provider named in cfg.
func NewStore(cfg config.SecretsConfig) (Store, error) {
	switch cfg.Provider {
	case "", "env":
		return NewEnvStore(), nil
	case "vault":
		return NewVaultStore(VaultConfig{
			Address:    cfg.VaultAddress,
			Token:      cfg.VaultToken,
			PathPrefix: cfg.VaultPathPrefix,
		})
	default:
		return nil, fmt.Errorf("unsupported secret provider: %s", cfg.Provider)
	}
}

// Hydrate fills credentials in cfg that are still empty after environment loading.
// Only the credentials of the selected store backend are required.
func Hydrate(ctx context.Context, s Store, cfg *config.AppConfig) error {
	switch cfg.Store.Backend {
	case "postgres":
		return fill(ctx, s, KeyDatabasePassword, &cfg.Database.Password)
	case "s3":
		return fill(ctx, s, KeyMinIOSecretKey, &cfg.MinIO.SecretKey)
	}
	return nil
}

func fill(ctx context.Context, s Store, key string, dst *string) error {
	if *dst != "" {
		return nil
	}
	v, err := s.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", key, err)
	}
	*dst = v
	return nil
}
