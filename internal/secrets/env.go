package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type envStore struct{}

// NewEnvStore returns a Store backed by the process environment.
// Keys are upper-cased, so "db_password" reads DB_PASSWORD.
func NewEnvStore() Store {
	return envStore{}
}

func (envStore) Get(_ context.Context, key string) (string, error) {
	name := strings.ToUpper(key)
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: environment variable %s", ErrNotFound, name)
}
