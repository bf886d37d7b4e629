package secrets

import (
	"context"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// VaultConfig configures the HashiCorp Vault provider.
type VaultConfig struct {
	Address    string
	Token      string
	PathPrefix string // e.g. "secret/data/constellations" for KV v2
}

type vaultStore struct {
	client     *vault.Client
	pathPrefix string
}

// NewVaultStore connects to Vault and checks that the server answers health probes.
func NewVaultStore(cfg VaultConfig) (Store, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("vault address is required")
	}

	vc := vault.DefaultConfig()
	vc.Address = cfg.Address
	vc.HttpClient.Transport = otelhttp.NewTransport(vc.HttpClient.Transport)

	client, err := vault.NewClient(vc)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	if _, err := client.Sys().Health(); err != nil {
		return nil, fmt.Errorf("connect to vault: %w", err)
	}

	prefix := strings.Trim(cfg.PathPrefix, "/")
	if prefix == "" {
		prefix = "secret"
	}
	return &vaultStore{client: client, pathPrefix: prefix}, nil
}

// Get reads "<prefix>/<key>" and returns its "value" field.
// KV v2 responses nest the payload under "data"; both layouts are accepted.
func (v *vaultStore) Get(ctx context.Context, key string) (string, error) {
	path := v.pathPrefix + "/" + key
	secret, err := v.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read vault secret %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data := secret.Data
	if inner, ok := data["data"].(map[string]interface{}); ok {
		data = inner
	}
	if s, ok := data["value"].(string); ok && s != "" {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s has no value field", ErrNotFound, path)
}
