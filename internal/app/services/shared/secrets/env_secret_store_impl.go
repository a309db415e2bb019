package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fhirhub-service/internal/pkg/exceptions"
)

// EnvSecretStore resolves secrets from environment variables. Intended for
// development and tests; deployments use the object-store backed
// implementation.
type EnvSecretStore struct {
	prefix string
}

func NewEnvSecretStore(prefix string) *EnvSecretStore {
	return &EnvSecretStore{prefix: prefix}
}

func (s *EnvSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	key := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", "/", "_").Replace(name))
	if s.prefix != "" {
		key = s.prefix + "_" + key
	}
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", exceptions.ErrSecretNotFound(fmt.Errorf("env %s not set", key), name)
	}
	return value, nil
}
