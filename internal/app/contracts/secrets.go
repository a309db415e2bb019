package contracts

import "context"

// SecretStore resolves named secret material: API keys and mTLS PEM blocks.
type SecretStore interface {
	GetSecret(ctx context.Context, name string) (string, error)
}
