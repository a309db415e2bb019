package secrets

import (
	"context"
	"io"
	"strings"

	"fhirhub-service/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

// MinioSecretStore reads secret material (API keys, mTLS PEM blocks) as
// objects from a dedicated bucket.
type MinioSecretStore struct {
	client     *minio.Client
	bucketName string
}

func NewMinioSecretStore(client *minio.Client, bucketName string) *MinioSecretStore {
	return &MinioSecretStore{
		client:     client,
		bucketName: bucketName,
	}
}

func (s *MinioSecretStore) GetSecret(ctx context.Context, name string) (string, error) {
	object, err := s.client.GetObject(ctx, s.bucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return "", exceptions.ErrSecretNotFound(err, name)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return "", exceptions.ErrSecretNotFound(err, name)
	}
	return strings.TrimSpace(string(data)), nil
}
