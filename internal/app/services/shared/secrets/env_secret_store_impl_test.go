package secrets

import (
	"context"
	"net/http"
	"testing"

	"fhirhub-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
)

func TestEnvSecretStore(t *testing.T) {
	t.Run("Resolves a prefixed secret", func(t *testing.T) {
		t.Setenv("FHIRHUB_SECRET_SCORING_API_KEY", "s3cret")
		store := NewEnvSecretStore("FHIRHUB_SECRET")

		value, err := store.GetSecret(context.Background(), "scoring-api.key")

		assert.NoError(t, err)
		assert.Equal(t, "s3cret", value)
	})

	t.Run("Resolves without a prefix", func(t *testing.T) {
		t.Setenv("SCORING_API_KEY", "bare")
		store := NewEnvSecretStore("")

		value, err := store.GetSecret(context.Background(), "scoring-api-key")

		assert.NoError(t, err)
		assert.Equal(t, "bare", value)
	})

	t.Run("Missing secret reports not found", func(t *testing.T) {
		store := NewEnvSecretStore("FHIRHUB_SECRET")

		_, err := store.GetSecret(context.Background(), "never-set")

		assert.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusInternalServerError, customErr.StatusCode)
	})
}
