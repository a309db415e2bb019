package profilevalidator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuralValidator(t *testing.T) {
	validator := NewStructuralValidator()
	ctx := context.Background()

	t.Run("Malformed JSON is a fatal issue, not an error", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Len(t, issues, 1)
		assert.Equal(t, "fatal", issues[0].Severity)
	})

	t.Run("Missing resourceType fails", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"type":"transaction"}`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, "required", issues[0].Code)
	})

	t.Run("Well-formed bundle passes", func(t *testing.T) {
		payload := []byte(`{
			"resourceType": "Bundle",
			"type": "transaction",
			"entry": [
				{"resource": {"resourceType": "Patient", "id": "p1"}},
				{"resource": {"resourceType": "Observation", "id": "o1"}}
			]
		}`)

		valid, issues, err := validator.Validate(ctx, payload, "")

		assert.NoError(t, err)
		assert.True(t, valid)
		assert.Empty(t, issues)
	})

	t.Run("Bundle without type fails", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":"Bundle","entry":[{"resource":{"resourceType":"Patient"}}]}`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, []string{"Bundle.type"}, issues[0].Expression)
	})

	t.Run("Empty bundle is a warning only", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":"Bundle","type":"collection"}`), "")

		assert.NoError(t, err)
		assert.True(t, valid)
		assert.Len(t, issues, 1)
		assert.Equal(t, "warning", issues[0].Severity)
	})

	t.Run("Mis-shaped bundle fails on structure", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":"Bundle","type":"transaction","entry":{"resource":{}}}`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, "structure", issues[0].Code)
		assert.Contains(t, issues[0].Diagnostics, "Bundle shape")
	})

	t.Run("Entry resource without resourceType fails", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":"Bundle","type":"transaction","entry":[{"resource":{"id":"p1"}}]}`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Contains(t, issues[0].Diagnostics, "has no resourceType")
		assert.Equal(t, []string{"Bundle.entry[0].resource.resourceType"}, issues[0].Expression)
	})

	t.Run("Entry without resource fails", func(t *testing.T) {
		valid, issues, err := validator.Validate(ctx, []byte(`{"resourceType":"Bundle","type":"transaction","entry":[{"fullUrl":"urn:uuid:1"}]}`), "")

		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Contains(t, issues[0].Diagnostics, "has no resource")
	})

	t.Run("Profile claim enforcement", func(t *testing.T) {
		strict := &StructuralValidator{RequireProfileClaim: true}

		valid, _, err := strict.Validate(ctx, []byte(`{"resourceType":"Patient","meta":{"profile":["http://example.org/profile"]}}`), "http://example.org/profile")
		assert.NoError(t, err)
		assert.True(t, valid)

		valid, issues, err := strict.Validate(ctx, []byte(`{"resourceType":"Patient"}`), "http://example.org/profile")
		assert.NoError(t, err)
		assert.False(t, valid)
		assert.Contains(t, issues[0].Diagnostics, "does not claim profile")
	})
}
