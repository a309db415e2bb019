package validation

import (
	"context"
	"testing"

	"fhirhub-service/internal/pkg/dto/requests"

	"github.com/stretchr/testify/assert"
)

func stubRegistry() *EngineRegistry {
	return NewEngineRegistry(func(ctx context.Context, key EngineKey) (Engine, error) {
		return &stubEngine{valid: true, obs: Observability{Name: string(key.Kind)}}, nil
	})
}

func TestSessionBuilder(t *testing.T) {
	t.Run("Defaults to the local library engine", func(t *testing.T) {
		session, err := NewSessionBuilder(stubRegistry(), "session-1").
			AddPayload([]byte(`{"resourceType":"Bundle"}`)).
			Build(context.Background())

		assert.NoError(t, err)
		assert.Len(t, session.Engines(), 1)
		assert.Equal(t, string(EngineKindLocalLibrary), session.Engines()[0].Observability().Name)
	})

	t.Run("Strategy names engines in document order", func(t *testing.T) {
		session, err := NewSessionBuilder(stubRegistry(), "session-2").
			ApplyStrategy(requests.ValidationStrategy{Engines: []string{"HL7-API", "HAPI"}}).
			Build(context.Background())

		assert.NoError(t, err)
		assert.Len(t, session.Engines(), 2)
		assert.Equal(t, string(EngineKindRemoteAPI), session.Engines()[0].Observability().Name)
		assert.Equal(t, string(EngineKindLocalLibrary), session.Engines()[1].Observability().Name)
	})

	t.Run("ClearExisting replaces previously named engines", func(t *testing.T) {
		session, err := NewSessionBuilder(stubRegistry(), "session-3").
			ApplyStrategy(requests.ValidationStrategy{Engines: []string{"HAPI"}}).
			ApplyStrategy(requests.ValidationStrategy{Engines: []string{"HL7-OFFICIAL"}, ClearExisting: true}).
			Build(context.Background())

		assert.NoError(t, err)
		assert.Len(t, session.Engines(), 1)
		assert.Equal(t, string(EngineKindEmbeddedOfficial), session.Engines()[0].Observability().Name)
	})

	t.Run("Unrecognized engine name is a soft issue", func(t *testing.T) {
		session, err := NewSessionBuilder(stubRegistry(), "session-4").
			ApplyStrategy(requests.ValidationStrategy{Engines: []string{"HAPI", "NOT-AN-ENGINE"}}).
			Build(context.Background())

		assert.NoError(t, err)
		assert.Len(t, session.Engines(), 1)
		assert.Len(t, session.SoftIssues(), 1)
		assert.Contains(t, session.SoftIssues()[0], "NOT-AN-ENGINE")
	})

	t.Run("Malformed strategy document is a soft issue", func(t *testing.T) {
		session, err := NewSessionBuilder(stubRegistry(), "session-5").
			ApplyStrategyDocument([]byte(`{"engines": [`)).
			Build(context.Background())

		assert.NoError(t, err)
		assert.Len(t, session.Engines(), 1, "falls back to the default engine")
		assert.Len(t, session.SoftIssues(), 1)
	})
}

func TestSessionValidate(t *testing.T) {
	t.Run("Results are payload-major engine-minor", func(t *testing.T) {
		fast := &stubEngine{valid: true, obs: Observability{Name: "first"}}
		slow := &stubEngine{valid: false, obs: Observability{Name: "second"}}
		session := &Session{
			SessionID: "session-6",
			payloads:  [][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`), []byte(`{"c":3}`)},
			engines:   []Engine{fast, slow},
		}

		session.Validate(context.Background())

		results := session.Results()
		assert.Len(t, results, 6)
		for i, result := range results {
			if i%2 == 0 {
				assert.Equal(t, "first", result.Observability.Name)
			} else {
				assert.Equal(t, "second", result.Observability.Name)
			}
		}
		assert.False(t, session.Valid())
	})

	t.Run("One failing engine does not stop the rest", func(t *testing.T) {
		failing := &stubEngine{valid: false}
		passing := &stubEngine{valid: true}
		session := &Session{
			SessionID: "session-7",
			payloads:  [][]byte{[]byte(`{}`)},
			engines:   []Engine{failing, passing},
		}

		session.Validate(context.Background())

		assert.Len(t, session.Results(), 2)
		assert.Equal(t, int32(1), passing.calls)
	})
}
