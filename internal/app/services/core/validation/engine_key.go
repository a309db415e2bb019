package validation

import "strings"

// EngineKind identifies a validation engine variant.
type EngineKind string

const (
	// EngineKindLocalLibrary is the in-process library validator, the
	// default when no strategy is supplied.
	EngineKindLocalLibrary EngineKind = "HAPI"
	// EngineKindEmbeddedOfficial is the embedded official validator with
	// its implementation-guide package loaded at construction.
	EngineKindEmbeddedOfficial EngineKind = "HL7-OFFICIAL"
	// EngineKindRemoteAPI is the remote validation API.
	EngineKindRemoteAPI EngineKind = "HL7-API"
)

// EngineKey identifies one constructed engine instance: engines are cached
// per (kind, profile URL) pair.
type EngineKey struct {
	Kind       EngineKind
	ProfileURL string
}

// ParseEngineKind resolves a caller-supplied engine name to a kind. The
// second return is false for unrecognized names.
func ParseEngineKind(name string) (EngineKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "HAPI", "LOCAL":
		return EngineKindLocalLibrary, true
	case "HL7-OFFICIAL", "HL7_OFFICIAL", "OFFICIAL", "HL7-EMBEDDED":
		return EngineKindEmbeddedOfficial, true
	case "HL7-API", "HL7_API", "REMOTE", "API":
		return EngineKindRemoteAPI, true
	default:
		return "", false
	}
}
