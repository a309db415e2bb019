package constvars

// Interaction lifecycle states. Transitions are append-only; the ordering is
// NONE -> ACCEPT_FHIR_BUNDLE -> DISPOSITION -> FORWARD -> COMPLETE|FAIL.
const (
	StateNone             = "NONE"
	StateAcceptFHIRBundle = "ACCEPT_FHIR_BUNDLE"
	StateDisposition      = "DISPOSITION"
	StateForward          = "FORWARD"
	StateComplete         = "COMPLETE"
	StateFail             = "FAIL"
)

// Disposition actions returned by the decision service.
const (
	DispositionAccept  = "accept"
	DispositionReject  = "reject"
	DispositionDiscard = "discard"
)

// Outbound authentication strategies for the forwarding dispatcher.
const (
	ForwardAuthNone   = "noauth"
	ForwardAuthAPIKey = "apikey"
	ForwardAuthMTLS   = "mtls"
)

// Persistence policies resolvable per request via HeaderPersistence.
const (
	PersistenceMongo = "mongo"
	PersistenceNone  = "none"
)

// Secret backends for forward-auth material.
const (
	SecretBackendMinio = "minio"
	SecretBackendEnv   = "env"
)
