package config

type InternalConfig struct {
	App         App
	Validation  AppValidation
	Disposition AppDisposition
	Forwarding  AppForwarding
	Recorder    AppRecorder
	JWT         AppJWT
}

type App struct {
	Env                       string
	Port                      string
	Version                   string
	Address                   string
	BaseUrl                   string
	Timezone                  string
	EndpointPrefix            string
	MaxRequests               int
	ShutdownTimeout           int
	MaxTimeRequestsPerSeconds int
	DeviceID                  string
	DeviceName                string
}

// AppValidation configures the validation orchestration layer.
type AppValidation struct {
	// DefaultProfileURL is applied when the caller names no profile.
	DefaultProfileURL string
	// RemoteApiBaseUrl is the endpoint of the remote validation API engine.
	RemoteApiBaseUrl string
	// RemoteApiRequestsPerSecond throttles calls to the remote engine.
	RemoteApiRequestsPerSecond int
	// IGPackagePath is the implementation-guide package loaded by the
	// embedded official engine at construction time.
	IGPackagePath string
	// IGVersion tags results with the implementation-guide version.
	IGVersion string
	// SessionHistoryLimit bounds the orchestrator's session history.
	SessionHistoryLimit int
}

type AppDisposition struct {
	// DecisionBaseUrl is the endpoint of the external decision service.
	DecisionBaseUrl         string
	RequestTimeoutInSeconds int
	// ForwardOnReject forwards annotated payloads even when the decision
	// contains reject actions. Off by default, pending policy confirmation.
	ForwardOnReject bool
}

type AppForwarding struct {
	// ScoringEndpointUrl is the downstream scoring/ingestion endpoint.
	ScoringEndpointUrl string
	// DefaultAuthStrategy is one of noauth, apikey, mtls.
	DefaultAuthStrategy     string
	APIKeyHeaderName        string
	APIKeySecretName        string
	MTLSCertSecretName      string
	MTLSKeySecretName       string
	RequestTimeoutInSeconds int
	DefaultContentType      string
	QueueName               string
	DeadLetterQueueName     string
	// SecretBackend selects where forward-auth material is resolved from:
	// minio (default) or env for broker-less development setups.
	SecretBackend string
	// EnvSecretPrefix namespaces env-resolved secret names.
	EnvSecretPrefix string
}

type AppRecorder struct {
	// HistorySize bounds the in-memory request/response history.
	HistorySize int
	// DefaultPersistence is applied when no persistence header is supplied.
	DefaultPersistence string
	// StatusCacheTTLInSeconds bounds the redis status snapshot lifetime.
	StatusCacheTTLInSeconds int
	// CaptureBodies stores request and response bodies in snapshots when
	// enabled. Headers and status are always captured.
	CaptureBodies bool
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
}
