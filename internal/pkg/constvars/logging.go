package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingInteractionIDKey = "interaction_id"
	LoggingTenantIDKey      = "tenant_id"
	LoggingSessionIDKey     = "session_id"
	LoggingProfileURLKey    = "profile_url"
	LoggingEngineKey        = "engine"
	LoggingStateKey         = "state"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
)
