package constvars

// Client-facing messages.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please try again later"
	ErrClientCannotProcessRequest          = "Cannot process the request, please check your request"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again later"
	ErrClientTenantHeaderMissing           = "Tenant identifying header is required"
	ErrClientInteractionNotFound           = "No interaction found for the supplied id"
	ErrClientInteractionNotReplayable      = "Interaction is not in a replayable state"
)

// Developer-facing messages.
const (
	ErrDevCannotParseJSON            = "Failed to parse JSON body"
	ErrDevCannotMarshalJSON          = "Failed to marshal JSON"
	ErrDevValidationFailed           = "Request DTO validation failed"
	ErrDevBuildRequest               = "Failed to build outbound HTTP request"
	ErrDevSendRequest                = "Failed to send outbound HTTP request"
	ErrDevDecodeResponse             = "Failed to decode response body"
	ErrDevServerDeadlineExceeded     = "Deadline exceeded while processing request"
	ErrDevTenantHeaderMissing        = "Missing required tenant header"
	ErrDevUnknownEngineKind          = "Unknown validation engine kind"
	ErrDevEngineConstruction         = "Validation engine construction failed"
	ErrDevSecretNotFound             = "Secret not found in secret store"
	ErrDevForwardAuthMisconfigured   = "Forwarding auth strategy misconfigured"
	ErrDevInteractionNotFound        = "Interaction not found in durable store"
	ErrDevStateTransitionPersistence = "Failed to persist state transition"
	ErrDevAuthTokenMissing           = "Authorization token missing"
	ErrDevAuthTokenInvalidOrExpired  = "Authorization token invalid or expired"
)
