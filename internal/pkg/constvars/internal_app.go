package constvars

type contextKey string

const (
	CONTEXT_REQUEST_ID_KEY           contextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY contextKey = "is_client_request_id"
	CONTEXT_TENANT_ID_KEY            contextKey = "tenant_id"
	CONTEXT_INTERACTION_ID_KEY       contextKey = "interaction_id"
	CONTEXT_CAPTURE_BODY_KEY         contextKey = "capture_body"
)

const (
	ResponseUnknown = "unknown"
)
