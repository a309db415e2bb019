package constvars

const (
	MethodGet     = "GET"
	MethodPost    = "POST"
	MethodPut     = "PUT"
	MethodDelete  = "DELETE"
	MethodOptions = "OPTIONS"
)

const (
	MIMETextPlain           = "text/plain"
	MIMEApplicationXML      = "application/xml"
	MIMEApplicationJSON     = "application/json"
	MIMEApplicationFHIRJSON = "application/fhir+json"
	MIMEApplicationFHIRXML  = "application/fhir+xml"
	MIMEOctetStream         = "application/octet-stream"
)

const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusAccepted = 202

	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusGone                = 410
	StatusUnprocessableEntity = 422
	StatusTooManyRequests     = 429

	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Hub-specific headers honored on Bundle submission routes.
	HeaderTenantID            = "X-FHIRHUB-Tenant-ID"
	HeaderInteractionID       = "X-FHIRHUB-Interaction-ID"
	HeaderGroupInteractionID  = "X-FHIRHUB-Group-Interaction-ID"
	HeaderMasterInteractionID = "X-FHIRHUB-Master-Interaction-ID"
	HeaderValidationStrategy  = "X-FHIRHUB-Validation-Strategy"
	HeaderForwardAuth         = "X-FHIRHUB-Forward-Auth"
	HeaderPersistence         = "X-FHIRHUB-Persistence"
)
