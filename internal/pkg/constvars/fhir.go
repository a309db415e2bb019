package constvars

const (
	ResourceBundle           = "Bundle"
	ResourceOperationOutcome = "OperationOutcome"
)

const (
	// URLParamInteractionID names the chi URL parameter carrying an interaction id.
	URLParamInteractionID = "interactionId"
)

const (
	IssueSeverityFatal       = "fatal"
	IssueSeverityError       = "error"
	IssueSeverityWarning     = "warning"
	IssueSeverityInformation = "information"

	IssueTypeException  = "exception"
	IssueTypeInvalid    = "invalid"
	IssueTypeProcessing = "processing"
	IssueTypeInformational = "informational"
)
