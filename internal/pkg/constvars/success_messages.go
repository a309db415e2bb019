package constvars

const (
	SubmitBundleSuccessMessage   = "Bundle accepted for validation and forwarding"
	ValidateBundleSuccessMessage = "Bundle validated"
	FindStatusSuccessMessage     = "Interaction status retrieved"
	ReplaySuccessMessage         = "Interaction replay dispatched"
)
