package requests

// ValidationStrategy is the caller-declared strategy document naming which
// validation engines to run, supplied as JSON in the strategy header.
type ValidationStrategy struct {
	Engines       []string `json:"engines" validate:"omitempty,dive,min=1"`
	ClearExisting bool     `json:"clearExisting"`
}

// SubmitBundleOptions carries the header-supplied submission options that
// have a constrained value set, checked before the pipeline runs.
type SubmitBundleOptions struct {
	ForwardAuth string `validate:"forward_auth"`
}

// ReplayInteraction is the body of the admin replay operation. Empty today,
// kept as a struct so replay options can be added without breaking callers.
type ReplayInteraction struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=512"`
}
