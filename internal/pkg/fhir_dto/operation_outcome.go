package fhir_dto

type OperationOutcome struct {
	ResourceType string                  `json:"resourceType"`
	Issue        []OperationOutcomeIssue `json:"issue"`
}

type OperationOutcomeIssue struct {
	Severity    string   `json:"severity"`
	Code        string   `json:"code"`
	Diagnostics string   `json:"diagnostics,omitempty"`
	Expression  []string `json:"expression,omitempty"`
}

// FatalOutcome builds an OperationOutcome with a single fatal issue. Engines
// use it when an internal failure must be reported as a diagnostic rather
// than an error.
func FatalOutcome(diagnostics string) OperationOutcome {
	return OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue: []OperationOutcomeIssue{
			{
				Severity:    "fatal",
				Code:        "exception",
				Diagnostics: diagnostics,
			},
		},
	}
}

// HasErrors reports whether any issue carries error or fatal severity.
func (o OperationOutcome) HasErrors() bool {
	for _, issue := range o.Issue {
		if issue.Severity == "error" || issue.Severity == "fatal" {
			return true
		}
	}
	return false
}
