package profilevalidator

import (
	"bytes"
	"context"
	"fmt"

	"fhirhub-service/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// StructuralValidator checks FHIR payloads for baseline structural
// conformance: well-formed JSON, a resourceType, Bundle composition rules and
// a profile claim matching the requested profile. Parse failures of the
// payload are reported as fatal issues, never as errors.
type StructuralValidator struct {
	// RequireProfileClaim rejects resources whose meta.profile does not
	// name the requested profile. Off by default; most senders omit the
	// claim and rely on the hub to pick the profile.
	RequireProfileClaim bool
}

func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

func (v *StructuralValidator) Validate(ctx context.Context, payload []byte, profileURL string) (bool, []fhir_dto.OperationOutcomeIssue, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, err
	}

	if !gjson.ValidBytes(payload) {
		return false, []fhir_dto.OperationOutcomeIssue{{
			Severity:    "fatal",
			Code:        "structure",
			Diagnostics: "payload is not well-formed JSON",
		}}, nil
	}

	doc := gjson.ParseBytes(payload)

	var issues []fhir_dto.OperationOutcomeIssue

	resourceType := doc.Get("resourceType").String()
	if resourceType == "" {
		issues = append(issues, fhir_dto.OperationOutcomeIssue{
			Severity:    "error",
			Code:        "required",
			Diagnostics: "resourceType is missing",
			Expression:  []string{"resourceType"},
		})
		return false, issues, nil
	}

	if resourceType == "Bundle" {
		issues = append(issues, v.validateBundle(payload)...)
	}

	if v.RequireProfileClaim && profileURL != "" {
		issues = append(issues, v.validateProfileClaim(doc, profileURL)...)
	}

	valid := true
	for _, issue := range issues {
		if issue.Severity == "error" || issue.Severity == "fatal" {
			valid = false
			break
		}
	}
	return valid, issues, nil
}

func (v *StructuralValidator) validateBundle(payload []byte) []fhir_dto.OperationOutcomeIssue {
	var bundle fhir_dto.FHIRBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return []fhir_dto.OperationOutcomeIssue{{
			Severity:    "error",
			Code:        "structure",
			Diagnostics: fmt.Sprintf("payload does not match the Bundle shape: %s", err.Error()),
			Expression:  []string{"Bundle"},
		}}
	}

	var issues []fhir_dto.OperationOutcomeIssue

	if bundle.Type == "" {
		issues = append(issues, fhir_dto.OperationOutcomeIssue{
			Severity:    "error",
			Code:        "required",
			Diagnostics: "Bundle.type is missing",
			Expression:  []string{"Bundle.type"},
		})
	}

	if len(bundle.Entry) == 0 {
		issues = append(issues, fhir_dto.OperationOutcomeIssue{
			Severity:    "warning",
			Code:        "informational",
			Diagnostics: "Bundle has no entries",
			Expression:  []string{"Bundle.entry"},
		})
		return issues
	}

	for idx, entry := range bundle.Entry {
		if len(entry.Resource) == 0 || bytes.Equal(entry.Resource, []byte("null")) {
			issues = append(issues, fhir_dto.OperationOutcomeIssue{
				Severity:    "error",
				Code:        "required",
				Diagnostics: fmt.Sprintf("Bundle.entry[%d] has no resource", idx),
				Expression:  []string{fmt.Sprintf("Bundle.entry[%d].resource", idx)},
			})
			continue
		}
		if gjson.GetBytes(entry.Resource, "resourceType").String() == "" {
			issues = append(issues, fhir_dto.OperationOutcomeIssue{
				Severity:    "error",
				Code:        "required",
				Diagnostics: fmt.Sprintf("Bundle.entry[%d].resource has no resourceType", idx),
				Expression:  []string{fmt.Sprintf("Bundle.entry[%d].resource.resourceType", idx)},
			})
		}
	}

	return issues
}

func (v *StructuralValidator) validateProfileClaim(doc gjson.Result, profileURL string) []fhir_dto.OperationOutcomeIssue {
	claimed := false
	doc.Get("meta.profile").ForEach(func(_, profile gjson.Result) bool {
		if profile.String() == profileURL {
			claimed = true
			return false
		}
		return true
	})
	if claimed {
		return nil
	}
	return []fhir_dto.OperationOutcomeIssue{{
		Severity:    "error",
		Code:        "structure",
		Diagnostics: fmt.Sprintf("resource does not claim profile %s", profileURL),
		Expression:  []string{"meta.profile"},
	}}
}
