// Package tracker implements the Anti-Corruption Layer for the donation
// tracker's generic model API. The tracker exposes Django-serialized model
// records ({pk, model, fields} JSON) over a search endpoint and accepts
// form-encoded writes on add/edit/delete endpoints. This package translates
// between those representations and our domain entities, and maps the
// tracker's error envelope to domain errors.
package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/jsamuelsen11/donation-gateway/internal/domain"
)

// maxErrorBodySize limits how much of an error response body we read.
const maxErrorBodySize = 1 << 20 // 1 MB

// Error classes the tracker reports in its envelope's "error" field.
const (
	errValidation = "Validation Error"
	errPermission = "Permission Denied"
	errIntegrity  = "Integrity Error"
	errMissingFK  = "Foreign Key relation could not be found"
)

// errorEnvelope is the tracker's error response shape. Validation failures
// carry a message_dict keyed by model field; non-field errors land in the
// messages list.
type errorEnvelope struct {
	Error     string              `json:"error"`
	Exception string              `json:"exception"`
	Messages  []string            `json:"messages"`
	Fields    map[string][]string `json:"message_dict"`
}

// TranslateHTTPError maps a tracker error response to a domain error.
//
// The tracker reports almost everything as 400 and distinguishes failure
// classes in the envelope's "error" field, so the mapping inspects the body
// as well as the status code. Missing objects on edit/delete surface as
// "Foreign Key relation could not be found" rather than 404.
func TranslateHTTPError(resp *http.Response) error {
	env := parseErrorEnvelope(resp)

	detail := env.Error
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", detail, domain.ErrNotFound)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", detail, domain.ErrForbidden)

	case resp.StatusCode == http.StatusBadRequest:
		switch env.Error {
		case errValidation:
			return toValidationError(env)
		case errMissingFK:
			return fmt.Errorf("%s: %w", env.Exception, domain.ErrNotFound)
		case errIntegrity:
			return fmt.Errorf("%s: %w", env.Exception, domain.ErrConflict)
		case errPermission:
			return fmt.Errorf("%s: %w", env.Exception, domain.ErrForbidden)
		default:
			return fmt.Errorf("%s: %w", detail, domain.ErrValidation)
		}

	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%s: %w", detail, domain.ErrUnavailable)

	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
}

// parseErrorEnvelope attempts to read and parse the tracker's error envelope
// from the response. Returns an empty envelope if parsing fails.
func parseErrorEnvelope(resp *http.Response) errorEnvelope {
	if resp.Body == nil {
		return errorEnvelope{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return errorEnvelope{}
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errorEnvelope{}
	}
	return env
}

// toValidationError converts a tracker validation envelope to a domain
// ValidationError. Field findings are ordered by field name so repeated
// failures produce stable output; non-field messages follow under the
// pseudo-field "__all__".
func toValidationError(env errorEnvelope) *domain.ValidationError {
	fields := make([]string, 0, len(env.Fields))
	for f := range env.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var findings []domain.Finding
	for _, f := range fields {
		for _, msg := range env.Fields[f] {
			findings = append(findings, domain.Finding{Field: f, Message: msg})
		}
	}
	for _, msg := range env.Messages {
		findings = append(findings, domain.Finding{Field: "__all__", Message: msg})
	}

	if len(findings) == 0 {
		findings = append(findings, domain.Finding{Field: "__all__", Message: env.Exception})
	}
	return domain.NewValidationError(findings...)
}
