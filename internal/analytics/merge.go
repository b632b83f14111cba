package analytics

import (
	"strings"

	appErrors "github.com/unclebandit/mailleopard-backend/internal/errors"
)

// Recipient carries the per-recipient values for a merge pass.
type Recipient struct {
	Email          string
	AdditionalData map[string]string
}

// MergeFields substitutes {field} placeholders for every field the list
// declares, plus the built-in {email}. In strict mode (bulk sends) a
// declared field with no value is a hard error and the body is not
// returned. In lenient mode (test sends) missing values are filled with a
// clearly marked placeholder so previews always render.
func MergeFields(body string, r Recipient, declaredFields []string, strict bool) (string, error) {
	merged := strings.ReplaceAll(body, "{email}", r.Email)

	for _, field := range declaredFields {
		value := r.AdditionalData[field]
		if value == "" {
			if strict {
				return "", appErrors.NewMissingMergeField(field)
			}
			value = "EXAMPLE " + field
		}
		merged = strings.ReplaceAll(merged, "{"+field+"}", value)
	}

	return merged, nil
}
