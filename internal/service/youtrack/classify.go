package youtrack

import (
	"strings"

	"youtrack_sync/internal/model"
)

// StateValue returns the resolved value of the issue's state custom field.
// The field name is matched case-insensitively and the first match wins;
// ok is false when the field is absent or its value carries no name.
func StateValue(issue *model.Issue, stateField string) (string, bool) {
	for _, field := range issue.CustomFields {
		if strings.EqualFold(field.Name, stateField) {
			return field.Value.Name()
		}
	}
	return "", false
}

// IsOpen reports whether the issue's state field matches openValue.
// Both the field name and the value compare case-insensitively to tolerate
// tracker configuration drift.
func IsOpen(issue *model.Issue, stateField, openValue string) bool {
	value, ok := StateValue(issue, stateField)
	return ok && strings.EqualFold(value, openValue)
}
