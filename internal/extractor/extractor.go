package extractor

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"leadsync/internal/models"
)

// multiValueSeparator joins multi-select answers into one variable value
const multiValueSeparator = ", "

// answerItem is one record of the ordered legacy payload shape:
// [{elementId, elementType, elementFieldId, answer}, ...]
type answerItem struct {
	ElementID      string          `json:"elementId"`
	ElementType    string          `json:"elementType"`
	ElementFieldID string          `json:"elementFieldId"`
	Answer         json.RawMessage `json:"answer"`
}

// ExtractVariables normalizes a raw answers payload into a flat variable
// dictionary. Two legacy shapes are supported as explicit parse branches:
// an ordered list of answer records, or a flat field->answer object.
// Unknown or malformed payloads produce an empty map, never an error; the
// lead stays usable for segmentation but will not personalize.
func ExtractVariables(raw json.RawMessage) map[string]string {
	variables := make(map[string]string)

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return variables
	}

	// Branch 1: ordered list of answer records
	if strings.HasPrefix(trimmed, "[") {
		var items []answerItem
		if err := json.Unmarshal(raw, &items); err != nil {
			log.Printf("Warning: unrecognized answers payload (array shape): %v", err)
			return variables
		}

		for i, item := range items {
			key := item.ElementFieldID
			if key == "" && item.ElementID != "" {
				key = "field_" + item.ElementID
			}
			if key == "" {
				key = fmt.Sprintf("field_%d", i)
			}

			value, ok := answerValue(item.Answer)
			if !ok {
				continue
			}
			variables[key] = value
		}
		return variables
	}

	// Branch 2: flat field->answer object
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Printf("Warning: unrecognized answers payload: %v", err)
		return variables
	}

	for key, rawValue := range fields {
		value, ok := answerValue(rawValue)
		if !ok {
			continue
		}
		variables[key] = value
	}

	return variables
}

// answerValue flattens a single answer into a string. Array answers
// (multi-select) are joined with the fixed separator.
func answerValue(raw json.RawMessage) (string, bool) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false
	}

	switch v := decoded.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s, ok := scalarString(elem); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, multiValueSeparator), true
	default:
		// Nested objects carry no renderable value
		return "", false
	}
}

// scalarString converts a decoded scalar to its string form
func scalarString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// BuildLead derives a messaging lead from one raw submission. Status
// derivation: completed when the submission is explicitly complete or at
// 100%; otherwise abandoned unless a partial save marks it as still in
// progress. The abandoned rule mirrors the legacy inference as observed
// and may classify a mid-submission lead as abandoned.
func BuildLead(sub *models.Submission) models.Lead {
	lead := models.Lead{
		ID:          sub.ID,
		QuizID:      sub.QuizID,
		Variables:   ExtractVariables(sub.RawAnswers),
		Status:      deriveStatus(sub),
		SubmittedAt: sub.SubmittedAt,
	}

	lead.Phone, lead.Email = extractContacts(lead.Variables)
	return lead
}

// deriveStatus maps submission metadata to a lead status
func deriveStatus(sub *models.Submission) models.LeadStatus {
	if sub.IsComplete || sub.CompletionPercentage == 100 {
		return models.LeadStatusCompleted
	}
	if sub.IsPartial {
		return models.LeadStatusInProgress
	}
	return models.LeadStatusAbandoned
}

// extractContacts pulls phone and email out of the variable dictionary
// using field-name heuristics plus a format check. Keys are scanned in
// sorted order so the same dictionary always yields the same contacts.
func extractContacts(variables map[string]string) (phone, email string) {
	keys := make([]string, 0, len(variables))
	for key := range variables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := variables[key]

		if phone == "" && isPhoneField(key) {
			if normalized := NormalizePhone(value); IsValidPhone(normalized) {
				phone = normalized
			}
		}

		if email == "" && isEmailField(key) {
			if normalized := NormalizeEmail(value); IsValidEmail(normalized) {
				email = normalized
			}
		}
	}

	return phone, email
}
