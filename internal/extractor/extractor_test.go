package extractor

import (
	"encoding/json"
	"testing"
	"time"

	"leadsync/internal/models"
)

// TestExtractVariables_OrderedListShape tests the legacy array-of-answers
// payload format
func TestExtractVariables_OrderedListShape(t *testing.T) {
	raw := json.RawMessage(`[
		{"elementId": "e1", "elementType": "text", "elementFieldId": "nome", "answer": "Ana"},
		{"elementId": "e2", "elementType": "phone", "elementFieldId": "telefone", "answer": "11995133932"},
		{"elementId": "e3", "elementType": "multi", "elementFieldId": "interesses", "answer": ["esporte", "música"]}
	]`)

	variables := ExtractVariables(raw)

	if got := variables["nome"]; got != "Ana" {
		t.Errorf("Expected nome=Ana but got %q", got)
	}
	if got := variables["telefone"]; got != "11995133932" {
		t.Errorf("Expected telefone=11995133932 but got %q", got)
	}
	// Multi-select answers are joined with a fixed delimiter
	if got := variables["interesses"]; got != "esporte, música" {
		t.Errorf("Expected joined multi-select but got %q", got)
	}
}

// TestExtractVariables_FlatMapShape tests the legacy flat object format
func TestExtractVariables_FlatMapShape(t *testing.T) {
	raw := json.RawMessage(`{"nome": "Bruno", "idade": 31, "aceita": true}`)

	variables := ExtractVariables(raw)

	if got := variables["nome"]; got != "Bruno" {
		t.Errorf("Expected nome=Bruno but got %q", got)
	}
	if got := variables["idade"]; got != "31" {
		t.Errorf("Expected idade=31 but got %q", got)
	}
	if got := variables["aceita"]; got != "true" {
		t.Errorf("Expected aceita=true but got %q", got)
	}
}

// TestExtractVariables_SynthesizedKeys tests key fallback when no field id
// is present
func TestExtractVariables_SynthesizedKeys(t *testing.T) {
	raw := json.RawMessage(`[
		{"elementId": "abc", "answer": "first"},
		{"answer": "second"}
	]`)

	variables := ExtractVariables(raw)

	if got := variables["field_abc"]; got != "first" {
		t.Errorf("Expected field_abc=first but got %q", got)
	}
	if got := variables["field_1"]; got != "second" {
		t.Errorf("Expected field_1=second but got %q", got)
	}
}

// TestExtractVariables_MalformedPayload tests that unknown shapes produce
// an empty map rather than failing
func TestExtractVariables_MalformedPayload(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"null", "null"},
		{"truncated json", `{"nome": "An`},
		{"array of scalars", `[1, 2, 3]`},
		{"plain string", `"hello"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			variables := ExtractVariables(json.RawMessage(tc.raw))
			if variables == nil {
				t.Fatal("Expected non-nil map")
			}
			if len(variables) != 0 {
				t.Errorf("Expected empty map but got %v", variables)
			}
		})
	}
}

// TestNormalizePhone tests digit stripping and country-code handling
func TestNormalizePhone(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{"bare 11 digits gets country code", "11995133932", "5511995133932"},
		{"formatted local number", "(11) 99513-3932", "5511995133932"},
		{"already has country code", "5511995133932", "5511995133932"},
		{"short number left as is", "99513", "99513"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePhone(tc.raw); got != tc.expected {
				t.Errorf("Expected %q but got %q", tc.expected, got)
			}
		})
	}
}

// TestNormalizeEmail tests canonical email form
func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana.Silva@Example.COM "); got != "ana.silva@example.com" {
		t.Errorf("Expected lower-cased trimmed email but got %q", got)
	}
	if IsValidEmail("not-an-email") {
		t.Error("Expected address without @ to be invalid")
	}
}

// TestBuildLead_StatusDerivation tests lead status from submission metadata
func TestBuildLead_StatusDerivation(t *testing.T) {
	testCases := []struct {
		name     string
		sub      models.Submission
		expected models.LeadStatus
	}{
		{
			name:     "explicit complete flag",
			sub:      models.Submission{IsComplete: true},
			expected: models.LeadStatusCompleted,
		},
		{
			name:     "100 percent without flag",
			sub:      models.Submission{CompletionPercentage: 100},
			expected: models.LeadStatusCompleted,
		},
		{
			name:     "partial save still in progress",
			sub:      models.Submission{IsPartial: true, CompletionPercentage: 50},
			expected: models.LeadStatusInProgress,
		},
		{
			name:     "neither complete nor partial is abandoned",
			sub:      models.Submission{CompletionPercentage: 50},
			expected: models.LeadStatusAbandoned,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lead := BuildLead(&tc.sub)
			if lead.Status != tc.expected {
				t.Errorf("Expected status %s but got %s", tc.expected, lead.Status)
			}
		})
	}
}

// TestBuildLead_ContactExtraction tests the field-name heuristics for
// phone and email
func TestBuildLead_ContactExtraction(t *testing.T) {
	sub := &models.Submission{
		ID:          "sub-1",
		QuizID:      "quiz-1",
		IsComplete:  true,
		SubmittedAt: time.Now(),
		RawAnswers: json.RawMessage(`{
			"nome": "Ana",
			"telefone": "(11) 99513-3932",
			"email_contato": "Ana@Example.com"
		}`),
	}

	lead := BuildLead(sub)

	if lead.Phone != "5511995133932" {
		t.Errorf("Expected normalized phone but got %q", lead.Phone)
	}
	if lead.Email != "ana@example.com" {
		t.Errorf("Expected normalized email but got %q", lead.Email)
	}
}

// TestBuildLead_InvalidContactsIgnored tests that contacts failing the
// format validators are not promoted
func TestBuildLead_InvalidContactsIgnored(t *testing.T) {
	sub := &models.Submission{
		ID:         "sub-2",
		QuizID:     "quiz-1",
		RawAnswers: json.RawMessage(`{"telefone": "n/a", "email": "sem-arroba"}`),
	}

	lead := BuildLead(sub)

	if lead.Phone != "" {
		t.Errorf("Expected empty phone but got %q", lead.Phone)
	}
	if lead.Email != "" {
		t.Errorf("Expected empty email but got %q", lead.Email)
	}
	// The lead is still usable for segmentation
	if lead.Status != models.LeadStatusAbandoned {
		t.Errorf("Expected abandoned status but got %s", lead.Status)
	}
}
