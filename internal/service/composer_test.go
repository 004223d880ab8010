package service

import (
	"reflect"
	"testing"
)

// TestComposer_Render tests token substitution including unresolved-token
// passthrough
func TestComposer_Render(t *testing.T) {
	composer := NewComposer()

	testCases := []struct {
		name      string
		template  string
		variables map[string]string
		expected  string
	}{
		{
			name:      "all tokens resolve",
			template:  "Olá {nome}! Obrigado por completar o quiz.",
			variables: map[string]string{"nome": "Ana"},
			expected:  "Olá Ana! Obrigado por completar o quiz.",
		},
		{
			name:      "unknown token stays literal",
			template:  "Olá {nome}, seu email é {email}",
			variables: map[string]string{"nome": "Ana"},
			expected:  "Olá Ana, seu email é {email}",
		},
		{
			name:      "no tokens",
			template:  "Mensagem fixa",
			variables: map[string]string{"nome": "Ana"},
			expected:  "Mensagem fixa",
		},
		{
			name:      "empty variables",
			template:  "Olá {nome}",
			variables: nil,
			expected:  "Olá {nome}",
		},
		{
			name:      "empty template",
			template:  "",
			variables: map[string]string{"nome": "Ana"},
			expected:  "",
		},
		{
			name:      "repeated token",
			template:  "{nome} e {nome}",
			variables: map[string]string{"nome": "Bia"},
			expected:  "Bia e Bia",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := composer.Render(tc.template, tc.variables); got != tc.expected {
				t.Errorf("Expected %q but got %q", tc.expected, got)
			}
		})
	}
}

// TestComposer_Placeholders tests token extraction
func TestComposer_Placeholders(t *testing.T) {
	composer := NewComposer()

	got := composer.Placeholders("Olá {nome}, pedido {pedido_id} confirmado")
	expected := []string{"nome", "pedido_id"}

	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v but got %v", expected, got)
	}
}

// TestComposer_ValidateTemplate tests template syntax checks
func TestComposer_ValidateTemplate(t *testing.T) {
	composer := NewComposer()

	if err := composer.ValidateTemplate("Olá {nome}"); err != nil {
		t.Errorf("Expected valid template but got error: %v", err)
	}
	if err := composer.ValidateTemplate(""); err == nil {
		t.Error("Expected error for empty template")
	}
	if err := composer.ValidateTemplate("Olá {nome"); err == nil {
		t.Error("Expected error for unbalanced braces")
	}
}
