package service

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {identifier} tokens in a template
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// Composer substitutes {variable} tokens in campaign templates
type Composer struct{}

// NewComposer creates a new message composer
func NewComposer() *Composer {
	return &Composer{}
}

// Render replaces each {token} present in variables with its value.
// Tokens absent from the dictionary are left as literal text so a
// campaign author can see which quiz field failed to resolve. Render is
// total: it never fails, for any input.
func (c *Composer) Render(template string, variables map[string]string) string {
	if template == "" || len(variables) == 0 {
		return template
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		if value, ok := variables[name]; ok {
			return value
		}
		return token
	})
}

// Placeholders extracts the token names referenced by a template
func (c *Composer) Placeholders(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, match[1])
	}
	return names
}

// ValidateTemplate checks if template has valid syntax
func (c *Composer) ValidateTemplate(template string) error {
	if template == "" {
		return &ValidationError{Message: "template cannot be empty"}
	}

	// Check for balanced braces
	openCount := strings.Count(template, "{")
	closeCount := strings.Count(template, "}")
	if openCount != closeCount {
		return &ValidationError{
			Message: "template has unbalanced braces",
		}
	}

	return nil
}
