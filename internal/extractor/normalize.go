package extractor

import "strings"

// defaultCountryCode is prepended to bare local numbers. An 11-digit
// number (area code + 9-digit mobile) carries no country code yet.
const defaultCountryCode = "55"

// NormalizePhone reduces a raw phone answer to its canonical digits-only
// form. The same normalization runs when a lead is built and when the
// delivery ledger compares contacts, so a number surfaced via two raw
// formats never evades the dedup check.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	digits := b.String()
	if len(digits) == 11 {
		return defaultCountryCode + digits
	}
	return digits
}

// IsValidPhone checks that a normalized phone has enough digits to be
// dialable
func IsValidPhone(normalized string) bool {
	return len(normalized) >= 8
}

// NormalizeEmail reduces a raw email answer to its canonical form
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidEmail checks the minimal shape of an email address
func IsValidEmail(normalized string) bool {
	return strings.Contains(normalized, "@")
}

// isPhoneField reports whether a variable name looks like a phone field
func isPhoneField(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "phone") || strings.Contains(lower, "telefone")
}

// isEmailField reports whether a variable name looks like an email field
func isEmailField(name string) bool {
	return strings.Contains(strings.ToLower(name), "email")
}
