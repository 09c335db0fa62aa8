package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a literal that libinjection flagged.
type InjectionCheckResult struct {
	Literal     string // Unescaped literal contents
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckLiteralForInjection runs libinjection over one literal's contents.
// Returns nil if the literal looks like plain data.
//
// Example:
//
//	CheckLiteralForInjection("%jazz%")            // nil
//	CheckLiteralForInjection("x' OR '1'='1")      // flagged
func CheckLiteralForInjection(literal string) *InjectionCheckResult {
	if literal == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(literal)
	if isSQLi {
		return &InjectionCheckResult{
			Literal:     literal,
			Fingerprint: string(fingerprint),
		}
	}
	return nil
}

// CheckLiterals returns the first flagged literal, skipping any in trusted.
// Trusted literals are fixed strings the prompt told the model to emit,
// such as the temporal format.
func CheckLiterals(literals []string, trusted map[string]bool) *InjectionCheckResult {
	for _, lit := range literals {
		if trusted[lit] {
			continue
		}
		if result := CheckLiteralForInjection(lit); result != nil {
			return result
		}
	}
	return nil
}
