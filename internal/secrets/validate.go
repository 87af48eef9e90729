package secrets

import (
	"fmt"
	"sort"
)

// Severity classifies a validation issue. Warnings never fail validation
// by themselves; only errors do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from the validation engine.
type Issue struct {
	Severity Severity
	Key      string // offending entry name, empty for document-level issues
	Message  string
}

// ValidationResult aggregates every finding over a document. Validation is
// purely structural: it never resolves or requires a private key.
type ValidationResult struct {
	IsValid          bool
	PublicKeyPresent bool
	SecretCount      int
	EncryptedCount   int
	PlaintextCount   int
	Issues           []Issue
}

func (r *ValidationResult) addError(key, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Key: key, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(key, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Key: key, Message: fmt.Sprintf(format, args...)})
}

// Errors returns only the error-severity issues.
func (r *ValidationResult) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings returns only the warning-severity issues.
func (r *ValidationResult) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// ValidateBytes runs the validation engine over raw document bytes. Unlike
// DecodeDocument it never stops at the first problem: every finding is
// collected so one run reports the full state of the file.
func ValidateBytes(data []byte) *ValidationResult {
	result := &ValidationResult{}

	raw, err := DecodeRaw(data)
	if err != nil {
		result.addError("", "document is not parseable: %v", err)
		return result
	}

	return validateRaw(raw, result)
}

func validateRaw(raw map[string]interface{}, result *ValidationResult) *ValidationResult {
	if pk, ok := raw[PublicKeyField]; !ok {
		result.addError("", "missing %s field", PublicKeyField)
	} else if pkStr, ok := pk.(string); !ok {
		result.addError(PublicKeyField, "%s must be a string", PublicKeyField)
	} else {
		result.PublicKeyPresent = true
		if _, err := ParsePublicKeyHex(pkStr); err != nil {
			result.addError(PublicKeyField, "public key must be %d hex characters", KeySize*2)
		}
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		if name != PublicKeyField {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		result.SecretCount++

		s, ok := raw[name].(string)
		if !ok {
			result.addError(name, "entry must be a string")
			continue
		}

		if !IsEncryptedValue(s) {
			result.PlaintextCount++
			result.addWarning(name, "value is stored in plaintext; run `kowhai secrets encrypt` before committing")
			continue
		}

		result.EncryptedCount++
		if _, err := ParseValue(s); err != nil {
			result.addError(name, "ciphertext is malformed: %v", err)
			result.addWarning(name, "if this is a plaintext value, it collides with the reserved %q marker; rename or re-enter it", cipherPrefix)
		}
	}

	result.IsValid = len(result.Errors()) == 0
	return result
}
