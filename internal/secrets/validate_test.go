package secrets

import (
	"strings"
	"testing"
)

func buildDocument(t *testing.T, entries map[string]Value) []byte {
	t.Helper()
	return EncodeDocument(&Document{PublicKey: testPublicKeyHex, Entries: entries})
}

func TestValidateMixedDocument(t *testing.T) {
	data := buildDocument(t, map[string]Value{
		"all_api_key": Plaintext("abc"),
		"all_token":   Plaintext("xyz"),
		"ios_cert":    Ciphertext([]byte("sealed")),
	})

	result := ValidateBytes(data)
	if !result.IsValid {
		t.Fatalf("Expected valid document, issues: %+v", result.Issues)
	}
	if !result.PublicKeyPresent {
		t.Error("Expected PublicKeyPresent")
	}
	if result.SecretCount != 3 || result.EncryptedCount != 1 || result.PlaintextCount != 2 {
		t.Errorf("Expected counts 3/1/2, got %d/%d/%d",
			result.SecretCount, result.EncryptedCount, result.PlaintextCount)
	}
	if len(result.Warnings()) != 2 {
		t.Errorf("Expected 2 warnings for plaintext entries, got %d", len(result.Warnings()))
	}
	for _, warning := range result.Warnings() {
		if warning.Key != "all_api_key" && warning.Key != "all_token" {
			t.Errorf("Warning names unexpected key %q", warning.Key)
		}
	}
}

func TestValidateWarningsNeverFail(t *testing.T) {
	data := buildDocument(t, map[string]Value{
		"all_api_key": Plaintext("abc"),
	})

	result := ValidateBytes(data)
	if !result.IsValid {
		t.Error("A document with only warnings must still be valid")
	}
	if len(result.Errors()) != 0 {
		t.Errorf("Expected no errors, got %+v", result.Errors())
	}
}

func TestValidateZeroEntries(t *testing.T) {
	data := buildDocument(t, map[string]Value{})

	result := ValidateBytes(data)
	if !result.IsValid {
		t.Fatalf("An empty document with a public key must be valid, issues: %+v", result.Issues)
	}
	if result.SecretCount != 0 {
		t.Errorf("Expected 0 secrets, got %d", result.SecretCount)
	}
}

func TestValidateMissingPublicKey(t *testing.T) {
	result := ValidateBytes([]byte(`all_api_key = "abc"` + "\n"))
	if result.IsValid {
		t.Error("A document without a public key must be invalid")
	}
	if result.PublicKeyPresent {
		t.Error("PublicKeyPresent must be false")
	}
	// The plaintext entry is still counted and warned about.
	if result.SecretCount != 1 || result.PlaintextCount != 1 {
		t.Errorf("Expected counts 1/0/1, got %d/%d/%d",
			result.SecretCount, result.EncryptedCount, result.PlaintextCount)
	}
}

func TestValidateBadPublicKeyFormat(t *testing.T) {
	result := ValidateBytes([]byte(`public_key = "not-hex-at-all"` + "\n"))
	if result.IsValid {
		t.Error("A malformed public key must be invalid")
	}
	if !result.PublicKeyPresent {
		t.Error("The field is present even though malformed")
	}
	if len(result.Errors()) != 1 {
		t.Errorf("Expected exactly 1 error, got %+v", result.Errors())
	}
}

func TestValidateUnparseableDocument(t *testing.T) {
	result := ValidateBytes([]byte("not toml = = =\n"))
	if result.IsValid {
		t.Error("An unparseable document must be invalid")
	}
	if len(result.Errors()) != 1 {
		t.Fatalf("Expected 1 error, got %+v", result.Issues)
	}
	if !strings.Contains(result.Errors()[0].Message, "not parseable") {
		t.Errorf("Unexpected error message: %q", result.Errors()[0].Message)
	}
}

func TestValidateAggregatesAllIssues(t *testing.T) {
	// Bad public key, a non-string entry, and two plaintext entries: one run
	// must report everything.
	data := "public_key = \"short\"\nall_port = 8080\nall_a = \"1\"\nall_b = \"2\"\n"

	result := ValidateBytes([]byte(data))
	if result.IsValid {
		t.Error("Expected invalid result")
	}
	if len(result.Errors()) != 2 {
		t.Errorf("Expected 2 errors (public key, non-string entry), got %+v", result.Errors())
	}
	if len(result.Warnings()) != 2 {
		t.Errorf("Expected 2 plaintext warnings, got %+v", result.Warnings())
	}
	if result.SecretCount != 3 {
		t.Errorf("Expected 3 secrets counted, got %d", result.SecretCount)
	}
}

func TestValidateMalformedCiphertext(t *testing.T) {
	data := "public_key = \"" + testPublicKeyHex + "\"\nall_bad = \"kowhai:v1:!!!\"\n"

	result := ValidateBytes([]byte(data))
	if result.IsValid {
		t.Error("A malformed ciphertext must be a structural error")
	}
	if result.EncryptedCount != 1 {
		t.Errorf("A marked entry counts as encrypted even when malformed, got %d", result.EncryptedCount)
	}
	if result.PlaintextCount != 0 {
		t.Errorf("A marked entry is not plaintext, got %d", result.PlaintextCount)
	}

	// A malformed marked value may be plaintext colliding with the marker;
	// the warning must name the entry so the user can fix it.
	warnings := result.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("Expected a marker-collision warning, got %+v", warnings)
	}
	if warnings[0].Key != "all_bad" {
		t.Errorf("Warning should name the offending entry, got %q", warnings[0].Key)
	}
	if !strings.Contains(warnings[0].Message, "collides") {
		t.Errorf("Unexpected warning message: %q", warnings[0].Message)
	}
}
