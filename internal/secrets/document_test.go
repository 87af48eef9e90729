package secrets

import (
	"errors"
	"strings"
	"testing"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

const testPublicKeyHex = "7f1e2d3c4b5a69788796a5b4c3d2e1f00112233445566778899aabbccddeeff0"

func TestParseValuePlaintext(t *testing.T) {
	value, err := ParseValue("hello world")
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if value.Encrypted {
		t.Error("Expected plaintext value")
	}
	if value.Text != "hello world" {
		t.Errorf("Expected text %q, got %q", "hello world", value.Text)
	}
}

func TestParseValueCiphertext(t *testing.T) {
	encoded := Ciphertext([]byte{1, 2, 3}).Encode()
	if !strings.HasPrefix(encoded, "kowhai:v1:") {
		t.Fatalf("Expected version marker prefix, got %q", encoded)
	}

	value, err := ParseValue(encoded)
	if err != nil {
		t.Fatalf("ParseValue failed: %v", err)
	}
	if !value.Encrypted || value.Version != 1 {
		t.Errorf("Expected encrypted v1 value, got %+v", value)
	}
	if len(value.Payload) != 3 {
		t.Errorf("Expected 3 payload bytes, got %d", len(value.Payload))
	}
}

func TestParseValueUnsupportedVersion(t *testing.T) {
	_, err := ParseValue("kowhai:v2:AAAA")
	if !errors.Is(err, kerrors.ErrUnsupportedVersion) {
		t.Fatalf("Expected ErrUnsupportedVersion, got: %v", err)
	}
}

func TestParseValueBadBase64(t *testing.T) {
	_, err := ParseValue("kowhai:v1:!!!not-base64!!!")
	if !errors.Is(err, kerrors.ErrInvalidDocument) {
		t.Fatalf("Expected ErrInvalidDocument, got: %v", err)
	}
}

func TestDecodeDocumentRoundTrip(t *testing.T) {
	doc := &Document{
		PublicKey: testPublicKeyHex,
		Entries: map[string]Value{
			"all_api_key": Plaintext("abc123"),
			"ios_cert":    Ciphertext([]byte("sealed-bytes")),
		},
	}

	decoded, err := DecodeDocument(EncodeDocument(doc))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if decoded.PublicKey != testPublicKeyHex {
		t.Errorf("Public key changed across round trip")
	}
	if len(decoded.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(decoded.Entries))
	}
	if decoded.Entries["all_api_key"].Text != "abc123" {
		t.Errorf("Plaintext entry changed across round trip")
	}
	if string(decoded.Entries["ios_cert"].Payload) != "sealed-bytes" {
		t.Errorf("Ciphertext payload changed across round trip")
	}
}

func TestDecodeDocumentSpecialCharacters(t *testing.T) {
	doc := &Document{
		PublicKey: testPublicKeyHex,
		Entries: map[string]Value{
			"all_quote":   Plaintext(`va"lue with \ and	tab`),
			"all_newline": Plaintext("line1\nline2"),
		},
	}

	decoded, err := DecodeDocument(EncodeDocument(doc))
	if err != nil {
		t.Fatalf("DecodeDocument failed: %v", err)
	}
	if decoded.Entries["all_quote"].Text != doc.Entries["all_quote"].Text {
		t.Errorf("Quoted entry changed: got %q", decoded.Entries["all_quote"].Text)
	}
	if decoded.Entries["all_newline"].Text != "line1\nline2" {
		t.Errorf("Newline entry changed: got %q", decoded.Entries["all_newline"].Text)
	}
}

func TestDecodeDocumentZeroEntriesValid(t *testing.T) {
	doc := &Document{PublicKey: testPublicKeyHex, Entries: map[string]Value{}}
	decoded, err := DecodeDocument(EncodeDocument(doc))
	if err != nil {
		t.Fatalf("A document with zero entries must be valid, got: %v", err)
	}
	if len(decoded.Entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(decoded.Entries))
	}
}

func TestDecodeDocumentMissingPublicKey(t *testing.T) {
	_, err := DecodeDocument([]byte(`all_api_key = "abc"` + "\n"))
	if !errors.Is(err, kerrors.ErrInvalidDocument) {
		t.Fatalf("Expected ErrInvalidDocument, got: %v", err)
	}
}

func TestDecodeDocumentBadPublicKey(t *testing.T) {
	_, err := DecodeDocument([]byte(`public_key = "deadbeef"` + "\n"))
	if !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		t.Fatalf("Expected ErrInvalidPublicKey, got: %v", err)
	}
}

func TestDecodeDocumentNonStringEntry(t *testing.T) {
	data := "public_key = \"" + testPublicKeyHex + "\"\nall_port = 8080\n"
	_, err := DecodeDocument([]byte(data))
	if !errors.Is(err, kerrors.ErrInvalidDocument) {
		t.Fatalf("Expected ErrInvalidDocument, got: %v", err)
	}
}

func TestDecodeDocumentUnparseable(t *testing.T) {
	_, err := DecodeDocument([]byte("this is not toml = = =\n"))
	if !errors.Is(err, kerrors.ErrInvalidDocument) {
		t.Fatalf("Expected ErrInvalidDocument, got: %v", err)
	}
}

func TestEncodeDocumentDeterministicOrder(t *testing.T) {
	doc := &Document{
		PublicKey: testPublicKeyHex,
		Entries: map[string]Value{
			"b_entry": Plaintext("2"),
			"a_entry": Plaintext("1"),
			"c_entry": Plaintext("3"),
		},
	}

	first := string(EncodeDocument(doc))
	second := string(EncodeDocument(doc))
	if first != second {
		t.Error("Encoding must be deterministic")
	}

	aIdx := strings.Index(first, "a_entry")
	bIdx := strings.Index(first, "b_entry")
	cIdx := strings.Index(first, "c_entry")
	if !(aIdx < bIdx && bIdx < cIdx) {
		t.Errorf("Entries must be emitted in lexicographic order: %s", first)
	}
	if !strings.HasPrefix(first, PublicKeyField+" = ") {
		t.Errorf("Public key must come first: %s", first)
	}
}
