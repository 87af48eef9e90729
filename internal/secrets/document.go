package secrets

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

// PublicKeyField is the one reserved field in a secret document; every
// other top-level field is a secret entry.
const PublicKeyField = "public_key"

const (
	// cipherPrefix marks an encrypted value and carries its format version,
	// e.g. "kowhai:v1:<base64>". Only version 1 is defined.
	cipherPrefix  = "kowhai:v"
	CipherVersion = 1
)

// Value is one secret entry: either plaintext or a versioned ciphertext.
type Value struct {
	Encrypted bool
	Version   int
	Payload   []byte // sealed-box bytes when Encrypted
	Text      string // plaintext when not
}

// Plaintext returns a plaintext Value.
func Plaintext(text string) Value {
	return Value{Text: text}
}

// Ciphertext returns an encrypted Value carrying the current format version.
func Ciphertext(payload []byte) Value {
	return Value{Encrypted: true, Version: CipherVersion, Payload: payload}
}

// IsEncryptedValue reports whether a raw string carries the ciphertext marker.
func IsEncryptedValue(s string) bool {
	return strings.HasPrefix(s, cipherPrefix)
}

// ParseValue decodes a raw document field into a Value. Strings without the
// ciphertext marker are plaintext; marked strings must carry a supported
// version and a well-formed base64 payload.
func ParseValue(s string) (Value, error) {
	if !IsEncryptedValue(s) {
		return Plaintext(s), nil
	}

	rest := strings.TrimPrefix(s, cipherPrefix)
	sep := strings.IndexByte(rest, ':')
	if sep < 1 {
		return Value{}, fmt.Errorf("%w: malformed ciphertext marker", kerrors.ErrInvalidDocument)
	}

	version, err := strconv.Atoi(rest[:sep])
	if err != nil {
		return Value{}, fmt.Errorf("%w: malformed ciphertext version %q", kerrors.ErrInvalidDocument, rest[:sep])
	}
	if version != CipherVersion {
		return Value{}, fmt.Errorf("%w: version %d", kerrors.ErrUnsupportedVersion, version)
	}

	payload, err := base64.StdEncoding.DecodeString(rest[sep+1:])
	if err != nil {
		return Value{}, fmt.Errorf("%w: ciphertext payload is not valid base64", kerrors.ErrInvalidDocument)
	}

	return Value{Encrypted: true, Version: version, Payload: payload}, nil
}

// Encode renders the Value in its at-rest form.
func (v Value) Encode() string {
	if !v.Encrypted {
		return v.Text
	}
	return fmt.Sprintf("%s%d:%s", cipherPrefix, v.Version, base64.StdEncoding.EncodeToString(v.Payload))
}

// Document is one environment's secret set: a hex-encoded public key plus
// an open set of named entries. Entries may freely mix plaintext and
// ciphertext.
type Document struct {
	PublicKey string
	Entries   map[string]Value
}

// Names returns the entry names in lexicographic order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Entries))
	for name := range d.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DecodeRaw parses document bytes into the untyped TOML form. Used by the
// validation engine, which aggregates issues instead of failing on the
// first malformed entry.
func DecodeRaw(data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidDocument, err)
	}
	return raw, nil
}

// DecodeDocument parses and validates document bytes. Every field must be a
// string, the public key must be present and well formed, and every marked
// ciphertext must parse.
func DecodeDocument(data []byte) (*Document, error) {
	raw, err := DecodeRaw(data)
	if err != nil {
		return nil, err
	}

	doc := &Document{Entries: make(map[string]Value, len(raw))}

	pk, ok := raw[PublicKeyField]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s field", kerrors.ErrInvalidDocument, PublicKeyField)
	}
	pkStr, ok := pk.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", kerrors.ErrInvalidDocument, PublicKeyField)
	}
	if _, err := ParsePublicKeyHex(pkStr); err != nil {
		return nil, err
	}
	doc.PublicKey = pkStr

	for name, field := range raw {
		if name == PublicKeyField {
			continue
		}
		s, ok := field.(string)
		if !ok {
			return nil, fmt.Errorf("%w: entry %q must be a string", kerrors.ErrInvalidDocument, name)
		}
		value, err := ParseValue(s)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		doc.Entries[name] = value
	}

	return doc, nil
}

// EncodeDocument renders the document as TOML: the public key first, then
// entries in lexicographic order for reproducible diffs.
func EncodeDocument(doc *Document) []byte {
	var b strings.Builder
	b.WriteString(PublicKeyField)
	b.WriteString(" = ")
	b.WriteString(encodeTOMLString(doc.PublicKey))
	b.WriteString("\n")

	names := doc.Names()
	if len(names) > 0 {
		b.WriteString("\n")
	}
	for _, name := range names {
		b.WriteString(encodeTOMLKey(name))
		b.WriteString(" = ")
		b.WriteString(encodeTOMLString(doc.Entries[name].Encode()))
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// encodeTOMLString renders a TOML basic string.
func encodeTOMLString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// encodeTOMLKey renders a key bare when possible, quoted otherwise.
func encodeTOMLKey(k string) string {
	for _, r := range k {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return encodeTOMLString(k)
		}
	}
	if k == "" {
		return `""`
	}
	return k
}
