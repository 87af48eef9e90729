package secrets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

// KeySize is the length of both halves of a key pair, in bytes. Keys are
// hex-encoded at rest and in the environment, so 64 hex characters.
const KeySize = 32

// KeyPair holds a freshly generated sealed-box key pair. The vault never
// persists the private half; where it ends up (keychain, CI variable) is
// the caller's explicit choice.
type KeyPair struct {
	PublicKey  [KeySize]byte
	PrivateKey [KeySize]byte
}

// PublicKeyHex returns the hex encoding used in secret documents.
func (kp *KeyPair) PublicKeyHex() string {
	return hex.EncodeToString(kp.PublicKey[:])
}

// PrivateKeyHex returns the hex encoding used for storage and env vars.
func (kp *KeyPair) PrivateKeyHex() string {
	return hex.EncodeToString(kp.PrivateKey[:])
}

// GenerateKeyPair produces a fresh key pair for sealed encryption.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyPair{PublicKey: *pub, PrivateKey: *priv}, nil
}

// ParsePublicKeyHex decodes a 64-character hex public key.
func ParsePublicKeyHex(s string) (*[KeySize]byte, error) {
	return parseKeyHex(s, kerrors.ErrInvalidPublicKey)
}

// ParsePrivateKeyHex decodes a 64-character hex private key.
func ParsePrivateKeyHex(s string) (*[KeySize]byte, error) {
	return parseKeyHex(s, kerrors.ErrInvalidPrivateKey)
}

// ValidatePrivateKeyHex reports whether s is a well-formed private key.
// Used as the credential resolver's per-tier format check.
func ValidatePrivateKeyHex(s string) error {
	_, err := ParsePrivateKeyHex(s)
	return err
}

func parseKeyHex(s string, sentinel error) (*[KeySize]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", sentinel)
	}
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", sentinel, KeySize, len(raw))
	}
	var key [KeySize]byte
	copy(key[:], raw)
	return &key, nil
}

// EncryptValue seals plaintext to the given public key. Only the public key
// is needed, so plaintext entries can be encrypted before any private key
// exists. The result carries the current format version.
func EncryptValue(plaintext string, publicKey *[KeySize]byte) (Value, error) {
	sealed, err := box.SealAnonymous(nil, []byte(plaintext), publicKey, rand.Reader)
	if err != nil {
		return Value{}, fmt.Errorf("failed to seal value: %w", err)
	}
	return Ciphertext(sealed), nil
}

// DecryptValue opens a sealed value with the private key. The sealed-box
// construction cannot tell a non-matching key from a corrupted payload, so
// both report ErrDecryptFailed.
func DecryptValue(v Value, privateKey *[KeySize]byte) (string, error) {
	if !v.Encrypted {
		return v.Text, nil
	}
	if v.Version != CipherVersion {
		return "", fmt.Errorf("%w: version %d", kerrors.ErrUnsupportedVersion, v.Version)
	}

	publicKey, err := derivePublicKey(privateKey)
	if err != nil {
		return "", err
	}

	plaintext, ok := box.OpenAnonymous(nil, v.Payload, publicKey, privateKey)
	if !ok {
		return "", kerrors.ErrDecryptFailed
	}
	return string(plaintext), nil
}

// derivePublicKey computes the public half of a private key.
func derivePublicKey(privateKey *[KeySize]byte) (*[KeySize]byte, error) {
	raw, err := curve25519.X25519(privateKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPrivateKey, err)
	}
	var publicKey [KeySize]byte
	copy(publicKey[:], raw)
	return &publicKey, nil
}

// EncryptDocument seals every plaintext entry in place using the document's
// own public key. Entries that are already ciphertext are left untouched,
// so re-running over an encrypted document is a no-op. Returns the number
// of entries sealed.
func EncryptDocument(doc *Document) (int, error) {
	publicKey, err := ParsePublicKeyHex(doc.PublicKey)
	if err != nil {
		return 0, err
	}

	sealed := 0
	for name, value := range doc.Entries {
		if value.Encrypted {
			continue
		}
		encrypted, err := EncryptValue(value.Text, publicKey)
		if err != nil {
			return sealed, fmt.Errorf("failed to encrypt entry %q: %w", name, err)
		}
		doc.Entries[name] = encrypted
		sealed++
	}
	return sealed, nil
}

// DecryptDocument opens every entry with the private key and returns the
// complete plaintext map. Plaintext entries pass through unchanged. Any
// single failure aborts the whole operation: partial secret sets are not a
// supported result.
func DecryptDocument(doc *Document, privateKey *[KeySize]byte) (map[string]string, error) {
	plaintexts := make(map[string]string, len(doc.Entries))
	for _, name := range doc.Names() {
		plaintext, err := DecryptValue(doc.Entries[name], privateKey)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		plaintexts[name] = plaintext
	}
	return plaintexts, nil
}

// PublicKey extracts the document's public key without requiring any
// private material, for read-only introspection.
func PublicKey(doc *Document) (string, error) {
	if _, err := ParsePublicKeyHex(doc.PublicKey); err != nil {
		return "", err
	}
	return doc.PublicKey, nil
}
