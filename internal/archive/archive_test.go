package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

func writeSourceDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			t.Fatalf("Failed to write test file %s: %v", name, err)
		}
	}
	return dir
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	source := map[string][]byte{
		"signing.keystore": {0x00, 0x01, 0xfe, 0xff},
		"profile.mobileprovision": []byte("provision bytes"),
		"empty.txt":               {},
	}
	dir := writeSourceDir(t, source)
	passphrase := []byte("correct horse battery staple")

	container, err := EncryptDirectory(dir, passphrase)
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}

	files, err := DecryptArchive(container, passphrase)
	if err != nil {
		t.Fatalf("DecryptArchive failed: %v", err)
	}
	if len(files) != len(source) {
		t.Fatalf("Expected %d files, got %d", len(source), len(files))
	}
	for _, f := range files {
		want, ok := source[f.Name]
		if !ok {
			t.Errorf("Unexpected file %q in archive", f.Name)
			continue
		}
		if !bytes.Equal(f.Data, want) {
			t.Errorf("File %q changed across round trip", f.Name)
		}
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{"a.txt": []byte("x")})

	container, err := EncryptDirectory(dir, []byte("right"))
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}

	if _, err := DecryptArchive(container, []byte("wrong")); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Fatalf("Expected ErrWrongPassphrase, got: %v", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{"a.txt": []byte("x")})
	passphrase := []byte("pass")

	container, err := EncryptDirectory(dir, passphrase)
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	container[len(container)-1] ^= 0xff

	if _, err := DecryptArchive(container, passphrase); !errors.Is(err, kerrors.ErrIntegrityCheckFailed) {
		t.Fatalf("Expected ErrIntegrityCheckFailed, got: %v", err)
	}
}

func TestDecryptInvalidContainer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated", []byte("KWAR\x01")},
		{"bad magic", append([]byte("NOPE"), make([]byte, headerSize)...)},
	}

	for _, tt := range tests {
		if _, err := DecryptArchive(tt.data, []byte("pass")); !errors.Is(err, kerrors.ErrInvalidArchive) {
			t.Errorf("%s: expected ErrInvalidArchive, got: %v", tt.name, err)
		}
	}
}

func TestDecryptUnsupportedVersion(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{"a.txt": []byte("x")})
	container, err := EncryptDirectory(dir, []byte("pass"))
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	container[4] = 99

	if _, err := DecryptArchive(container, []byte("pass")); !errors.Is(err, kerrors.ErrInvalidArchive) {
		t.Fatalf("Expected ErrInvalidArchive for unknown version, got: %v", err)
	}
}

func TestEncryptEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := EncryptDirectory(dir, []byte("pass")); !errors.Is(err, kerrors.ErrNoFilesFound) {
		t.Fatalf("Expected ErrNoFilesFound, got: %v", err)
	}
}

func TestEncryptSkipsSubdirectories(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{"keep.txt": []byte("k")})
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0700); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "skip.txt"), []byte("s"), 0600); err != nil {
		t.Fatalf("Failed to write nested file: %v", err)
	}

	container, err := EncryptDirectory(dir, []byte("pass"))
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	names, err := ListArchive(container, []byte("pass"))
	if err != nil {
		t.Fatalf("ListArchive failed: %v", err)
	}
	if len(names) != 1 || names[0] != "keep.txt" {
		t.Errorf("Expected only the top-level file, got %v", names)
	}
}

func TestListArchive(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{
		"b.txt": []byte("2"),
		"a.txt": []byte("1"),
		"c.txt": []byte("3"),
	})

	container, err := EncryptDirectory(dir, []byte("pass"))
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	names, err := ListArchive(container, []byte("pass"))
	if err != nil {
		t.Fatalf("ListArchive failed: %v", err)
	}
	want := []string{"a.txt", "b.txt", "c.txt"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %v", len(want), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected sorted names %v, got %v", want, names)
			break
		}
	}
}

func TestExtractArchive(t *testing.T) {
	source := map[string][]byte{
		"cert.p12":    []byte("cert bytes"),
		"profile.env": []byte("KEY=value\n"),
	}
	dir := writeSourceDir(t, source)
	passphrase := []byte("pass")

	container, err := EncryptDirectory(dir, passphrase)
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out")
	written, err := ExtractArchive(container, passphrase, dest)
	if err != nil {
		t.Fatalf("ExtractArchive failed: %v", err)
	}
	if len(written) != len(source) {
		t.Fatalf("Expected %d written files, got %d", len(source), len(written))
	}
	for name, want := range source {
		got, err := os.ReadFile(filepath.Join(dest, name))
		if err != nil {
			t.Fatalf("Failed to read extracted %s: %v", name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Extracted %s changed: got %q, want %q", name, got, want)
		}
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("Failed to read extraction directory: %v", err)
	}
	if len(entries) != len(source) {
		t.Errorf("Expected %d entries in extraction directory, got %d", len(source), len(entries))
	}
}

func TestExtractPreservesFileMode(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	container, err := EncryptDirectory(dir, []byte("pass"))
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	dest := t.TempDir()
	if _, err := ExtractArchive(container, []byte("pass"), dest); err != nil {
		t.Fatalf("ExtractArchive failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, "run.sh"))
	if err != nil {
		t.Fatalf("Failed to stat extracted file: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("Expected mode 0755, got %v", info.Mode().Perm())
	}
}

func TestEncryptFreshSaltAndNonce(t *testing.T) {
	dir := writeSourceDir(t, map[string][]byte{"a.txt": []byte("same")})
	passphrase := []byte("pass")

	first, err := EncryptDirectory(dir, passphrase)
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	second, err := EncryptDirectory(dir, passphrase)
	if err != nil {
		t.Fatalf("EncryptDirectory failed: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("Two encryptions of the same directory should not produce identical containers")
	}
}
