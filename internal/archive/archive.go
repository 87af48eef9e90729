package archive

import (
	"archive/tar"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/crypto/pbkdf2"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

// Container layout, version 1:
//
//	offset  size  field
//	0       4     magic "KWAR"
//	4       1     format version
//	5       4     PBKDF2 iteration count, big endian
//	9       16    salt
//	25      12    AES-GCM nonce
//	37      8     passphrase check value (PBKDF2 output bytes 32..40)
//	45      -     ciphertext (tar stream, AES-256-GCM, header as AAD)
//
// Salt, nonce, and iteration count ride along in the header so decryption
// needs only the passphrase. The whole header is authenticated as GCM
// additional data. The check value lets a wrong passphrase be reported
// separately from a tampered archive.
const (
	FormatVersion = 1

	// Iterations is the PBKDF2-SHA256 count for new archives. Old archives
	// decrypt with whatever count their header records.
	Iterations = 200_000

	saltSize   = 16
	nonceSize  = 12
	checkSize  = 8
	headerSize = 4 + 1 + 4 + saltSize + nonceSize + checkSize
)

var magic = []byte("KWAR")

// File is one extracted archive member.
type File struct {
	Name string
	Mode fs.FileMode
	Data []byte
}

// deriveKeys stretches the passphrase into the cipher key and the
// passphrase check value.
func deriveKeys(passphrase, salt []byte, iterations int) (key []byte, check []byte) {
	stretched := pbkdf2.Key(passphrase, salt, iterations, 32+checkSize, sha256.New)
	return stretched[:32], stretched[32:]
}

// EncryptDirectory packages the directory's regular files (flat, not
// recursive) into a tar stream and encrypts it under a key derived from
// the passphrase. Each call uses a fresh salt and nonce.
func EncryptDirectory(sourceDir string, passphrase []byte) ([]byte, error) {
	payload, err := packDirectory(sourceDir)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	key, check := deriveKeys(passphrase, salt, Iterations)

	header := make([]byte, 0, headerSize)
	header = append(header, magic...)
	header = append(header, FormatVersion)
	header = binary.BigEndian.AppendUint32(header, Iterations)
	header = append(header, salt...)
	header = append(header, nonce...)
	header = append(header, check...)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	return gcm.Seal(header, nonce, payload, header), nil
}

// EncryptDirectoryToFile encrypts sourceDir and writes the container once.
func EncryptDirectoryToFile(sourceDir, outPath string, passphrase []byte) error {
	container, err := EncryptDirectory(sourceDir, passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0700); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(outPath, container, 0600); err != nil {
		return fmt.Errorf("failed to write archive to %s: %w", outPath, err)
	}
	return nil
}

// DecryptArchive re-derives the key from the container's own salt and
// iteration count and opens it.
//
// Error taxonomy: a malformed header is ErrInvalidArchive; a check-value
// mismatch is ErrWrongPassphrase; a failed GCM open after a matching check
// is ErrIntegrityCheckFailed (the header, including the check value, is
// covered by the authentication tag, so a tampered check surfaces there).
func DecryptArchive(container, passphrase []byte) ([]File, error) {
	if len(container) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", kerrors.ErrInvalidArchive)
	}
	header := container[:headerSize]
	if !bytes.Equal(header[:4], magic) {
		return nil, fmt.Errorf("%w: bad magic", kerrors.ErrInvalidArchive)
	}
	if header[4] != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", kerrors.ErrInvalidArchive, header[4])
	}

	iterations := int(binary.BigEndian.Uint32(header[5:9]))
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: bad iteration count", kerrors.ErrInvalidArchive)
	}
	salt := header[9 : 9+saltSize]
	nonce := header[9+saltSize : 9+saltSize+nonceSize]
	storedCheck := header[9+saltSize+nonceSize : headerSize]

	key, check := deriveKeys(passphrase, salt, iterations)
	if subtle.ConstantTimeCompare(check, storedCheck) != 1 {
		return nil, kerrors.ErrWrongPassphrase
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM: %w", err)
	}

	payload, err := gcm.Open(nil, nonce, container[headerSize:], header)
	if err != nil {
		return nil, kerrors.ErrIntegrityCheckFailed
	}

	return unpack(payload)
}

// ListArchive returns the file names inside the container, sorted. This is
// not a cheap metadata peek: the whole archive is decrypted and the file
// bytes discarded.
func ListArchive(container, passphrase []byte) ([]string, error) {
	files, err := DecryptArchive(container, passphrase)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	sort.Strings(names)
	return names, nil
}

// ExtractArchive decrypts the container and writes each file into destDir.
// Every file is written to a temp name and renamed into place, so a failed
// extraction never leaves a half-written file under its final name. On any
// error the caller owns cleanup of destDir.
func ExtractArchive(container, passphrase []byte, destDir string) ([]string, error) {
	files, err := DecryptArchive(container, passphrase)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		target := filepath.Join(destDir, f.Name)
		if err := writeFileAtomic(target, f.Data, f.Mode); err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		written = append(written, target)
	}
	return written, nil
}

func writeFileAtomic(target string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".kowhai-extract-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(mode.Perm()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// packDirectory tars the directory's regular files in name order. Symlinks
// and subdirectories are skipped: signing profiles are flat bundles.
func packDirectory(sourceDir string) ([]byte, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory %s: %w", sourceDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNoFilesFound, sourceDir)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, name := range names {
		path := filepath.Join(sourceDir, name)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		hdr := &tar.Header{
			Name: name,
			Mode: int64(info.Mode().Perm()),
			Size: int64(len(data)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return nil, fmt.Errorf("failed to write tar header for %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return nil, fmt.Errorf("failed to write tar data for %s: %w", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	return buf.Bytes(), nil
}

func unpack(payload []byte) ([]File, error) {
	tr := tar.NewReader(bytes.NewReader(payload))
	var files []File
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidArchive, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		// Member names are base names written by packDirectory; reject
		// anything that would escape the extraction directory.
		if hdr.Name != filepath.Base(hdr.Name) {
			return nil, fmt.Errorf("%w: unsafe member name %q", kerrors.ErrInvalidArchive, hdr.Name)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidArchive, err)
		}
		files = append(files, File{
			Name: hdr.Name,
			Mode: fs.FileMode(hdr.Mode).Perm(),
			Data: data,
		})
	}
	return files, nil
}
