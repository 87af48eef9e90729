package errors

import "errors"

// Credential errors indicate key or passphrase material could not be located.
var (
	// ErrCredentialNotFound indicates no resolution tier produced a credential.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrPromptUnavailable indicates interactive input was required but no terminal is attached.
	ErrPromptUnavailable = errors.New("interactive prompt unavailable: not a terminal")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryptFailed indicates a sealed value could not be decrypted.
	// Anonymous sealed boxes cannot distinguish a wrong private key from a
	// corrupted payload, so both conditions report this error.
	ErrDecryptFailed = errors.New("failed to decrypt value")

	// ErrWrongPassphrase indicates the supplied archive passphrase does not
	// match the one the archive was encrypted with.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrIntegrityCheckFailed indicates the archive ciphertext failed
	// authentication despite a matching passphrase check value.
	ErrIntegrityCheckFailed = errors.New("archive integrity check failed")

	// ErrInvalidPrivateKey indicates the private key is malformed or of the wrong length.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidPublicKey indicates the public key is malformed or of the wrong length.
	ErrInvalidPublicKey = errors.New("invalid public key")
)

// Document errors indicate issues with secret documents independent of key material.
var (
	// ErrInvalidDocument indicates the secret document is malformed.
	ErrInvalidDocument = errors.New("secret document is invalid")

	// ErrUnsupportedVersion indicates a ciphertext carries an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported ciphertext version")

	// ErrDocumentNotFound indicates the secret document for an environment could not be located.
	ErrDocumentNotFound = errors.New("secret document not found")
)

// Archive errors indicate issues with profile archives.
var (
	// ErrInvalidArchive indicates the archive container structure is invalid.
	ErrInvalidArchive = errors.New("invalid archive structure")

	// ErrNoFilesFound indicates the source directory contains no regular files to archive.
	ErrNoFilesFound = errors.New("no files found to archive")
)

// Project state errors indicate issues with project configuration or initialization.
var (
	// ErrProjectNotInitialized indicates the project has not been set up with Kowhai.
	ErrProjectNotInitialized = errors.New("project has not been initialized")

	// ErrProjectAlreadyInitialized indicates the project has already been set up with Kowhai.
	ErrProjectAlreadyInitialized = errors.New("project has already been initialized")
)
