// Package archive implements the passphrase-protected profile vault.
//
// A source directory's regular files are packed into a tar stream and
// encrypted as one unit with AES-256-GCM under a PBKDF2-derived key. The
// container header is self-describing (salt, iteration count, nonce), so
// recovery needs only the passphrase. See the layout comment in archive.go
// for the versioned on-disk format.
package archive
