// Package secrets implements the per-value secret vault.
//
// Each environment has one TOML secret document: a reserved public_key
// field (64 hex characters) plus an open set of named entries. Entries are
// either plaintext or sealed-box ciphertext marked "kowhai:v1:<base64>".
// The marker is in-band: a plaintext value that itself begins with
// "kowhai:v" is indistinguishable from ciphertext and will be parsed as
// such, so plaintext values must not start with that prefix (the
// validation engine flags offending entries by name).
// Anyone holding the public key can seal values; opening them requires the
// matching private key, which this package never persists.
//
// The validation engine in validate.go inspects documents without any key
// material, aggregating every finding rather than stopping at the first.
package secrets
