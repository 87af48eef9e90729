// Package codegen turns decrypted secret sets into obfuscated Dart source.
//
// It is a pure transformation over an in-memory map: no resolver, no
// filesystem. Each value is XOR-masked with a fresh random key and stored
// as masked ++ key; the emitted accessor splits the literal in half and
// XORs the halves back together at the point of use. The original
// plaintext never appears in the output.
package codegen
