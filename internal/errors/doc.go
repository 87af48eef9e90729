// Package errors defines sentinel errors shared across the Kowhai CLI.
//
// Errors are grouped by concern: credential resolution, cryptography,
// secret documents, profile archives, and project state. Callers match
// them with errors.Is and attach context with fmt.Errorf and %w.
package errors
