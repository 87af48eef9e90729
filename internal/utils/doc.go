// Package utils provides shared utility functions for the Kowhai application.
//
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
//   - FindProjectKowhaiRoot: walks up directories to find .kowhai
//
// # System Utilities
//
//   - GetUsername
//   - SanitizeScopeName: normalizes environment names for file paths
//
// # Terminal Utilities
//
//   - IsTerminal, IsTTYAvailable: terminal detection
//   - ReadPassphrase, ReadPassphraseFromTTY: hidden input
//   - Confirm: yes/no prompt that never blocks without a terminal
package utils
