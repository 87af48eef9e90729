// Package logger provides leveled, colored logging for Kowhai CLI commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown. Commands
// create a Logger in their PersistentPreRun and pass it down.
//
// Resolved credential material (private keys, passphrases) is never
// passed to any log method.
package logger
