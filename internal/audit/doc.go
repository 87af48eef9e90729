// Package audit appends a JSON-lines log of credential operations to
// .kowhai/audit.log. Entries record who did what and when, never the
// secret material itself. Logging is best effort: a failed append never
// fails the operation being logged.
package audit
