// Package ui provides semantic text formatting for terminal output.
//
// Formatters degrade gracefully when color is unavailable or disabled
// (NO_COLOR, dumb terminals, piped output), substituting plain-text
// decorations where the color carried meaning.
package ui
