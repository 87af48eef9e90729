package utils

import (
	"os/user"
	"regexp"
	"strings"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

var scopeRe = regexp.MustCompile(`[^a-z0-9\-_]`)

// SanitizeScopeName normalizes an environment scope name for use in file
// names: lower-cased, spaces to hyphens, anything outside [a-z0-9-_] removed.
func SanitizeScopeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = scopeRe.ReplaceAllString(name, "")
	name = strings.Trim(name, "-")
	return name
}
