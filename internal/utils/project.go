package utils

import (
	"fmt"
	"path/filepath"
)

// GetProjectName returns the name of the current project (directory).
func GetProjectName() (string, error) {
	projectRoot, err := FindProjectKowhaiRoot()
	if err != nil {
		return "", fmt.Errorf("failed to get project directory: %w", err)
	}
	// An uninitialised repo has no project name; return empty rather than
	// erroring so read-only commands can still run and report the state.
	if projectRoot == "" {
		return "", nil
	}
	projectName := filepath.Base(projectRoot)
	return projectName, nil
}
