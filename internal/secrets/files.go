package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kowhai-dev/kowhai/internal/configs"
	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
)

// DocumentPath returns the on-disk location of an environment's secret
// document. Caller should ensure InitProjectSettings has run.
func DocumentPath(scope string) string {
	return filepath.Join(configs.ProjectKowhaiSettings.ProjectSecretsPath, scope+".toml")
}

// LoadDocument reads and decodes the secret document for an environment.
func LoadDocument(scope string) (*Document, error) {
	path := DocumentPath(scope)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("failed to read secret document at %s: %w", path, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument encodes and writes the secret document for an environment.
func SaveDocument(scope string, doc *Document) error {
	path := DocumentPath(scope)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create secrets directory: %w", err)
	}
	if err := os.WriteFile(path, EncodeDocument(doc), 0600); err != nil {
		return fmt.Errorf("failed to write secret document at %s: %w", path, err)
	}
	return nil
}

// ListScopes returns the environments that have a secret document.
func ListScopes() ([]string, error) {
	entries, err := os.ReadDir(configs.ProjectKowhaiSettings.ProjectSecretsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list secret documents: %w", err)
	}

	var scopes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".toml" {
			scopes = append(scopes, name[:len(name)-len(".toml")])
		}
	}
	return scopes, nil
}
