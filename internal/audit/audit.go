package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/kowhai-dev/kowhai/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`     // RFC3339 with microseconds.
	User      string `json:"user"`   // Username performing the action.
	Device    string `json:"device"` // Device UUID performing the action.
	Operation string `json:"op"`     // Operation name.

	// Optional fields depending on operation.
	Scope       string   `json:"scope,omitempty"`        // Environment scope.
	Files       []string `json:"files,omitempty"`        // For profile encrypt/decrypt.
	EntryCount  int      `json:"entry_count,omitempty"`  // For secrets encrypt/decrypt.
	OutputPath  string   `json:"output_path,omitempty"`  // For generate/profiles decrypt.
	ProjectName string   `json:"project_name,omitempty"` // For init.
	ProjectUUID string   `json:"project_uuid,omitempty"` // For init.
}

// Log appends an entry to the project audit log. Audit values record what
// happened, never the secret material itself.
//
// If logging fails it returns silently: operations should not fail just
// because audit logging did.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}
	if entry.User == "" {
		entry.User = configs.UserKowhaiSettings.Username
	}
	projectPath := configs.ProjectKowhaiSettings.ProjectPath
	if projectPath == "" {
		return
	}

	if entry.Device == "" {
		if config, err := configs.LoadUserConfig(); err == nil {
			entry.Device = config.User.DeviceUUID
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	logPath := filepath.Join(projectPath, ".kowhai", "audit.log")
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
}

// ReadAll returns every entry in the project audit log, oldest first.
func ReadAll() ([]Entry, error) {
	logPath := filepath.Join(configs.ProjectKowhaiSettings.ProjectPath, ".kowhai", "audit.log")
	data, err := os.ReadFile(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var entry Entry
		if err := dec.Decode(&entry); err != nil {
			// Skip a torn final line rather than failing the whole read.
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
