package configs

import (
	"path/filepath"
	"testing"
)

func TestSaveLoadTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	saved := ProjectConfig{}
	saved.Project.UUID = "3e1f3c1e-0000-4000-8000-000000000000"
	saved.Project.Name = "test-project"
	saved.Codegen.Prefixes = []string{"all", "ios"}
	saved.Codegen.Targets = []CodegenTarget{
		{Path: "lib/secrets.dart", Class: "Secrets"},
	}

	if err := SaveTOML(path, saved); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	var loaded ProjectConfig
	if err := LoadTOML(path, &loaded); err != nil {
		t.Fatalf("LoadTOML failed: %v", err)
	}
	if loaded.Project.UUID != saved.Project.UUID || loaded.Project.Name != saved.Project.Name {
		t.Errorf("Project section changed: %+v", loaded.Project)
	}
	if len(loaded.Codegen.Prefixes) != 2 || loaded.Codegen.Prefixes[1] != "ios" {
		t.Errorf("Prefixes changed: %v", loaded.Codegen.Prefixes)
	}
	if len(loaded.Codegen.Targets) != 1 || loaded.Codegen.Targets[0].Path != "lib/secrets.dart" {
		t.Errorf("Targets changed: %+v", loaded.Codegen.Targets)
	}
}

func TestLoadTOMLMissingFile(t *testing.T) {
	var cfg ProjectConfig
	if err := LoadTOML(filepath.Join(t.TempDir(), "missing.toml"), &cfg); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
