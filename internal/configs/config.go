package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type UserConfig struct {
	User User `toml:"user"`
}

type User struct {
	Username   string `toml:"username"`
	DeviceUUID string `toml:"device_uuid"`
}

type ProjectConfig struct {
	Project Project       `toml:"project"`
	Codegen CodegenConfig `toml:"codegen"`
}

type Project struct {
	UUID string `toml:"project_uuid"`
	Name string `toml:"name"`
}

// CodegenConfig controls obfuscated source generation.
type CodegenConfig struct {
	// Prefixes selects which secret names are handed to the generator,
	// in matching order (e.g. ["all", "ios"]).
	Prefixes []string        `toml:"prefixes"`
	Targets  []CodegenTarget `toml:"targets"`
}

// CodegenTarget is one generated source file.
type CodegenTarget struct {
	// Path is relative to the project root.
	Path string `toml:"path"`
	// Class names the emitted container; defaults to "Secrets" when empty.
	Class string `toml:"class"`
}

var (
	GlobalUserConfig    *UserConfig
	GlobalProjectConfig *ProjectConfig
)

// LoadUserConfig loads the user configuration from the config file.
func LoadUserConfig() (*UserConfig, error) {
	configPath := filepath.Join(UserKowhaiSettings.UserConfigsPath, "config.toml")

	config := &UserConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	return config, nil
}

// SaveUserConfig saves the user configuration to the config file.
func SaveUserConfig(config *UserConfig) error {
	configPath := filepath.Join(UserKowhaiSettings.UserConfigsPath, "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}

	return nil
}

// EnsureUserConfig ensures the user configuration exists and has a device UUID.
func EnsureUserConfig() (*UserConfig, error) {
	config, err := LoadUserConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	changed := false
	if config.User.Username == "" {
		config.User.Username = UserKowhaiSettings.Username
		changed = true
	}
	if config.User.DeviceUUID == "" {
		config.User.DeviceUUID = uuid.New().String()
		changed = true
	}
	if changed {
		if err := SaveUserConfig(config); err != nil {
			return nil, fmt.Errorf("failed to save user config: %w", err)
		}
	}

	return config, nil
}

// LoadProjectConfig loads the project configuration from the config file.
// Note: Caller should ensure InitProjectSettings is called before calling this function.
func LoadProjectConfig() (*ProjectConfig, error) {
	configPath := filepath.Join(ProjectKowhaiSettings.ProjectPath, ".kowhai", "config.toml")

	config := &ProjectConfig{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if len(config.Codegen.Prefixes) == 0 {
		config.Codegen.Prefixes = []string{"all"}
	}

	return config, nil
}

// SaveProjectConfig saves the project configuration to the config file.
// Note: Caller should ensure InitProjectSettings is called before calling this function.
func SaveProjectConfig(config *ProjectConfig) error {
	configPath := filepath.Join(ProjectKowhaiSettings.ProjectPath, ".kowhai", "config.toml")

	if err := SaveTOML(configPath, config); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}

	return nil
}

// GenerateProjectUUID generates a new UUID for the project.
func GenerateProjectUUID() string {
	return uuid.New().String()
}
