package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/kowhai-dev/kowhai/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	Username        string
}

type ProjectSettings struct {
	ProjectUUID         string
	ProjectName         string
	ProjectPath         string
	ProjectSecretsPath  string
	ProjectProfilesPath string
}

var (
	UserKowhaiSettings    *UserSettings
	ProjectKowhaiSettings *ProjectSettings
)

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	username, err := utils.GetUsername()
	if err != nil {
		log.Fatalf("error getting username: %s", err)
	}

	// This is independent of what repo you are in, so it is ok to init here
	UserKowhaiSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "kowhai"),
		Username:        username,
	}
	ProjectKowhaiSettings = &ProjectSettings{
		ProjectName:         "",
		ProjectPath:         "",
		ProjectSecretsPath:  "",
		ProjectProfilesPath: "",
	}
}

func InitProjectSettings() error {
	projectName, err := utils.GetProjectName()
	if err != nil {
		return fmt.Errorf("error getting project name: %w", err)
	}

	projectPath, err := utils.FindProjectKowhaiRoot()
	if err != nil {
		return fmt.Errorf("error getting project root: %w", err)
	}

	ProjectKowhaiSettings = &ProjectSettings{
		ProjectName:         projectName,
		ProjectPath:         projectPath,
		ProjectSecretsPath:  filepath.Join(projectPath, ".kowhai", "secrets"),
		ProjectProfilesPath: filepath.Join(projectPath, ".kowhai", "profiles"),
	}

	return nil
}
