package cmd

import (
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	logger "github.com/kowhai-dev/kowhai/internal/logging"
	"github.com/kowhai-dev/kowhai/internal/ui"
)

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize Kowhai in the current project",
	Long:  `Creates the .kowhai directory and project configuration in the current working directory.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to get working directory: %v", err)
		}

		kowhaiDir := filepath.Join(wd, ".kowhai")
		if _, err := os.Stat(kowhaiDir); err == nil {
			Logger.Errorf("Project already initialized at %s", kowhaiDir)
			cmd.Println(color.RedString("✗") + " Kowhai has already been initialized here")
			return nil
		}

		if err := os.MkdirAll(kowhaiDir, 0700); err != nil {
			return Logger.ErrorfAndReturn("failed to create .kowhai directory: %v", err)
		}

		if _, err := configs.EnsureUserConfig(); err != nil {
			return Logger.ErrorfAndReturn("failed to ensure user config: %v", err)
		}

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}

		projectConfig := &configs.ProjectConfig{
			Project: configs.Project{
				UUID: configs.GenerateProjectUUID(),
				Name: filepath.Base(wd),
			},
			Codegen: configs.CodegenConfig{
				Prefixes: []string{"all"},
			},
		}
		if err := configs.SaveProjectConfig(projectConfig); err != nil {
			return Logger.ErrorfAndReturn("failed to save project config: %v", err)
		}

		// Display Kowhai ASCII art using go-figure
		banner := figure.NewColorFigure("Kowhai", "alligator2", "yellow", true)
		banner.Print()

		cmd.Println()
		cmd.Println(color.GreenString("✓") + " Initialized " + ui.Highlight.Sprint(projectConfig.Project.Name))
		cmd.Println(color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai secrets init --env dev") + " to create your first environment")

		audit.Log(audit.Entry{
			Operation:   "init",
			ProjectName: projectConfig.Project.Name,
			ProjectUUID: projectConfig.Project.UUID,
		})
		return nil
	},
}
