package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/archive"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var profilesListEnv string

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the files inside an environment's profile archive",
	Long: `Shows the file names inside the archive without extracting them. This
decrypts the whole archive internally and discards the file contents; it
needs the passphrase just like a full decrypt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting profiles list command")
		spinner, cleanup := startSpinner("Listing profiles...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(profilesListEnv)
		archivePath := filepath.Join(configs.ProjectKowhaiSettings.ProjectProfilesPath, scope+".kwar")

		container, err := os.ReadFile(archivePath)
		if err != nil {
			Logger.Errorf("Failed to read archive: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to read the profile archive at " +
				ui.Path.Sprint(archivePath) + "\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		spinner.Stop()
		passphrase, msg := resolvePassphrase(scope)
		spinner.Start()
		if msg != "" {
			spinner.FinalMSG = msg
			return nil
		}

		names, err := archive.ListArchive(container, passphrase)
		if err != nil {
			Logger.Errorf("Failed to list archive: %v", err)
			spinner.FinalMSG = profilesErrorMessage(err, scope, archivePath)
			return nil
		}

		var b strings.Builder
		b.WriteString(color.GreenString("✓") + ui.Success.Sprintf(" %d profiles in ", len(names)) + ui.Path.Sprint(archivePath) + "\n")
		for _, name := range names {
			b.WriteString("    - " + name + "\n")
		}
		spinner.FinalMSG = strings.TrimSuffix(b.String(), "\n")
		return nil
	},
}

func init() {
	profilesListCmd.Flags().StringVarP(&profilesListEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	_ = profilesListCmd.MarkFlagRequired("env")
}
