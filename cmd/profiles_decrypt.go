package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/archive"
	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var (
	profilesDecryptEnv string
	profilesDecryptOut string
)

var profilesDecryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an environment's profile archive and extract its files",
	Long: `Extracts the archive into the output directory. Each file is written
atomically; a failed extraction never reports success with partial output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting profiles decrypt command")
		spinner, cleanup := startSpinner("Decrypting profiles...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(profilesDecryptEnv)
		archivePath := filepath.Join(configs.ProjectKowhaiSettings.ProjectProfilesPath, scope+".kwar")
		destDir := profilesDecryptOut
		if destDir == "" {
			destDir = filepath.Join(configs.ProjectKowhaiSettings.ProjectPath, "profiles", scope)
		}
		Logger.Debugf("Environment scope: %s, archive: %s, dest: %s", scope, archivePath, destDir)

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

		written, err := archive.ExtractArchive(container, passphrase, destDir)
		if err != nil {
			Logger.Errorf("Failed to extract archive: %v", err)
			spinner.FinalMSG = profilesErrorMessage(err, scope, archivePath)
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + ui.Success.Sprintf(" Extracted %d profiles to ", len(written)) +
			ui.Path.Sprint(destDir) + utils.FormatPaths(written)

		audit.Log(audit.Entry{
			Operation:  "profiles.decrypt",
			Scope:      scope,
			Files:      written,
			OutputPath: destDir,
		})
		return nil
	},
}

// profilesErrorMessage maps archive errors to actionable remediation.
func profilesErrorMessage(err error, scope, archivePath string) string {
	switch {
	case errors.Is(err, kerrors.ErrWrongPassphrase):
		return color.RedString("✗") + " Wrong passphrase for " + ui.Highlight.Sprint(scope) + "\n" +
			color.CyanString("→") + " Check the value of " + ui.EnvVar.Sprint("KOWHAI_PROFILES_PASSWORD") +
			" or your keychain entry"
	case errors.Is(err, kerrors.ErrIntegrityCheckFailed):
		return color.RedString("✗") + " The archive at " + ui.Path.Sprint(archivePath) +
			" failed its integrity check " + ui.Muted.Sprint("it may have been tampered with or corrupted") + "\n" +
			color.CyanString("→") + " Restore it from version control and try again"
	case errors.Is(err, kerrors.ErrInvalidArchive):
		return color.RedString("✗") + " The file at " + ui.Path.Sprint(archivePath) +
			" is not a valid profile archive"
	default:
		return color.RedString("✗") + " Failed to extract profiles\n" +
			color.RedString("Error: ") + err.Error()
	}
}

func init() {
	profilesDecryptCmd.Flags().StringVarP(&profilesDecryptEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	profilesDecryptCmd.Flags().StringVar(&profilesDecryptOut, "out", "", "output directory (default: profiles/<env>)")
	_ = profilesDecryptCmd.MarkFlagRequired("env")
}
