package cmd

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/archive"
	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var (
	profilesEncryptEnv string
	profilesEncryptDir string
)

var profilesEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a directory of signing profiles into a single archive",
	Long: `Packages the directory's files into one encrypted archive under
.kowhai/profiles/. The key is derived from the environment's passphrase;
the archive records its own salt, nonce, and iteration count, so the
passphrase alone recovers it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting profiles encrypt command")
		spinner, cleanup := startSpinner("Encrypting profiles...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(profilesEncryptEnv)
		sourceDir := profilesEncryptDir
		if sourceDir == "" {
			sourceDir = filepath.Join(configs.ProjectKowhaiSettings.ProjectPath, "profiles", scope)
		}
		Logger.Debugf("Environment scope: %s, source dir: %s", scope, sourceDir)

		spinner.Stop()
		passphrase, msg := resolvePassphrase(scope)
		spinner.Start()
		if msg != "" {
			spinner.FinalMSG = msg
			return nil
		}

		outPath := filepath.Join(configs.ProjectKowhaiSettings.ProjectProfilesPath, scope+".kwar")
		if err := archive.EncryptDirectoryToFile(sourceDir, outPath, passphrase); err != nil {
			Logger.Errorf("Failed to encrypt profiles: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to encrypt profiles from " +
				ui.Path.Sprint(sourceDir) + "\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Profiles encrypted to " + ui.Path.Sprint(outPath)

		audit.Log(audit.Entry{
			Operation:  "profiles.encrypt",
			Scope:      scope,
			OutputPath: outPath,
		})
		return nil
	},
}

func init() {
	profilesEncryptCmd.Flags().StringVarP(&profilesEncryptEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	profilesEncryptCmd.Flags().StringVar(&profilesEncryptDir, "dir", "", "source directory (default: profiles/<env>)")
	_ = profilesEncryptCmd.MarkFlagRequired("env")
}
