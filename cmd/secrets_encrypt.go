package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var secretsEncryptEnv string

var secretsEncryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt the plaintext entries of an environment's secret document",
	Long: `Seals every plaintext entry using the document's own public key.
Entries that are already encrypted are left untouched, so running this
repeatedly is safe. No private key is needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets encrypt command")
		spinner, cleanup := startSpinner("Encrypting secret document...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(secretsEncryptEnv)
		Logger.Debugf("Environment scope: %s", scope)

		doc, err := secrets.LoadDocument(scope)
		if err != nil {
			Logger.Errorf("Failed to load secret document: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to load the secret document for " +
				ui.Highlight.Sprint(scope) + "\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		sealed, err := secrets.EncryptDocument(doc)
		if err != nil {
			Logger.Errorf("Failed to encrypt document: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to encrypt the secret document\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		if sealed == 0 {
			spinner.FinalMSG = color.GreenString("✓") + " Nothing to do: all " +
				ui.Highlight.Sprint(scope) + " entries are already encrypted"
			return nil
		}

		if err := secrets.SaveDocument(scope, doc); err != nil {
			return Logger.ErrorfAndReturn("failed to save secret document: %v", err)
		}
		Logger.Infof("Sealed %d entries", sealed)

		spinner.FinalMSG = color.GreenString("✓") + ui.Success.Sprintf(" Encrypted %d entries in ", sealed) +
			ui.Path.Sprint(secrets.DocumentPath(scope))

		audit.Log(audit.Entry{
			Operation:  "secrets.encrypt",
			Scope:      scope,
			EntryCount: sealed,
		})
		return nil
	},
}

func init() {
	secretsEncryptCmd.Flags().StringVarP(&secretsEncryptEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	_ = secretsEncryptCmd.MarkFlagRequired("env")
}
