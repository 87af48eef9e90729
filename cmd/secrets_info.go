package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var secretsInfoEnv string

var secretsInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show an environment's public key and entry counts",
	Long:  `Read-only introspection of a secret document. Never needs a private key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets info command")
		spinner, cleanup := startSpinner("Reading secret document...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(secretsInfoEnv)
		doc, err := secrets.LoadDocument(scope)
		if err != nil {
			Logger.Errorf("Failed to load secret document: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to load the secret document for " +
				ui.Highlight.Sprint(scope) + "\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		publicKey, err := secrets.PublicKey(doc)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to extract public key: %v", err)
		}

		encrypted, plaintext := 0, 0
		for _, value := range doc.Entries {
			if value.Encrypted {
				encrypted++
			} else {
				plaintext++
			}
		}

		spinner.FinalMSG = color.GreenString("✓") + " " + ui.Highlight.Sprint(scope) + "\n" +
			"    public key: " + publicKey + "\n" +
			ui.Muted.Sprintf("%d secrets: %d encrypted, %d plaintext", len(doc.Entries), encrypted, plaintext)
		return nil
	},
}

func init() {
	secretsInfoCmd.Flags().StringVarP(&secretsInfoEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	_ = secretsInfoCmd.MarkFlagRequired("env")
}
