package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/credentials"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var (
	secretsInitEnv   string
	secretsInitForce bool
)

var secretsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a key pair and an empty secret document for an environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets init command")
		spinner, cleanup := startSpinner("Creating environment secrets...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(secretsInitEnv)
		if scope == "" {
			spinner.FinalMSG = color.RedString("✗") + " A valid environment name is required " +
				ui.Muted.Sprint("--env dev")
			return nil
		}
		Logger.Debugf("Environment scope: %s", scope)

		docPath := secrets.DocumentPath(scope)
		if _, err := os.Stat(docPath); err == nil && !secretsInitForce {
			spinner.FinalMSG = color.RedString("✗") + " A secret document already exists at " + ui.Path.Sprint(docPath) + "\n" +
				color.CyanString("→") + " Use " + ui.Flag.Sprint("--force") + " to replace it and its key pair"
			return nil
		}

		Logger.Debugf("Generating key pair")
		keyPair, err := secrets.GenerateKeyPair()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to generate key pair: %v", err)
		}

		doc := &secrets.Document{
			PublicKey: keyPair.PublicKeyHex(),
			Entries:   map[string]secrets.Value{},
		}
		if err := secrets.SaveDocument(scope, doc); err != nil {
			return Logger.ErrorfAndReturn("failed to save secret document: %v", err)
		}
		Logger.Infof("Secret document written to %s", docPath)

		// The private key is never persisted implicitly. Offer the keychain;
		// otherwise hand it to the user exactly once.
		kind := credentials.SecretsKey
		saved := false
		if utils.IsTerminal() {
			spinner.Stop()
			if utils.Confirm("Save the private key to the system keychain for " + ui.Highlight.Sprint(scope) + "?") {
				store := credentials.SystemStore{}
				if err := store.Set(kind.Service(), scope, keyPair.PrivateKeyHex()); err != nil {
					Logger.WarnfAlways("Failed to save private key to keychain: %v", err)
				} else {
					saved = true
				}
			}
			spinner.Start()
		}

		finalMessage := color.GreenString("✓") + " Secret document created at " + ui.Path.Sprint(docPath) + "\n"
		if saved {
			finalMessage += color.GreenString("✓") + " Private key saved to the system keychain " +
				ui.Muted.Sprintf("%s/%s", kind.Service(), scope)
		} else {
			finalMessage += color.YellowString("!") + " Private key " + ui.Muted.Sprint("keep it safe, it will not be shown again") + "\n" +
				"    " + keyPair.PrivateKeyHex() + "\n" +
				color.CyanString("→") + " Export it as " + ui.EnvVar.Sprint(kind.ScopedEnvVar(scope)) +
				" or store it with your CI provider"
		}
		spinner.FinalMSG = finalMessage

		audit.Log(audit.Entry{
			Operation: "secrets.init",
			Scope:     scope,
		})
		return nil
	},
}

func init() {
	secretsInitCmd.Flags().StringVarP(&secretsInitEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	secretsInitCmd.Flags().BoolVarP(&secretsInitForce, "force", "f", false, "replace an existing document and key pair")
	_ = secretsInitCmd.MarkFlagRequired("env")
}
