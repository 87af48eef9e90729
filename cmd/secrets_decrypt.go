package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/credentials"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var secretsDecryptEnv string

// resolvePrivateKey locates and parses the sealed-box private key for a
// scope. The returned message, when non-empty, is a ready-to-print
// remediation hint.
func resolvePrivateKey(scope string) (*[secrets.KeySize]byte, string) {
	resolver := credentials.NewResolver()
	cred, err := resolver.ResolveWith(credentials.SecretsKey, scope, secrets.ValidatePrivateKeyHex)
	if err != nil {
		msg := color.RedString("✗") + " No private key found for " + ui.Highlight.Sprint(scope) + "\n" +
			color.CyanString("→") + " Set " + ui.EnvVar.Sprint(credentials.SecretsKey.ScopedEnvVar(scope)) +
			", " + ui.EnvVar.Sprint(credentials.SecretsKey.EnvVar()) +
			", or add a keychain entry " + ui.Muted.Sprintf("%s/%s", credentials.SecretsKey.Service(), scope)
		return nil, msg
	}
	Logger.Debugf("Private key resolved via %s", cred.Source)

	privateKey, err := secrets.ParsePrivateKeyHex(cred.Secret())
	if err != nil {
		return nil, color.RedString("✗") + " The resolved private key is malformed\n" +
			color.RedString("Error: ") + err.Error()
	}
	return privateKey, ""
}

var secretsDecryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an environment's secret document and print its entries",
	Long: `Resolves the private key (environment variables, system keychain, or an
interactive prompt), decrypts every entry, and prints NAME=value lines.
Decryption is all or nothing: one bad entry fails the whole document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets decrypt command")
		spinner, cleanup := startSpinner("Decrypting secret document...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		scope := utils.SanitizeScopeName(secretsDecryptEnv)
		Logger.Debugf("Environment scope: %s", scope)

		doc, err := secrets.LoadDocument(scope)
		if err != nil {
			Logger.Errorf("Failed to load secret document: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to load the secret document for " +
				ui.Highlight.Sprint(scope) + "\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		spinner.Stop()
		privateKey, msg := resolvePrivateKey(scope)
		spinner.Start()
		if msg != "" {
			spinner.FinalMSG = msg
			return nil
		}

		plaintexts, err := secrets.DecryptDocument(doc, privateKey)
		if err != nil {
			Logger.Errorf("Failed to decrypt document: %v", err)
			spinner.FinalMSG = color.RedString("✗") + " Failed to decrypt the " + ui.Highlight.Sprint(scope) +
				" secret document. Are you sure this key matches its public key?\n" +
				color.RedString("Error: ") + err.Error()
			return nil
		}

		names := make([]string, 0, len(plaintexts))
		for name := range plaintexts {
			names = append(names, name)
		}
		sort.Strings(names)

		spinner.FinalMSG = color.GreenString("✓") + ui.Success.Sprintf(" Decrypted %d entries for ", len(names)) +
			ui.Highlight.Sprint(scope)
		cleanup()

		for _, name := range names {
			fmt.Fprintf(os.Stdout, "%s=%s\n", name, plaintexts[name])
		}

		audit.Log(audit.Entry{
			Operation:  "secrets.decrypt",
			Scope:      scope,
			EntryCount: len(names),
		})
		return nil
	},
}

func init() {
	secretsDecryptCmd.Flags().StringVarP(&secretsDecryptEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	_ = secretsDecryptCmd.MarkFlagRequired("env")
}
