package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var secretsValidateEnv string

var secretsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check secret documents for structural problems and plaintext entries",
	Long: `Runs static checks over secret documents without any key material:
public key presence and format, document well-formedness, and plaintext
entries awaiting encryption. Warnings are reported but only structural
errors fail validation. With no --env, every environment is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets validate command")
		spinner, cleanup := startSpinner("Validating secret documents...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		var scopes []string
		if secretsValidateEnv != "" {
			scopes = []string{utils.SanitizeScopeName(secretsValidateEnv)}
		} else {
			var err error
			scopes, err = secrets.ListScopes()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to list environments: %v", err)
			}
		}
		if len(scopes) == 0 {
			spinner.FinalMSG = color.RedString("✗") + " No secret documents found\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai secrets init --env <name>") + " to create one"
			return nil
		}
		Logger.Debugf("Validating %d environments: %v", len(scopes), scopes)

		var report strings.Builder
		failed := 0
		for _, scope := range scopes {
			data, err := os.ReadFile(secrets.DocumentPath(scope))
			if err != nil {
				failed++
				fmt.Fprintf(&report, "%s %s: cannot read document: %v\n", color.RedString("✗"), ui.Highlight.Sprint(scope), err)
				continue
			}

			result := secrets.ValidateBytes(data)
			if result.IsValid {
				fmt.Fprintf(&report, "%s %s: %d secrets %s\n",
					color.GreenString("✓"), ui.Highlight.Sprint(scope), result.SecretCount,
					ui.Muted.Sprintf("%d encrypted, %d plaintext", result.EncryptedCount, result.PlaintextCount))
			} else {
				failed++
				fmt.Fprintf(&report, "%s %s: %d secrets, %d errors\n",
					color.RedString("✗"), ui.Highlight.Sprint(scope), result.SecretCount, len(result.Errors()))
			}

			for _, issue := range result.Issues {
				marker := ui.Warning.Sprint("!")
				if issue.Severity == secrets.SeverityError {
					marker = color.RedString("✗")
				}
				if issue.Key != "" {
					fmt.Fprintf(&report, "    %s %s: %s\n", marker, issue.Key, issue.Message)
				} else {
					fmt.Fprintf(&report, "    %s %s\n", marker, issue.Message)
				}
			}
		}

		if failed > 0 {
			spinner.FinalMSG = strings.TrimSuffix(report.String(), "\n")
			cleanup()
			return fmt.Errorf("%d of %d environments failed validation", failed, len(scopes))
		}

		spinner.FinalMSG = strings.TrimSuffix(report.String(), "\n")
		return nil
	},
}

func init() {
	secretsValidateCmd.Flags().StringVarP(&secretsValidateEnv, "env", "e", "", "environment scope to validate (default: all)")
}
