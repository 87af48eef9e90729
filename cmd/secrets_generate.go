package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/audit"
	"github.com/kowhai-dev/kowhai/internal/codegen"
	"github.com/kowhai-dev/kowhai/internal/configs"
	"github.com/kowhai-dev/kowhai/internal/secrets"
	"github.com/kowhai-dev/kowhai/internal/ui"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

var secretsGenerateEnv string

var secretsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate obfuscated source code from an environment's secrets",
	Long: `Decrypts the environment's secret document and emits obfuscated Dart
source for every entry matching the configured prefixes. Values are XOR
masked with fresh random keys; the plaintext never appears in the output.

Output targets come from the [codegen] section of .kowhai/config.toml.
With no targets configured, the generated source is printed to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting secrets generate command")
		spinner, cleanup := startSpinner("Generating obfuscated sources...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectKowhaiSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Kowhai has not been initialized\n" +
				color.CyanString("→") + " Run " + ui.Code.Sprint("kowhai init") + " first"
			return nil
		}

		projectConfig, err := configs.LoadProjectConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load project config: %v", err)
		}

		scope := utils.SanitizeScopeName(secretsGenerateEnv)
		Logger.Debugf("Environment scope: %s, prefixes: %v", scope, projectConfig.Codegen.Prefixes)

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
				" secret document\n" + color.RedString("Error: ") + err.Error()
			return nil
		}

		if len(projectConfig.Codegen.Targets) == 0 {
			text, err := codegen.Generate(plaintexts, projectConfig.Codegen.Prefixes, scope)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to generate source: %v", err)
			}
			spinner.FinalMSG = color.GreenString("✓") + " Generated source for " + ui.Highlight.Sprint(scope) + " " +
				ui.Muted.Sprint("no [codegen] targets configured, printing to stdout")
			cleanup()
			fmt.Fprint(os.Stdout, text)
			return nil
		}

		targets := make([]codegen.Target, 0, len(projectConfig.Codegen.Targets))
		for _, t := range projectConfig.Codegen.Targets {
			targets = append(targets, codegen.Target{Path: t.Path, Class: t.Class})
		}

		units, err := codegen.GenerateUnits(plaintexts, projectConfig.Codegen.Prefixes, scope, targets)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to generate sources: %v", err)
		}

		var written []string
		for _, unit := range units {
			outPath := filepath.Join(configs.ProjectKowhaiSettings.ProjectPath, unit.Path)
			if err := os.MkdirAll(filepath.Dir(outPath), 0700); err != nil {
				return Logger.ErrorfAndReturn("failed to create output directory: %v", err)
			}
			if err := os.WriteFile(outPath, []byte(unit.Text), 0600); err != nil {
				return Logger.ErrorfAndReturn("failed to write %s: %v", outPath, err)
			}
			written = append(written, outPath)
			Logger.Infof("Wrote %s", outPath)
		}

		spinner.FinalMSG = color.GreenString("✓") + ui.Success.Sprintf(" Generated %d source files for ", len(written)) +
			ui.Highlight.Sprint(scope) + utils.FormatPaths(written)

		audit.Log(audit.Entry{
			Operation: "secrets.generate",
			Scope:     scope,
			Files:     written,
		})
		return nil
	},
}

func init() {
	secretsGenerateCmd.Flags().StringVarP(&secretsGenerateEnv, "env", "e", "", "environment scope (e.g. dev, production)")
	_ = secretsGenerateCmd.MarkFlagRequired("env")
}
