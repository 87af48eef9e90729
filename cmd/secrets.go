package cmd

import (
	logger "github.com/kowhai-dev/kowhai/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage encrypted environment secrets",
		Long:  `Provides key generation, encryption, decryption, validation, and obfuscated code generation for environment secret documents.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing secrets command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	SecretsCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretsCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	SecretsCmd.AddCommand(secretsInitCmd)
	SecretsCmd.AddCommand(secretsEncryptCmd)
	SecretsCmd.AddCommand(secretsDecryptCmd)
	SecretsCmd.AddCommand(secretsGenerateCmd)
	SecretsCmd.AddCommand(secretsValidateCmd)
	SecretsCmd.AddCommand(secretsInfoCmd)
}

// GetSecretsCmd returns the SecretsCmd for testing.
func GetSecretsCmd() *cobra.Command {
	return SecretsCmd
}
