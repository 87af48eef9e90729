package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "kowhai",
	Short: "Kowhai - A build-automation CLI for mobile application projects.",
	Long: `Kowhai automates the credential handling around mobile app builds:
per-environment secret documents, passphrase-protected signing profile
archives, and obfuscated source generation for secrets compiled into the
app binary.

Usage:
  kowhai <command> [flags]

Available Commands:
  init       Initialize Kowhai in the current project
  secrets    Manage encrypted environment secrets
  profiles   Manage encrypted signing profile archives

Run 'kowhai help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Kowhai! Run 'kowhai --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.InitCmd)
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.ProfilesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
