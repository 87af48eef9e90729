package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kowhai-dev/kowhai/internal/credentials"
	logger "github.com/kowhai-dev/kowhai/internal/logging"
	"github.com/kowhai-dev/kowhai/internal/ui"
)

var ProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage encrypted signing profile archives",
	Long:  `Encrypts, decrypts, and lists whole-directory archives of signing profiles protected by a passphrase.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Initializing profiles command with verbose=%t, debug=%t", verbose, debug)
	},
}

func init() {
	ProfilesCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ProfilesCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	ProfilesCmd.AddCommand(profilesEncryptCmd)
	ProfilesCmd.AddCommand(profilesDecryptCmd)
	ProfilesCmd.AddCommand(profilesListCmd)
}

// resolvePassphrase locates the archive passphrase for a scope. The
// returned message, when non-empty, is a ready-to-print remediation hint.
func resolvePassphrase(scope string) ([]byte, string) {
	resolver := credentials.NewResolver()
	kind := credentials.ProfilesPassword
	cred, err := resolver.ResolveWith(kind, scope, func(s string) error {
		if s == "" {
			return credentials.ErrEmptyPassphrase
		}
		return nil
	})
	if err != nil {
		msg := color.RedString("✗") + " No passphrase found for " + ui.Highlight.Sprint(scope) + "\n" +
			color.CyanString("→") + " Set " + ui.EnvVar.Sprint(kind.ScopedEnvVar(scope)) +
			", " + ui.EnvVar.Sprint(kind.EnvVar()) +
			", or add a keychain entry " + ui.Muted.Sprintf("%s/%s", kind.Service(), scope)
		return nil, msg
	}
	Logger.Debugf("Passphrase resolved via %s", cred.Source)
	return cred.Bytes(), ""
}
