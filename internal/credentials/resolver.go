package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/kowhai-dev/kowhai/internal/errors"
	"github.com/kowhai-dev/kowhai/internal/utils"
)

// ErrEmptyPassphrase is a format-check error for tiers holding an empty value.
var ErrEmptyPassphrase = errors.New("passphrase is empty")

// Kind identifies a protection domain with its own key material.
type Kind string

const (
	// SecretsKey is the private key used to open sealed secret values.
	SecretsKey Kind = "secrets-key"

	// ProfilesPassword is the passphrase protecting profile archives.
	ProfilesPassword Kind = "profiles-password"
)

// EnvVar returns the scope-less environment variable for this kind,
// e.g. KOWHAI_SECRETS_KEY.
func (k Kind) EnvVar() string {
	return "KOWHAI_" + strings.ToUpper(strings.ReplaceAll(string(k), "-", "_"))
}

// ScopedEnvVar returns the scope-specific environment variable for this
// kind, e.g. KOWHAI_SECRETS_KEY_DEV for scope "dev".
func (k Kind) ScopedEnvVar(scope string) string {
	return k.EnvVar() + "_" + envSuffix(scope)
}

// Service returns the secure-store service identifier for this kind.
func (k Kind) Service() string {
	return "kowhai:" + string(k)
}

func envSuffix(scope string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(scope) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Source records which resolution tier produced a credential.
type Source int

const (
	SourceScopedEnv Source = iota
	SourceGlobalEnv
	SourceStore
	SourcePrompt
)

func (s Source) String() string {
	switch s {
	case SourceScopedEnv:
		return "scoped environment variable"
	case SourceGlobalEnv:
		return "environment variable"
	case SourceStore:
		return "system keychain"
	case SourcePrompt:
		return "interactive prompt"
	default:
		return "unknown"
	}
}

// Credential is resolved key or passphrase material. It lives only for the
// duration of the operation that requested it and is never persisted or
// cached by the resolver.
type Credential struct {
	value  []byte
	Source Source
}

// Bytes returns the raw credential material.
func (c *Credential) Bytes() []byte { return c.value }

// Secret returns the credential material as a string.
func (c *Credential) Secret() string { return string(c.value) }

// String implements fmt.Stringer so a Credential can never leak through
// formatted output.
func (c *Credential) String() string { return "<redacted>" }

// Resolver locates credential material through an ordered fallback chain:
// scope-specific environment variable, scope-less environment variable,
// secure OS store, then an interactive prompt when a terminal is attached.
//
// A Resolver holds no mutable state between calls and is safe for
// concurrent use across scopes.
type Resolver struct {
	// Store is the secure OS credential store. Nil disables that tier.
	Store Store

	// Prompt reads a hidden value from the user. Defaults to
	// utils.ReadPassphrase.
	Prompt func(prompt string) ([]byte, error)

	// Interactive reports whether the prompt tier may run. Defaults to
	// utils.IsTerminal.
	Interactive func() bool

	// ConfirmSave asks whether an interactively entered value should be
	// persisted to the store. Defaults to utils.Confirm. Persisting is
	// always offered, never done silently; declining has no effect on the
	// resolved credential.
	ConfirmSave func(prompt string) bool
}

// NewResolver returns a Resolver backed by the system keychain and the
// attached terminal. When stdin is piped (e.g. a document fed to the
// command) the prompt tier falls back to the controlling TTY, so piping
// data never silently disables interactive resolution.
func NewResolver() *Resolver {
	return &Resolver{
		Store:       SystemStore{},
		Prompt:      readPassphraseAuto,
		Interactive: func() bool { return canPrompt(utils.IsTerminal(), utils.IsTTYAvailable()) },
		ConfirmSave: utils.Confirm,
	}
}

// canPrompt reports whether the prompt tier may run: stdin is a terminal,
// or the controlling TTY can take over when stdin is piped.
func canPrompt(stdinTerminal, ttyAvailable bool) bool {
	return stdinTerminal || ttyAvailable
}

// promptReader picks the hidden-input reader for the prompt tier.
func promptReader(stdinTerminal bool) func(string) ([]byte, error) {
	if stdinTerminal {
		return utils.ReadPassphrase
	}
	return utils.ReadPassphraseFromTTY
}

func readPassphraseAuto(prompt string) ([]byte, error) {
	return promptReader(utils.IsTerminal())(prompt)
}

// Resolve locates the credential for kind within scope.
func (r *Resolver) Resolve(kind Kind, scope string) (*Credential, error) {
	return r.ResolveWith(kind, scope, nil)
}

// ResolveWith is Resolve with a format check applied at every tier. A value
// failing the check is treated as not found at that tier and resolution
// falls through to the next one, so a stale environment variable cannot
// shadow a good keychain entry.
func (r *Resolver) ResolveWith(kind Kind, scope string, valid func(string) error) (*Credential, error) {
	if value, ok := os.LookupEnv(kind.ScopedEnvVar(scope)); ok {
		if valid == nil || valid(value) == nil {
			return &Credential{value: []byte(value), Source: SourceScopedEnv}, nil
		}
	}

	if value, ok := os.LookupEnv(kind.EnvVar()); ok {
		if valid == nil || valid(value) == nil {
			return &Credential{value: []byte(value), Source: SourceGlobalEnv}, nil
		}
	}

	if r.Store != nil {
		value, err := r.Store.Get(kind.Service(), scope)
		if err == nil && (valid == nil || valid(value) == nil) {
			return &Credential{value: []byte(value), Source: SourceStore}, nil
		}
	}

	if r.Interactive != nil && r.Interactive() && r.Prompt != nil {
		value, err := r.Prompt(fmt.Sprintf("Enter %s for %q: ", kind.describe(), scope))
		if err == nil && len(value) > 0 && (valid == nil || valid(string(value)) == nil) {
			cred := &Credential{value: value, Source: SourcePrompt}
			r.offerSave(kind, scope, string(value))
			return cred, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", kerrors.ErrCredentialNotFound, r.Remediation(kind, scope))
}

// offerSave asks to persist an interactively entered credential. Failures
// are ignored: the credential has already been resolved.
func (r *Resolver) offerSave(kind Kind, scope string, value string) {
	if r.Store == nil || r.ConfirmSave == nil {
		return
	}
	if !r.ConfirmSave(fmt.Sprintf("Save %s for %q to the system keychain?", kind.describe(), scope)) {
		return
	}
	_ = r.Store.Set(kind.Service(), scope, value)
}

// Remediation describes every location that was (or would be) consulted,
// for actionable error messages.
func (r *Resolver) Remediation(kind Kind, scope string) string {
	return fmt.Sprintf("checked $%s, $%s, and keychain entry %s/%s",
		kind.ScopedEnvVar(scope), kind.EnvVar(), kind.Service(), scope)
}

func (k Kind) describe() string {
	switch k {
	case SecretsKey:
		return "secrets private key"
	case ProfilesPassword:
		return "profiles passphrase"
	default:
		return string(k)
	}
}
