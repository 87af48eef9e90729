package credentials

import "github.com/zalando/go-keyring"

// Store is the narrow seam over the OS credential store. Entries are keyed
// by a service identifier (derived from the protection domain) and an
// account (the environment scope).
type Store interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// SystemStore is the platform keychain: Secret Service on Linux, Keychain
// on macOS, Credential Manager on Windows.
type SystemStore struct{}

func (SystemStore) Get(service, account string) (string, error) {
	return keyring.Get(service, account)
}

func (SystemStore) Set(service, account, value string) error {
	return keyring.Set(service, account, value)
}

func (SystemStore) Delete(service, account string) error {
	return keyring.Delete(service, account)
}
