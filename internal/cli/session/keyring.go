package session

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "homeserv-cli"

// KeyringBackend persists records in the OS keychain/credential manager
type KeyringBackend struct {
	service string
}

// NewKeyringBackend creates a keyring backend under the homeserv service name
func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{service: keyringService}
}

func (k *KeyringBackend) Get(key string) ([]byte, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}
	return []byte(value), nil
}

func (k *KeyringBackend) Set(key string, value []byte) error {
	if err := keyring.Set(k.service, key, string(value)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *KeyringBackend) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
