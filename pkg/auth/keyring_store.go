package auth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const keyringService = "trendscout"

// KeyringStore uses the system keyring for secure credential storage
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-based credential store, probing the
// backend once so an unavailable keyring fails fast
func NewKeyringStore() (*KeyringStore, error) {
	store := &KeyringStore{service: keyringService}

	testKey := "trendscout-availability-probe"
	if err := keyring.Set(store.service, testKey, "ok"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	_ = keyring.Delete(store.service, testKey)

	return store, nil
}

// Store saves an account to the system keyring
func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}

	if err := keyring.Set(k.service, k.key(account.Username), string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}

	return k.addToIndex(account.Username)
}

// Retrieve gets an account from the system keyring
func (k *KeyringStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(k.service, k.key(username))
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

// List returns all accounts recorded in the keyring index
func (k *KeyringStore) List() ([]*Account, error) {
	usernames, err := k.index()
	if err != nil {
		return nil, err
	}

	var accounts []*Account
	for _, username := range usernames {
		if account, err := k.Retrieve(username); err == nil {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Delete removes an account from the system keyring
func (k *KeyringStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}

	if err := keyring.Delete(k.service, k.key(username)); err != nil {
		if err == keyring.ErrNotFound {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}

	return k.removeFromIndex(username)
}

func (k *KeyringStore) key(username string) string {
	return "account:" + username
}

// The keyring API has no enumeration, so usernames are tracked in a
// separate comma-separated index entry.
const indexKey = "account-index"

func (k *KeyringStore) index() ([]string, error) {
	data, err := keyring.Get(k.service, indexKey)
	if err != nil {
		if err == keyring.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read account index: %w", err)
	}
	if data == "" {
		return nil, nil
	}
	return strings.Split(data, ","), nil
}

func (k *KeyringStore) addToIndex(username string) error {
	usernames, err := k.index()
	if err != nil {
		return err
	}
	for _, u := range usernames {
		if u == username {
			return nil
		}
	}
	usernames = append(usernames, username)
	return keyring.Set(k.service, indexKey, strings.Join(usernames, ","))
}

func (k *KeyringStore) removeFromIndex(username string) error {
	usernames, err := k.index()
	if err != nil {
		return err
	}
	var kept []string
	for _, u := range usernames {
		if u != username {
			kept = append(kept, u)
		}
	}
	return keyring.Set(k.service, indexKey, strings.Join(kept, ","))
}
