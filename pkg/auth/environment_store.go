package auth

import (
	"os"
	"time"
)

// EnvironmentStore reads credentials from environment variables. It is
// read-only and always last in the store chain, serving CI and
// container deployments where no keychain exists.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-variable credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve builds an account from TRENDSCOUT_* environment variables.
// The username argument is ignored; the environment holds at most one
// account.
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionID := os.Getenv("TRENDSCOUT_SESSION_ID")
	csrfToken := os.Getenv("TRENDSCOUT_CSRF_TOKEN")
	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	name := os.Getenv("TRENDSCOUT_USERNAME")
	if name == "" {
		name = "environment"
	}

	return &Account{
		Username:     name,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    os.Getenv("TRENDSCOUT_USER_AGENT"),
		LastModified: time.Now(),
	}, nil
}

// List returns the environment account if one is configured
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return nil, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}
