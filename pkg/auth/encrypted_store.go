package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

// EncryptedFileStore keeps accounts in a single AES-GCM encrypted file.
// The key is derived from a passphrase with PBKDF2; the passphrase
// comes from TRENDSCOUT_PASSPHRASE, a sibling .passphrase file, or is
// generated and written there on first use.
type EncryptedFileStore struct {
	filePath   string
	passphrase []byte
}

type encryptedFile struct {
	Salt string `json:"salt"`
	Data string `json:"data"`
}

// NewEncryptedFileStore creates an encrypted file-based credential store
func NewEncryptedFileStore(filePath string) (*EncryptedFileStore, error) {
	passphrase, err := resolvePassphrase(filepath.Dir(filePath))
	if err != nil {
		return nil, err
	}
	return &EncryptedFileStore{filePath: filePath, passphrase: passphrase}, nil
}

// Store saves an account, re-encrypting the whole file
func (s *EncryptedFileStore) Store(account *Account) error {
	if account == nil || account.Username == "" {
		return ErrInvalidCredentials
	}

	accounts, err := s.load()
	if err != nil {
		return err
	}
	accounts[account.Username] = account

	return s.save(accounts)
}

// Retrieve gets an account from the encrypted file
func (s *EncryptedFileStore) Retrieve(username string) (*Account, error) {
	if username == "" {
		return nil, ErrInvalidCredentials
	}

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	account, ok := accounts[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return account, nil
}

// List returns all accounts from the encrypted file
func (s *EncryptedFileStore) List() ([]*Account, error) {
	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	var result []*Account
	for _, account := range accounts {
		result = append(result, account)
	}
	return result, nil
}

// Delete removes an account from the encrypted file
func (s *EncryptedFileStore) Delete(username string) error {
	if username == "" {
		return ErrInvalidCredentials
	}

	accounts, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := accounts[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(accounts, username)

	return s.save(accounts)
}

// load decrypts the store file; a missing file is an empty store
func (s *EncryptedFileStore) load() (map[string]*Account, error) {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*Account), nil
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var file encryptedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(file.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data: %w", err)
	}

	plaintext, err := decrypt(ciphertext, s.passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	accounts := make(map[string]*Account)
	if err := json.Unmarshal(plaintext, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return accounts, nil
}

// save encrypts and writes the store atomically
func (s *EncryptedFileStore) save(accounts map[string]*Account) error {
	plaintext, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to marshal accounts: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	ciphertext, err := encrypt(plaintext, s.passphrase, salt)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	raw, err := json.Marshal(encryptedFile{
		Salt: base64.StdEncoding.EncodeToString(salt),
		Data: base64.StdEncoding.EncodeToString(ciphertext),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, raw, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

func deriveKey(passphrase, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, iterations, keySize, sha256.New)
}

func encrypt(plaintext, passphrase, salt []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext, passphrase, salt []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, data := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, data, nil)
}

// resolvePassphrase finds or creates the store passphrase
func resolvePassphrase(dir string) ([]byte, error) {
	if p := os.Getenv("TRENDSCOUT_PASSPHRASE"); p != "" {
		return []byte(p), nil
	}

	passphraseFile := filepath.Join(dir, ".passphrase")
	if data, err := os.ReadFile(passphraseFile); err == nil && len(data) > 0 {
		return data, nil
	}

	generated := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, generated); err != nil {
		return nil, fmt.Errorf("failed to generate passphrase: %w", err)
	}
	encoded := []byte(base64.StdEncoding.EncodeToString(generated))

	if err := os.WriteFile(passphraseFile, encoded, 0600); err != nil {
		return nil, fmt.Errorf("failed to save passphrase: %w", err)
	}
	return encoded, nil
}
