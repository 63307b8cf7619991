// Package storage persists an entry collection as a single file encrypted
// under a key derived from the master password.
//
// A store file is salt (16 bytes) | nonce (12 bytes) | AES-256-GCM
// ciphertext. Every Save rewrites the whole file with a new salt and nonce.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/atinyakov/passc/internal/crypto"
	"github.com/atinyakov/passc/internal/models"
)

// Storage loads and saves store files.
type Storage struct {
	log    *zap.Logger
	params crypto.Params
}

// Option configures a Storage.
type Option func(*Storage)

// WithParams sets the Argon2id cost. A store can only be opened with the
// params it was saved with.
func WithParams(p crypto.Params) Option {
	return func(s *Storage) {
		s.params = p
	}
}

// New returns a Storage that logs to log. A nil log disables logging.
func New(log *zap.Logger, opts ...Option) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Storage{log: log, params: crypto.DefaultParams}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultStorage = New(nil)

// Load reads the store at path with the default Storage.
func Load(path, masterPassword string) (*models.Collection, error) {
	return defaultStorage.Load(path, masterPassword)
}

// Save writes the store at path with the default Storage.
func Save(path, masterPassword string, c *models.Collection) error {
	return defaultStorage.Save(path, masterPassword, c)
}

// Load decrypts the store at path and returns its entries sorted by name.
//
// Errors: ErrStoreNotFound when the file is missing, ErrTruncatedFile,
// ErrAuthenticationFailure for a wrong password or modified file,
// ErrMalformedStore, ErrIO.
func (s *Storage) Load(path, masterPassword string) (*models.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	salt, nonce, ciphertext, err := Unframe(data)
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(masterPassword, salt, s.params)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	plaintext, err := crypto.Decrypt(key, ciphertext, nonce)
	crypto.Wipe(key)
	if err != nil {
		s.log.Debug("store authentication failed", zap.String("path", path))
		return nil, err
	}
	defer crypto.Wipe(plaintext)

	c, err := Decode(plaintext)
	if err != nil {
		return nil, err
	}
	c.SortByName()

	s.log.Debug("store loaded", zap.String("path", path), zap.Int("entries", c.Len()))
	return c, nil
}

// Save encrypts the whole collection under a key derived from a new salt,
// with a new nonce, and atomically replaces the file at path.
func (s *Storage) Save(path, masterPassword string, c *models.Collection) error {
	plaintext, err := Encode(c)
	if err != nil {
		return err
	}
	defer crypto.Wipe(plaintext)

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	key, err := crypto.DeriveKey(masterPassword, salt, s.params)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}
	ciphertext, nonce, err := crypto.Encrypt(key, plaintext)
	crypto.Wipe(key)
	if err != nil {
		return fmt.Errorf("encrypt store: %w", err)
	}

	data, err := Frame(salt, nonce, ciphertext)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data, 0o600); err != nil {
		return err
	}

	s.log.Debug("store saved",
		zap.String("path", path),
		zap.Int("entries", c.Len()),
		zap.Int("size", len(data)),
	)
	return nil
}
