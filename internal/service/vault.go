// Package service provides the vault session used by the CLI: it opens a
// store, applies edits in memory and commits the whole store back,
// delegating persistence to a Store.
package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/atinyakov/passc/internal/models"
	"github.com/atinyakov/passc/internal/storage"
)

// MinMasterPasswordLength is the minimum number of characters accepted
// for a master password.
const MinMasterPasswordLength = 6

// ErrWeakMasterPassword is returned for master passwords shorter than
// MinMasterPasswordLength.
var ErrWeakMasterPassword = errors.New("master password must have at least 6 characters")

// Store defines the persistence operations needed by a Vault.
type Store interface {
	// Load decrypts the store at path. It returns an error wrapping
	// storage.ErrStoreNotFound when no store exists yet.
	Load(path, masterPassword string) (*models.Collection, error)
	// Save encrypts and writes the whole collection to path.
	Save(path, masterPassword string, c *models.Collection) error
}

// Vault is an unlocked store. It is owned by the caller and is not safe
// for concurrent use.
type Vault struct {
	store          Store
	path           string
	masterPassword string
	entries        *models.Collection
	created        bool
	log            *zap.Logger
}

// ValidateMasterPassword checks the master password length.
func ValidateMasterPassword(masterPassword string) error {
	if utf8.RuneCountInString(masterPassword) < MinMasterPasswordLength {
		return ErrWeakMasterPassword
	}
	return nil
}

// Open unlocks the store at path. A missing store yields an empty vault
// for which Created reports true; nothing is written until Commit.
func Open(store Store, path, masterPassword string, log *zap.Logger) (*Vault, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := ValidateMasterPassword(masterPassword); err != nil {
		return nil, err
	}

	v := &Vault{store: store, path: path, masterPassword: masterPassword, log: log}

	entries, err := store.Load(path, masterPassword)
	switch {
	case errors.Is(err, storage.ErrStoreNotFound):
		log.Info("no store found, starting empty", zap.String("path", path))
		entries = &models.Collection{}
		v.created = true
	case err != nil:
		return nil, err
	}
	v.entries = entries
	return v, nil
}

// Created reports whether the vault had no store file when opened.
func (v *Vault) Created() bool {
	return v.created
}

// Len returns the number of entries.
func (v *Vault) Len() int {
	return v.entries.Len()
}

// Add creates an entry. An empty password is generated.
func (v *Vault) Add(name, password, info string) (models.Entry, error) {
	e, err := models.NewEntry(name, password, info)
	if err != nil {
		return models.Entry{}, err
	}
	if err := v.entries.Insert(e); err != nil {
		return models.Entry{}, err
	}
	return e, nil
}

// Edit updates the password and/or info of an entry; nil leaves a field
// unchanged.
func (v *Vault) Edit(name string, password, info *string) (models.Entry, error) {
	e := v.entries.Find(name)
	if e == nil {
		return models.Entry{}, &models.NameError{Err: models.ErrNotFound, Name: name}
	}
	if password != nil {
		e.SetPassword(*password)
	}
	if info != nil {
		e.SetInfo(*info)
	}
	return *e, nil
}

// Get returns the entry with exactly this name.
func (v *Vault) Get(name string) (models.Entry, error) {
	e := v.entries.Find(name)
	if e == nil {
		return models.Entry{}, &models.NameError{Err: models.ErrNotFound, Name: name}
	}
	return *e, nil
}

// Remove deletes an entry and returns it.
func (v *Vault) Remove(name string) (models.Entry, error) {
	return v.entries.Remove(name)
}

// List returns all entries, or those whose name contains filter when it
// is not empty (case-insensitive).
func (v *Vault) List(filter string) []models.Entry {
	if filter == "" {
		return v.entries.Entries()
	}
	return v.entries.Search(filter)
}

// Import merges the entries of an export file. Nothing is merged if the
// file repeats a name or collides with an existing entry.
func (v *Vault) Import(path string) (int, error) {
	incoming, err := storage.ReadImport(path)
	if err != nil {
		return 0, err
	}
	if err := v.entries.Merge(incoming); err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	v.log.Info("entries imported", zap.String("from", path), zap.Int("count", len(incoming)))
	return len(incoming), nil
}

// Export writes all entries unencrypted to path.
func (v *Vault) Export(path string) error {
	if err := storage.Export(path, v.entries.Entries()); err != nil {
		return err
	}
	v.log.Info("entries exported", zap.String("to", path), zap.Int("count", v.entries.Len()))
	return nil
}

// Commit re-encrypts and writes the whole store.
func (v *Vault) Commit() error {
	if err := v.store.Save(v.path, v.masterPassword, v.entries); err != nil {
		return err
	}
	v.created = false
	return nil
}

// Close drops the vault's references to the master password and entries.
func (v *Vault) Close() {
	v.masterPassword = ""
	v.entries = &models.Collection{}
}
