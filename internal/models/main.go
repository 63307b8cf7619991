// Package models defines the credential entries held in a store and the
// collection that enforces their uniqueness.
package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/atinyakov/passc/internal/password"
)

// ErrInvalidEntry is returned for entries that fail validation.
var ErrInvalidEntry = errors.New("invalid entry")

var validate = validator.New()

// Entry is one named secret.
type Entry struct {
	// Name identifies the entry; unique within a collection, case-sensitive.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Password is the stored secret.
	Password string `json:"password" yaml:"password"`
	// Info holds optional metadata such as a user name or URL.
	Info string `json:"info" yaml:"info"`
}

// NewEntry builds an entry. An empty password is replaced by a generated
// one of password.DefaultLength characters.
func NewEntry(name, pass, info string) (Entry, error) {
	if pass == "" {
		generated, err := password.Generate(password.DefaultLength, password.Default)
		if err != nil {
			return Entry{}, fmt.Errorf("generate password: %w", err)
		}
		pass = generated
	}
	e := Entry{Name: name, Password: pass, Info: info}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the entry's required fields.
func (e Entry) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return nil
}

// SetPassword replaces the stored password.
func (e *Entry) SetPassword(p string) {
	e.Password = p
}

// SetInfo replaces the entry metadata.
func (e *Entry) SetInfo(info string) {
	e.Info = info
}
