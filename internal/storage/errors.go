package storage

import (
	"errors"
	"fmt"

	"github.com/atinyakov/passc/internal/crypto"
)

var (
	// ErrStoreNotFound is returned by Load when the store file does not
	// exist yet. Callers treat it as a first run and start empty.
	ErrStoreNotFound = errors.New("store not found")
	// ErrTruncatedFile is returned when the file is too short to hold the
	// salt, nonce and a non-empty ciphertext.
	ErrTruncatedFile = errors.New("store file is truncated")
	// ErrMalformedStore is returned when authenticated plaintext does not
	// match the expected schema.
	ErrMalformedStore = errors.New("malformed store data")
	// ErrAuthenticationFailure means the master password is wrong or the
	// file was modified; the two cannot be told apart.
	ErrAuthenticationFailure = crypto.ErrAuthentication
	// ErrMalformedImport is returned by ReadImport when the file is not a
	// valid export.
	ErrMalformedImport = errors.New("malformed import file")
	// ErrIO wraps filesystem failures.
	ErrIO = errors.New("store i/o failure")
)

// ImportError reports an import file that could not be used.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
