package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/passc/internal/crypto"
	"github.com/atinyakov/passc/internal/models"
)

// HeaderSize is the number of bytes before the ciphertext: salt then nonce.
const HeaderSize = crypto.SaltSize + crypto.NonceSize

// storeFile is the plaintext sealed inside a store file.
type storeFile struct {
	Entries []models.Entry `json:"entries"`
}

// wireEntry mirrors models.Entry with pointer fields so that missing keys
// can be told apart from empty strings.
type wireEntry struct {
	Name     *string `json:"name" yaml:"name"`
	Password *string `json:"password" yaml:"password"`
	Info     *string `json:"info" yaml:"info"`
}

type wireStore struct {
	Entries *[]wireEntry `json:"entries"`
}

// Encode serializes the collection in its current order.
func Encode(c *models.Collection) ([]byte, error) {
	sf := storeFile{Entries: c.Entries()}
	if sf.Entries == nil {
		sf.Entries = []models.Entry{}
	}
	b, err := json.Marshal(sf)
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return b, nil
}

// Decode parses plaintext produced by Encode. The collection comes back
// sorted by name; repeated names are ErrMalformedStore.
func Decode(b []byte) (*models.Collection, error) {
	var ws wireStore
	if err := json.Unmarshal(b, &ws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
	}
	if ws.Entries == nil {
		return nil, fmt.Errorf("%w: missing entries", ErrMalformedStore)
	}

	entries := make([]models.Entry, 0, len(*ws.Entries))
	for i, we := range *ws.Entries {
		if we.Name == nil || we.Password == nil || we.Info == nil {
			return nil, fmt.Errorf("%w: entry %d is missing a field", ErrMalformedStore, i)
		}
		entries = append(entries, models.Entry{Name: *we.Name, Password: *we.Password, Info: *we.Info})
	}

	c := &models.Collection{}
	if err := c.Merge(entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStore, err)
	}
	return c, nil
}

// Frame lays out salt, nonce and ciphertext as a store file.
func Frame(salt, nonce, ciphertext []byte) ([]byte, error) {
	if len(salt) != crypto.SaltSize || len(nonce) != crypto.NonceSize {
		return nil, fmt.Errorf("frame: salt %d bytes, nonce %d bytes", len(salt), len(nonce))
	}
	if len(ciphertext) == 0 {
		return nil, errors.New("frame: empty ciphertext")
	}

	out := make([]byte, 0, HeaderSize+len(ciphertext))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Unframe splits a store file into salt, nonce and ciphertext. The
// returned slices alias b.
func Unframe(b []byte) (salt, nonce, ciphertext []byte, err error) {
	if len(b) < HeaderSize {
		return nil, nil, nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncatedFile, len(b), HeaderSize)
	}
	if len(b) == HeaderSize {
		return nil, nil, nil, fmt.Errorf("%w: no ciphertext", ErrTruncatedFile)
	}
	return b[:crypto.SaltSize], b[crypto.SaltSize:HeaderSize], b[HeaderSize:], nil
}
