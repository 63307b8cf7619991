// Package crypto derives store keys from a master password and seals the
// serialized store with AES-256-GCM.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of a derived key in bytes.
	KeySize = 32
	// SaltSize is the length of the per-save KDF salt in bytes.
	SaltSize = 16
)

// ErrInvalidParams is returned when the KDF cannot run with the given
// salt or cost parameters.
var ErrInvalidParams = errors.New("invalid key derivation parameters")

// Params holds the Argon2id cost parameters.
type Params struct {
	// Time is the number of passes over memory.
	Time uint32
	// Memory is the memory cost in KiB.
	Memory uint32
	// Threads is the degree of parallelism.
	Threads uint8
}

// DefaultParams matches the argon2 crate defaults used by stores written
// by earlier passc releases (m=19456 KiB, t=2, p=1).
var DefaultParams = Params{Time: 2, Memory: 19 * 1024, Threads: 1}

// DeriveKey turns a master password and a 16-byte salt into a 32-byte key
// with Argon2id. The same password and salt always give the same key.
func DeriveKey(masterPassword string, salt []byte, p Params) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, want %d", ErrInvalidParams, len(salt), SaltSize)
	}
	if p.Time == 0 || p.Threads == 0 || p.Memory < 8*uint32(p.Threads) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidParams, p)
	}

	pw := []byte(masterPassword)
	defer memguard.WipeBytes(pw)

	return argon2.IDKey(pw, salt, p.Time, p.Memory, p.Threads, KeySize), nil
}

// GenerateSalt returns a fresh random salt.
func GenerateSalt() ([]byte, error) {
	return randomBytes(SaltSize)
}

// Wipe zeroes key material in place.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}

func randomBytes(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return out, nil
}
