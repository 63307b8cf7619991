// Package password generates random passwords from a fixed set of charsets.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// DefaultLength is the length of passwords generated for new entries.
const DefaultLength = 20

const (
	alphabetic          = "abcdefghijklmnopqrstuvwxyz"
	capital             = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numeric             = "0123456789"
	alphaNumeric        = alphabetic + numeric
	alphaNumericCapital = alphabetic + capital + numeric
	defaultSet          = capital + alphabetic + numeric + "!@#$%^&*?"
)

// Charset selects the characters a generated password is drawn from.
type Charset int

const (
	// Default is upper and lower case letters, digits and symbols.
	Default Charset = iota
	Alphabetic
	Capital
	Numeric
	AlphaNumeric
	AlphaNumericCapital
)

// ErrInvalidLength is returned for non-positive lengths.
var ErrInvalidLength = errors.New("password length must be positive")

// ParseCharset maps the CLI shorthand ("a", "c", "n", "an", "anc") to a
// Charset. Anything else selects Default.
func ParseCharset(s string) Charset {
	switch s {
	case "a":
		return Alphabetic
	case "c":
		return Capital
	case "n":
		return Numeric
	case "an":
		return AlphaNumeric
	case "anc":
		return AlphaNumericCapital
	default:
		return Default
	}
}

// Chars returns the characters of the charset.
func (c Charset) Chars() string {
	switch c {
	case Alphabetic:
		return alphabetic
	case Capital:
		return capital
	case Numeric:
		return numeric
	case AlphaNumeric:
		return alphaNumeric
	case AlphaNumericCapital:
		return alphaNumericCapital
	default:
		return defaultSet
	}
}

func (c Charset) String() string {
	switch c {
	case Alphabetic:
		return "alphabetic"
	case Capital:
		return "capital"
	case Numeric:
		return "numeric"
	case AlphaNumeric:
		return "alphanumeric"
	case AlphaNumericCapital:
		return "alphanumeric+capital"
	default:
		return "default"
	}
}

// Generate returns a password of length characters drawn uniformly from
// the charset.
func Generate(length int, c Charset) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	chars := c.Chars()
	size := big.NewInt(int64(len(chars)))

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = chars[n.Int64()]
	}
	return string(out), nil
}
