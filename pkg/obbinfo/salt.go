package obbinfo

import (
	"encoding/hex"
	"fmt"
)

// SaltSize is the fixed byte length of a footer salt.
const SaltSize = 8

// Salt is the 8-byte salt used when the payload is encrypted. The zero
// value means no salt.
type Salt [SaltSize]byte

// ParseSalt decodes exactly 16 hex characters into a Salt.
func ParseSalt(s string) (Salt, error) {
	var salt Salt
	if len(s) != SaltSize*2 {
		return salt, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidSalt, SaltSize*2, len(s))
	}
	if _, err := hex.Decode(salt[:], []byte(s)); err != nil {
		return Salt{}, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	return salt, nil
}

// IsZero reports whether every salt byte is zero.
func (s Salt) IsZero() bool {
	return s == Salt{}
}

func (s Salt) String() string {
	return hex.EncodeToString(s[:])
}
