// Package slug generates the short tokens used in rotating media links.
//
// Tokens are meant to be read and typed by people, not to resist guessing:
// they are drawn from Latin letters only, lean towards uppercase, and always
// mix cases so they never read as a plain word. Collisions are the caller's
// problem.
package slug

import (
	"github.com/mcoot/linkplay/internal/dependencies/random"
)

const (
	// DefaultLength is the token length used for short links
	DefaultLength = 5
	// MinLength and MaxLength bound the short-link path segment
	MinLength = 3
	MaxLength = 5

	upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower = "abcdefghijklmnopqrstuvwxyz"
)

// fillAlphabet weights uppercase two to one over lowercase
const fillAlphabet = upper + upper + lower

// Codec generates tokens from an injectable random source
type Codec struct {
	random random.Random
}

// New creates a Codec
func New(rnd random.Random) *Codec {
	return &Codec{random: rnd}
}

// Generate returns a token of the given length (clamped to MinLength..MaxLength;
// zero means DefaultLength). The result always contains a lowercase letter and,
// when it has room for two classes, an uppercase letter.
func (c *Codec) Generate(length int) string {
	switch {
	case length == 0:
		length = DefaultLength
	case length < MinLength:
		length = MinLength
	case length > MaxLength:
		length = MaxLength
	}

	token := make([]byte, length)

	// Reserve one slot per required class, then fill the rest
	token[0] = lower[c.random.Intn(len(lower))]
	start := 1
	if length >= 2 {
		token[1] = upper[c.random.Intn(len(upper))]
		start = 2
	}
	for i := start; i < length; i++ {
		token[i] = fillAlphabet[c.random.Intn(len(fillAlphabet))]
	}

	random.Shuffle(c.random, token)
	return string(token)
}

// IsToken reports whether s has the shape of a short-link token
func IsToken(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		isAlnum := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
		if !isAlnum {
			return false
		}
	}
	return true
}
