package starship

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	publicIDLength      = 10
	maxPublicIDAttempts = 10

	publicIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	publicIDChars   = publicIDLetters + "0123456789"
)

var publicIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{9}$`)

// NewPublicID returns a random alphanumeric token. The first character is a letter so a
// public id never parses as a numeric surrogate id.
func NewPublicID() (string, error) {
	buf := make([]byte, publicIDLength)
	for i := range buf {
		alphabet := publicIDChars
		if i == 0 {
			alphabet = publicIDLetters
		}

		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

func IsPublicID(s string) bool {
	return publicIDPattern.MatchString(s)
}
