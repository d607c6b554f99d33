package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	ShortCodeLength = 6
	Alphabet        = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var alphabetLen = big.NewInt(int64(len(Alphabet)))

// GenerateShortCode draws ShortCodeLength independent, uniformly distributed
// characters from Alphabet using crypto/rand.
func GenerateShortCode() (string, error) {
	code := make([]byte, ShortCodeLength)

	for i := range code {
		randomIndex, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = Alphabet[randomIndex.Int64()]
	}

	return string(code), nil
}

// IsShortCode reports whether s has the shape of a generated code.
func IsShortCode(s string) bool {
	if len(s) != ShortCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
