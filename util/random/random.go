// Package random provides utilities for generating random strings.
package random

import (
	"crypto/rand"
	"math/big"
)

const (
	alphanumeric = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	symbols      = "!@#$%&*-_+="
)

// Password generates a random password of length n using letters, digits and symbols.
func Password(n int) string {
	return fromAlphabet(alphanumeric+symbols, n)
}

func fromAlphabet(alphabet string, n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		out[i] = alphabet[idx.Int64()]
	}
	return string(out)
}
