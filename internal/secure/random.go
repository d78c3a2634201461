// Package secure holds the random and hashing helpers used for tokens and codes.
package secure

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// RandomHex returns 2*byteLength hex characters.
func RandomHex(byteLength int) (string, error) {
	b, err := RandomBytes(byteLength)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomInt returns a uniform value in [min, max].
func RandomInt(min, max int) (int, error) {
	if max < min {
		return 0, fmt.Errorf("invalid range [%d, %d]", min, max)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random int: %w", err)
	}
	return min + int(n.Int64()), nil
}

// RandomString picks length characters from alphabet.
func RandomString(alphabet string, length int) (string, error) {
	out := make([]byte, length)
	for i := range out {
		idx, err := RandomInt(0, len(alphabet)-1)
		if err != nil {
			return "", err
		}
		out[i] = alphabet[idx]
	}
	return string(out), nil
}

// SHA256Hex hashes input and hex-encodes the digest.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
