// Package quizid generates quiz and question identifiers. IDs are a caller
// prefix plus a short random suffix: quiz IDs are prefixed by the creator's
// username, question IDs by the owning quiz ID.
//
// Randomness and the uniqueness check are injected so generation stays pure:
// the caller supplies the byte source (crypto/rand in production, a fixed
// reader in tests) and a callback that answers whether a candidate is taken.
package quizid

import (
	"fmt"
	"io"
)

const (
	// SuffixLen is the length of the random suffix appended to the prefix.
	SuffixLen = 7

	// maxAttempts bounds the retry loop when candidates collide.
	maxAttempts = 5

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrExhausted is returned when every generated candidate collided with an
// existing ID within the retry budget.
var ErrExhausted = fmt.Errorf("could not generate a unique ID in %d attempts", maxAttempts)

// ExistsFunc reports whether a candidate ID is already taken. Returning an
// error aborts generation.
type ExistsFunc func(id string) (bool, error)

// New generates "<prefix>-<suffix>" with a random suffix, retrying a bounded
// number of times until exists reports the candidate as free.
func New(random io.Reader, prefix string, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		suffix, err := randomSuffix(random)
		if err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		candidate := prefix + "-" + suffix

		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check ID uniqueness: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

func randomSuffix(random io.Reader) (string, error) {
	buf := make([]byte, SuffixLen)
	if _, err := io.ReadFull(random, buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
