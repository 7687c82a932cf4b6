package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const publicIDPrefix = "idea"

// NewPublicID generates the shareable project id, e.g. "idea-48213-0957".
// The two digit groups come from crypto/rand; collisions are handled by
// the unique constraint on the column and a retry at the call site.
func NewPublicID() (string, error) {
	a, err := digits(100000)
	if err != nil {
		return "", err
	}
	b, err := digits(10000)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", publicIDPrefix, a, b), nil
}

func digits(bound int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(bound))
	if err != nil {
		return 0, fmt.Errorf("public id entropy: %w", err)
	}
	return n.Int64(), nil
}
