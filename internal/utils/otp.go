package utils

import (
    "crypto/rand"
    "fmt"
    "math/big"
)

// NewOTPCode returns a uniformly random six-digit login code with
// leading zeros preserved.
func NewOTPCode() (string, error) {
    n, err := rand.Int(rand.Reader, big.NewInt(1000000))
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%06d", n.Int64()), nil
}
