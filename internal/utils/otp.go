package utils

import (
	"crypto/rand" // Unpredictable codes
	"math/big"    // Uniform range sampling
	"strings"
)

// GenerateOTP returns a numeric code with exactly digits characters, leading zeros kept
func GenerateOTP(digits int) (string, error) {
	var b strings.Builder
	b.Grow(digits)
	ten := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
