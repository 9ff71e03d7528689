package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for _, digits := range []int{4, 6, 8} {
		code, err := GenerateOTP(digits)
		require.NoError(t, err)
		assert.Len(t, code, digits)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit %q in %s", r, code)
		}
	}
}

func TestGenerateOTP_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
