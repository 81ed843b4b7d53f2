package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	str := String(64, CharsetTokens)
	assert.Len(t, str, 64)
	for _, char := range str {
		assert.True(t, strings.ContainsRune(string(CharsetTokens), char), "unexpected character %q", char)
	}

	assert.NotEqual(t, String(32, CharsetAlphanumeric), String(32, CharsetAlphanumeric))
	assert.Empty(t, String(0, CharsetAlphanumeric))
	assert.Equal(t, "aaaa", String(4, []rune("a")))
}
