package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	p := Password(16)
	assert.Len(t, p, 16)
	for _, r := range p {
		assert.True(t, strings.ContainsRune(alphanumeric+symbols, r))
	}
	assert.NotEqual(t, Password(16), p)
}
