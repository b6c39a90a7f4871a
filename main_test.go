package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminPassword(t *testing.T) {
	pw, generated := adminPassword("given-secret")
	assert.Equal(t, "given-secret", pw)
	assert.False(t, generated)

	pw, generated = adminPassword("")
	assert.True(t, generated)
	assert.Len(t, pw, generatedPasswordLength)

	other, _ := adminPassword("")
	assert.NotEqual(t, pw, other)
}
