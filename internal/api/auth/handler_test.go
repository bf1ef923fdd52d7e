package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailValid(t *testing.T) {
	valid := []string{
		"dana@example.edu",
		"first.last@dept.university.edu",
		"user+tag@example.com",
		"pct%encoded@example.org",
		"under_score@example.co",
	}
	for _, e := range valid {
		assert.True(t, isEmailValid(e), e)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@missing-local.org",
		"missing-domain@",
		"no-tld@example",
		"two@@example.com",
		"sp ace@example.com",
	}
	for _, e := range invalid {
		assert.False(t, isEmailValid(e), e)
	}
}

func TestIsPasswordStrong(t *testing.T) {
	assert.True(t, isPasswordStrong("abcdef12"))
	assert.True(t, isPasswordStrong("A1b2c3d4e5"))

	assert.False(t, isPasswordStrong("short1"))
	assert.False(t, isPasswordStrong("lettersonly"))
	assert.False(t, isPasswordStrong("12345678"))
}
