package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordDeterministic(t *testing.T) {
	SetJWTSecret("test-secret")
	t.Cleanup(func() { SetJWTSecret("") })

	first := HashPassword("password123")
	second := HashPassword("password123")
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, HashPassword("password124"))
	assert.Len(t, first, 64)
}

func TestHashPasswordDependsOnSecret(t *testing.T) {
	SetJWTSecret("secret-a")
	a := HashPassword("password123")
	SetJWTSecret("secret-b")
	b := HashPassword("password123")
	t.Cleanup(func() { SetJWTSecret("") })

	assert.NotEqual(t, a, b)
}

func TestGeneratePassword(t *testing.T) {
	p := GeneratePassword(16)
	assert.Len(t, p, 16)
	assert.NotEqual(t, p, GeneratePassword(16))

	// non-positive length falls back to the default
	assert.Len(t, GeneratePassword(0), 16)
}

func TestGenerateAccessCode(t *testing.T) {
	code := GenerateAccessCode(8)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.NotContains(t, "01IO", string(r))
	}
}
