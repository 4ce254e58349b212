package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	h, err := HashPassword("admin12345")
	require.NoError(t, err)
	assert.NotEqual(t, "admin12345", h)
	assert.True(t, CheckPassword("admin12345", h))
	assert.False(t, CheckPassword("admin1234", h))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}
