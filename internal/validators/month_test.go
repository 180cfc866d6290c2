package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidMonth(t *testing.T) {
	assert.True(t, IsValidMonth("2025-01"))
	assert.True(t, IsValidMonth("2025-12"))

	assert.False(t, IsValidMonth("2025-13"))
	assert.False(t, IsValidMonth("2025-00"))
	assert.False(t, IsValidMonth("2025-1"))
	assert.False(t, IsValidMonth("25-01"))
	assert.False(t, IsValidMonth("2025/01"))
	assert.False(t, IsValidMonth(""))
	assert.False(t, IsValidMonth("2025-01-05"))
}
