package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBeforeInit(t *testing.T) {
	// A nop logger must be usable before Init runs.
	assert.NotNil(t, Get())
	assert.NotNil(t, For("api"))
}

func TestInit(t *testing.T) {
	require.NoError(t, Init(" DEBUG ", "production"))
	require.NotNil(t, globalLogger)
	assert.True(t, Get().Core().Enabled(-1), "debug level should be enabled")
	For("worker").Debug("logger initialized")

	// Only the first call has an effect.
	assert.NoError(t, Init("not-a-level", "development"))
}
