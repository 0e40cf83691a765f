package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), 3, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("temporary")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestRetryReturnsLastError(t *testing.T) {
	cause := errors.New("permanent")
	calls := 0
	_, err := retry(context.Background(), 0, func() (int, error) {
		calls++
		return 0, cause
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := retry(ctx, 5, func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("fail")
	})

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}
