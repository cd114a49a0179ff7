package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFromContextFallsBackToBase(t *testing.T) {
	assert.Same(t, Log, FromContext(context.Background()))
}

func TestWithContext(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestInitRejectsBadLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.Error(t, Init("test", "production", "loud"))
	require.NoError(t, Init("test", "production", "warn"))
	assert.False(t, Log.Core().Enabled(zap.InfoLevel))
}
