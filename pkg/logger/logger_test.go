package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLevels(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("chatty")
	assert.Error(t, err)
}

func TestNamedTagsComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	Named(zap.New(core), "svc.intake").Info("ready")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "svc.intake", logs.All()[0].LoggerName)
}

func TestNamedNilBase(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
	assert.Panics(t, func() { Must(New("chatty")) })
}
