package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("whatever"))
}

func TestFileOutput(t *testing.T) {
	defer Set(zap.NewNop())

	path := filepath.Join(t.TempDir(), "enc.log")
	require.NoError(t, InitWithFileConfig("info", DefaultFileConfig(path), false))

	Debug("hidden")
	Info("converted", zap.String("node", "Box"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "converted")
	assert.Contains(t, string(data), "Box")
	assert.NotContains(t, string(data), "hidden")
}
