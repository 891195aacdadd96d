package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("unknown"))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patrol.log")

	log := New("info", "json", path)
	log.With("component", "test").Info("violation submitted", map[string]interface{}{
		"plate": "IKH1234",
	})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"violation submitted"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"plate":"IKH1234"`)
}

func TestNewNoop(t *testing.T) {
	log := NewNoop()
	assert.NotPanics(t, func() {
		log.Info("ignored")
		log.With("k", "v").Error("ignored too")
	})
}
