package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harmonia.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: Synth\nvelocity: 80\npublish_interval: 10ms\n",
	), 0o600))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Synth", s.Port)
	assert.Equal(t, uint8(80), s.Velocity)
	assert.Equal(t, Duration(10*time.Millisecond), s.PublishInterval)
	// Untouched fields keep their defaults.
	assert.Equal(t, "harmonia-clock", s.Region)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harmonia.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [broken"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
