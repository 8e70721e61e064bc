package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/config"
)

func TestDefault_HasExpectedBaseline(t *testing.T) {
	cfg := config.Default()
	assert.False(t, cfg.KeepGoing)
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, "neon-builds.db", cfg.Server.DatabasePath)
	assert.Empty(t, cfg.Server.TokenSecret)
}

func TestLoad_OverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
target_triple = "x86_64-unknown-linux-gnu"
keep_going = true

[server]
listen_address = ":9090"
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "x86_64-unknown-linux-gnu", cfg.TargetTriple)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, ":9090", cfg.Server.ListenAddress)
	// Untouched by the file, so it keeps Default()'s value.
	assert.Equal(t, "neon-builds.db", cfg.Server.DatabasePath)
}

func TestLoad_ImportRoots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
import_roots = ["/opt/neon/lib", "vendor"]
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/neon/lib", "vendor"}, cfg.ImportRoots)
}

func TestLoad_MissingFile_ReturnsError(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_MalformedTOML_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
