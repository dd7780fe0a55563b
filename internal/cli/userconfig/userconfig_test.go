package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, &UserConfig{}, cfg)
}

func TestSelectedServerAndLastRoute(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, SetSelectedServer("http://localhost:5000/api/"))
	require.NoError(t, SetLastRoute("/customer/profile"))

	server, err := GetSelectedServer()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api/", server)

	route, err := GetLastRoute()
	require.NoError(t, err)
	assert.Equal(t, "/customer/profile", route)

	info, err := os.Stat(filepath.Join(home, ".config", "homeserv", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_Corrupt(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "homeserv")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0600))

	_, err := Load()
	assert.Error(t, err)
}
