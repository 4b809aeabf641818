package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_JSONManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "applications.json", `{
  "FilesPath": "Packages",
  "Packages": [
    { "Name": "7-Zip", "Arguments": "/S", "FileName": "7z2408-x64.exe" },
    { "name": "Firefox", "arguments": "-ms", "fileName": "Firefox Setup.exe" }
  ]
}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Packages, 2)
	assert.Equal(t, "7-Zip", cfg.Packages[0].Name)
	assert.Equal(t, "/S", cfg.Packages[0].Arguments)
	assert.Equal(t, "Firefox Setup.exe", cfg.Packages[1].FileName, "JSON keys are case-insensitive")
	assert.Equal(t, filepath.Join(dir, "Packages"), cfg.FilesPath)
	assert.Equal(t, 10, cfg.ConfirmTimeoutSeconds)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogPath)
	assert.Equal(t, path, cfg.Source)
}

func TestLoadConfig_YAMLManifest(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "installers")
	path := writeFile(t, dir, "applications.yaml", `
FilesPath: `+abs+`
ConfirmTimeoutSeconds: 3
Packages:
  - Name: Notepad++
    FileName: npp.8.6.Installer.x64.exe
    Arguments: /S
    Version: "8.6"
    BlockingApps:
      - notepad++.exe
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, abs, cfg.FilesPath)
	assert.Equal(t, 3, cfg.ConfirmTimeoutSeconds)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, "8.6", cfg.Packages[0].Version)
	assert.Equal(t, []string{"notepad++.exe"}, cfg.Packages[0].BlockingApps)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"Packages": [`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse configuration file")
	})

	t.Run("package without file name", func(t *testing.T) {
		path := writeFile(t, dir, "incomplete.json", `{"Packages": [{"Name": "Git"}]}`)
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "package 1: FileName is empty")
	})
}

func TestInitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	require.NoError(t, InitConfig(path))

	info, err := os.Stat(filepath.Join(dir, "Packages"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Packages, 1)
	assert.Equal(t, GetDefaultConfig().Packages[0], cfg.Packages[0])

	err = InitConfig(path)
	assert.ErrorIs(t, err, ErrConfigExists)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "custom.json", Resolve("custom.json", dir))
	assert.Equal(t, filepath.Join(dir, DefaultFileName), Resolve("", dir))

	yamlPath := writeFile(t, dir, "applications.yaml", "Packages: []\n")
	assert.Equal(t, yamlPath, Resolve("", dir))

	jsonPath := writeFile(t, dir, DefaultFileName, `{"Packages": []}`)
	assert.Equal(t, jsonPath, Resolve("", dir), "json manifest takes precedence")
}
