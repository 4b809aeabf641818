// pkg/config/config.go - package manifest and settings for appinstaller.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the manifest looked up in the working directory.
const DefaultFileName = "applications.json"

// PolicyRegistryPath holds machine policy values that override the manifest.
const PolicyRegistryPath = `SOFTWARE\AppInstaller\Config`

const (
	defaultConfirmTimeoutSeconds = 10
	defaultLogLevel              = "INFO"
	defaultFilesPath             = "Packages"
)

// Package is one installable unit from the manifest.
type Package struct {
	Name         string   `yaml:"Name" json:"Name"`
	Arguments    string   `yaml:"Arguments" json:"Arguments"`
	FileName     string   `yaml:"FileName" json:"FileName"`
	Version      string   `yaml:"Version,omitempty" json:"Version,omitempty"`           // optional, compared with DisplayVersion
	BlockingApps []string `yaml:"BlockingApps,omitempty" json:"BlockingApps,omitempty"` // processes that must not be running
}

// Configuration is the parsed manifest plus run settings.
type Configuration struct {
	FilesPath             string    `yaml:"FilesPath" json:"FilesPath"`
	Packages              []Package `yaml:"Packages" json:"Packages"`
	ConfirmTimeoutSeconds int       `yaml:"ConfirmTimeoutSeconds,omitempty" json:"ConfirmTimeoutSeconds,omitempty"`
	LogLevel              string    `yaml:"LogLevel,omitempty" json:"LogLevel,omitempty"`
	LogPath               string    `yaml:"LogPath,omitempty" json:"LogPath,omitempty"`

	// Path of the file this configuration was read from.
	Source string `yaml:"-" json:"-"`
}

// ErrConfigExists is returned by InitConfig when the target file is already present.
var ErrConfigExists = errors.New("configuration file already exists")

// LoadConfig reads the manifest at path, applies registry policy overrides
// and defaults, and validates the package list.
func LoadConfig(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file '%s' not found: %w", path, err)
		}
		return nil, fmt.Errorf("reading configuration file '%s': %w", path, err)
	}

	cfg, err := Parse(data, isJSON(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file '%s': %w", path, err)
	}

	if err := applyPolicyOverrides(cfg); err != nil {
		// Missing policy key is the normal case.
		if !errors.Is(err, errNoPolicy) {
			return nil, err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.Source = abs
	applyDefaults(cfg, filepath.Dir(abs))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a manifest. JSON keys match case-insensitively.
func Parse(data []byte, asJSON bool) (*Configuration, error) {
	var cfg Configuration
	if asJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// applyDefaults fills unset values and resolves a relative FilesPath against baseDir.
func applyDefaults(cfg *Configuration, baseDir string) {
	if cfg.FilesPath == "" {
		cfg.FilesPath = defaultFilesPath
	}
	if !filepath.IsAbs(cfg.FilesPath) {
		cfg.FilesPath = filepath.Join(baseDir, cfg.FilesPath)
	}
	if cfg.ConfirmTimeoutSeconds <= 0 {
		cfg.ConfirmTimeoutSeconds = defaultConfirmTimeoutSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(baseDir, "logs")
	}
}

// Validate checks that every package can be resolved to an installer.
func (c *Configuration) Validate() error {
	var problems []string
	for i, p := range c.Packages {
		if strings.TrimSpace(p.Name) == "" {
			problems = append(problems, fmt.Sprintf("package %d: Name is empty", i+1))
		}
		if strings.TrimSpace(p.FileName) == "" {
			problems = append(problems, fmt.Sprintf("package %d: FileName is empty", i+1))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// GetDefaultConfig returns the manifest written by InitConfig.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		FilesPath: defaultFilesPath,
		Packages: []Package{
			{
				Name:      "7-Zip",
				Arguments: "/S",
				FileName:  "7z2408-x64.exe",
			},
		},
	}
}

// InitConfig writes the default manifest to path and creates the packages
// directory next to it. An existing file is never overwritten.
func InitConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	cfg := GetDefaultConfig()
	pkgDir := filepath.Join(filepath.Dir(path), cfg.FilesPath)
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return fmt.Errorf("creating packages directory %s: %w", pkgDir, err)
	}
	return SaveConfig(cfg, path)
}

// SaveConfig writes cfg to path. Files ending in .json are written as JSON,
// everything else as YAML.
func SaveConfig(cfg *Configuration, path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("serializing configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating configuration directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing configuration file: %w", err)
	}
	return nil
}

// Resolve returns the manifest to load: explicit wins, otherwise the first of
// applications.json / applications.yaml / applications.yml found in dir.
// When none exist the .json path is returned so the error names it.
func Resolve(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFileName, "applications.yaml", "applications.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(dir, DefaultFileName)
}
