package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config keys.
const (
	KeyOutputDir = "output-dir"
	KeyProvider  = "provider"
	KeyModel     = "model"
	KeyLogFile   = "log-file"
)

// Environment variable fallbacks.
const (
	EnvOutputDir = "CLASSIC_TRANSLATE_OUTPUT_DIR"
	EnvProvider  = "CLASSIC_TRANSLATE_PROVIDER"
)

// appName names the directory under the user config root.
const appName = "classic-translate"

// fileName is the config file inside the config directory.
const fileName = "config.yaml"

// keys lists every supported key in display order.
var keys = []string{KeyOutputDir, KeyProvider, KeyModel, KeyLogFile}

// envFallbacks maps keys to the environment variables consulted when the file
// leaves them unset.
var envFallbacks = map[string]string{
	KeyOutputDir: EnvOutputDir,
	KeyProvider:  EnvProvider,
}

// Config holds user configuration loaded from
// ~/.config/classic-translate/config.yaml.
type Config struct {
	OutputDir string `yaml:"output-dir,omitempty"`
	Provider  string `yaml:"provider,omitempty"`
	Model     string `yaml:"model,omitempty"`
	LogFile   string `yaml:"log-file,omitempty"`
}

// Keys returns the supported configuration keys.
func Keys() []string {
	return slices.Clone(keys)
}

// IsValidKey reports whether key is a supported configuration key.
func IsValidKey(key string) bool {
	return slices.Contains(keys, key)
}

// EnvFor returns the environment variable used as fallback for key,
// or "" if the key has none.
func EnvFor(key string) string {
	return envFallbacks[key]
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/classic-translate.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, fileName), nil
}

// Load reads the configuration file and environment variables.
// Precedence: config file values, then environment variable fallbacks.
// Returns an empty Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	p, err := Path()
	if err != nil {
		return cfg, err
	}

	cfg, err = readFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = os.Getenv(EnvOutputDir)
	}
	if cfg.Provider == "" {
		cfg.Provider = os.Getenv(EnvProvider)
	}

	return cfg, nil
}

// readFile decodes a YAML config file. Unknown keys are rejected.
func readFile(p string) (Config, error) {
	var cfg Config

	f, err := os.Open(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		return cfg, err
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parsing %s: %w: %w", p, ErrInvalidFile, err)
	}
	return cfg, nil
}

// writeFile encodes cfg as YAML, replacing p atomically.
func writeFile(p string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Save writes a single key to the config file, preserving other keys.
// Creates the config directory and file if they don't exist.
func Save(key, value string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%w %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(keys, ", "))
	}

	p, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	cfg, err := readFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg.set(key, value)
	return writeFile(p, cfg)
}

// Get reads a single value from the config file.
// Returns empty string if the key isn't set.
func Get(key string) (string, error) {
	if !IsValidKey(key) {
		return "", fmt.Errorf("%w %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(keys, ", "))
	}

	data, err := List()
	if err != nil {
		return "", err
	}
	return data[key], nil
}

// List returns all values set in the config file, keyed by config key.
func List() (map[string]string, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}

	cfg, err := readFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return cfg.values(), nil
}

// set assigns value to the field for key. Unknown keys are ignored.
func (c *Config) set(key, value string) {
	switch key {
	case KeyOutputDir:
		c.OutputDir = value
	case KeyProvider:
		c.Provider = value
	case KeyModel:
		c.Model = value
	case KeyLogFile:
		c.LogFile = value
	}
}

// values returns the non-empty fields keyed by config key.
func (c Config) values() map[string]string {
	out := make(map[string]string)
	for key, v := range map[string]string{
		KeyOutputDir: c.OutputDir,
		KeyProvider:  c.Provider,
		KeyModel:     c.Model,
		KeyLogFile:   c.LogFile,
	} {
		if v != "" {
			out[key] = v
		}
	}
	return out
}

// ChapterPath returns the output file path for a chapter ordinal.
func ChapterPath(outputDir string, ordinal int) string {
	return filepath.Join(outputDir, fmt.Sprintf("Chapter_%d.txt", ordinal))
}

// EnsureOutputDir creates d if needed and checks it is a writable directory.
func EnsureOutputDir(d string) error {
	if d == "" {
		return fmt.Errorf("output-dir cannot be empty")
	}
	d = ExpandPath(d)

	info, err := os.Stat(d)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(d, 0750); err != nil { // #nosec G301 -- user output dir
				return fmt.Errorf("cannot create directory: %w", err)
			}
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", d)
	}

	f, err := os.CreateTemp(d, ".classic-translate-write-test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	return nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}
