package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arcanaland/cardsheet/internal/layout"
)

const appName = "cardsheet"

// deckExtensions are tried, in order, when a deck name has no extension
var deckExtensions = []string{".json", ".toml", ".yaml", ".yml"}

// ErrUnknownKey is returned by Set for keys the config does not have
var ErrUnknownKey = errors.New("unknown config key")

// Config represents the application configuration
type Config struct {
	PerPage          int    `toml:"per_page"`
	PerRow           int    `toml:"per_row"`
	Flip             string `toml:"flip"`
	Template         string `toml:"template"`
	DocumentTemplate string `toml:"document_template"`
	Paper            string `toml:"paper"`
	Landscape        bool   `toml:"landscape"`
	Margin           string `toml:"margin"`
	Browser          string `toml:"browser"`
}

// Default returns the configuration written on first use
func Default() *Config {
	return &Config{
		PerPage:   layout.DefaultPerPage,
		PerRow:    layout.DefaultPerRow,
		Flip:      layout.ShortEdge.String(),
		Paper:     "A4",
		Landscape: true,
		Margin:    "1cm",
	}
}

// Layout returns the layout options described by the config
func (c *Config) Layout() layout.Options {
	return layout.Options{
		PerPage: c.PerPage,
		PerRow:  c.PerRow,
		Flip:    layout.ParseFlipMode(c.Flip),
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetDeckLibraryPath returns the directory holding named decks
func GetDeckLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), appName, "decks")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// LoadConfig loads the config file from its default location
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath())
}

// LoadConfigFrom loads the config file at path, creating it with defaults
// if it doesn't exist. Keys missing from the file keep their defaults.
func LoadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	config := Default()
	if err := Save(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the config to path, creating its directory
func Save(configPath string, config *Config) (err error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing config file: %w", cerr)
		}
	}()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// Keys lists the settable config keys
func Keys() []string {
	return []string{
		"browser", "document_template", "flip", "landscape", "margin",
		"paper", "per_page", "per_row", "template",
	}
}

// Set updates one key from its string form
func (c *Config) Set(key, value string) error {
	switch key {
	case "per_page", "per_row":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", key, value)
		}
		if key == "per_page" {
			c.PerPage = n
		} else {
			c.PerRow = n
		}
	case "flip":
		if !layout.IsKnownFlipMode(value) {
			return fmt.Errorf("flip must be %q or %q, got %q", layout.ShortEdge, layout.LongEdge, value)
		}
		c.Flip = layout.ParseFlipMode(value).String()
	case "template":
		c.Template = value
	case "document_template":
		c.DocumentTemplate = value
	case "paper":
		c.Paper = value
	case "landscape":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("landscape must be true or false, got %q", value)
		}
		c.Landscape = b
	case "margin":
		c.Margin = value
	case "browser":
		c.Browser = value
	default:
		return fmt.Errorf("%w: %s (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	return nil
}

// GetDeckPath returns the path to a deck, either in the deck library or a relative path
func GetDeckPath(deckName string) (string, error) {
	// First, try to find the deck in the deck library
	libraryPath := GetDeckLibraryPath()
	if path, ok := findDeckFile(filepath.Join(libraryPath, deckName)); ok {
		return path, nil
	}

	// If not found in the library, treat as a relative path
	if path, ok := findDeckFile(deckName); ok {
		return path, nil
	}

	return "", fmt.Errorf("deck not found: %s", deckName)
}

// findDeckFile checks base as given, then with each known deck extension
func findDeckFile(base string) (string, bool) {
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		return base, true
	}
	if filepath.Ext(base) != "" {
		return "", false
	}
	for _, ext := range deckExtensions {
		if info, err := os.Stat(base + ext); err == nil && !info.IsDir() {
			return base + ext, true
		}
	}
	return "", false
}
