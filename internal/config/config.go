// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mention-tui/internal/document"
	"github.com/jeranaias/mention-tui/internal/fuzzy"
	"github.com/jeranaias/mention-tui/internal/mention"
	"github.com/jeranaias/mention-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete application configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Mention behaviour
	Mention MentionConfig `toml:"mention" json:"mention"`

	// Option universe source
	Options OptionsConfig `toml:"options" json:"options"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Log configuration
	Log LogConfig `toml:"log" json:"log"`

	// Sent message history
	History HistoryConfig `toml:"history" json:"history"`
}

// MentionConfig controls the mention state machine.
type MentionConfig struct {
	// TriggerCharacter opens a search; exactly one printable character
	TriggerCharacter string `toml:"trigger_character" json:"trigger_character"`
	// MentionKind is the element type of mention spans
	MentionKind string `toml:"mention_kind" json:"mention_kind"`
	// ExcludedKind is the element type hidden from entity extraction
	ExcludedKind string `toml:"excluded_kind" json:"excluded_kind"`
	// CaseSensitive makes the default matcher compare case
	CaseSensitive bool `toml:"case_sensitive" json:"case_sensitive"`
}

// OptionsConfig locates the option universe.
type OptionsConfig struct {
	// File is a .json, .toml, .yaml or .yml file of options
	File string `toml:"file" json:"file"`
	// Watch reloads the file when it changes
	Watch bool `toml:"watch" json:"watch"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// MaxVisible is the number of picker rows shown at once
	MaxVisible int `toml:"max_visible" json:"max_visible"`
	// Width is the picker width in columns
	Width int `toml:"width" json:"width"`
}

// HistoryConfig controls the transcripts kept of sent messages.
type HistoryConfig struct {
	// Save stores a transcript when the editor exits (off by default)
	Save bool `toml:"save" json:"save"`
	// Max is the number of transcripts kept; 0 keeps all
	Max int `toml:"max" json:"max"`
	// Dir overrides the transcript directory
	Dir string `toml:"dir" json:"dir"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is "debug", "info", "warn" or "error"
	Level string `toml:"level" json:"level"`
	// File receives TUI logs; empty means mention.log in the config dir
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Mention: MentionConfig{
			TriggerCharacter: string(mention.DefaultTrigger),
			MentionKind:      document.DefaultMentionKind,
			ExcludedKind:     document.DefaultExcludedKind,
			CaseSensitive:    false,
		},

		Options: OptionsConfig{
			File:  "",
			Watch: true,
		},

		UI: UIConfig{
			Theme:      "dark",
			MaxVisible: 8,
			Width:      40,
		},

		Log: LogConfig{
			Level: "warn",
		},

		History: HistoryConfig{
			Max: 100,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the configuration directory path. MENTION_HOME overrides
// the default of ~/.mention.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MENTION_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".mention"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the file TUI logs are written to.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mention.log"), nil
}

// HistoryDir returns the directory transcripts are stored in.
func (c *Config) HistoryDir() (string, error) {
	if c.History.Dir != "" {
		return c.History.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("unknown config keys", "path", path, "keys", strings.Join(keys, ","))
	}
	return fillDefaults(cfg)
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
// Booleans are left as decoded.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	// Mention
	if cfg.Mention.TriggerCharacter == "" {
		cfg.Mention.TriggerCharacter = defaults.Mention.TriggerCharacter
	}
	if cfg.Mention.MentionKind == "" {
		cfg.Mention.MentionKind = defaults.Mention.MentionKind
	}
	if cfg.Mention.ExcludedKind == "" {
		cfg.Mention.ExcludedKind = defaults.Mention.ExcludedKind
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.UI.MaxVisible == 0 {
		cfg.UI.MaxVisible = defaults.UI.MaxVisible
	}
	if cfg.UI.Width == 0 {
		cfg.UI.Width = defaults.UI.Width
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# mention configuration file\n")
	buf.WriteString("# Generated by mention - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	trigger := c.Mention.TriggerCharacter
	if utf8.RuneCountInString(trigger) != 1 {
		errs = append(errs, ValidationError{
			Field:   "mention.trigger_character",
			Message: fmt.Sprintf("must be exactly one character, got %q", trigger),
		})
	} else if r, _ := utf8.DecodeRuneInString(trigger); unicode.IsSpace(r) || !unicode.IsPrint(r) {
		errs = append(errs, ValidationError{
			Field:   "mention.trigger_character",
			Message: fmt.Sprintf("must be a printable non-space character, got %q", trigger),
		})
	}

	if c.Mention.MentionKind == "" {
		errs = append(errs, ValidationError{Field: "mention.mention_kind", Message: "must not be empty"})
	}
	if c.Mention.MentionKind == c.Mention.ExcludedKind {
		errs = append(errs, ValidationError{
			Field:   "mention.excluded_kind",
			Message: fmt.Sprintf("must differ from mention_kind %q", c.Mention.MentionKind),
		})
	}

	if c.Options.File != "" {
		switch strings.ToLower(filepath.Ext(c.Options.File)) {
		case ".json", ".toml", ".yaml", ".yml":
		default:
			errs = append(errs, ValidationError{
				Field:   "options.file",
				Message: fmt.Sprintf("unsupported extension %q (want .json, .toml, .yaml or .yml)", filepath.Ext(c.Options.File)),
			})
		}
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be dark, light or auto, got %q", c.UI.Theme),
		})
	}
	if c.UI.MaxVisible < 1 || c.UI.MaxVisible > 50 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_visible",
			Message: fmt.Sprintf("must be between 1 and 50, got %d", c.UI.MaxVisible),
		})
	}
	if c.UI.Width < 10 || c.UI.Width > 200 {
		errs = append(errs, ValidationError{
			Field:   "ui.width",
			Message: fmt.Sprintf("must be between 10 and 200, got %d", c.UI.Width),
		})
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if c.History.Max < 0 || c.History.Max > 10000 {
		errs = append(errs, ValidationError{
			Field:   "history.max",
			Message: fmt.Sprintf("must be between 0 and 10000, got %d", c.History.Max),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", name)
	}
	return level, nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MENTION_TRIGGER: overrides mention.trigger_character
//   - MENTION_CASE_SENSITIVE: set to "1" or "true" for case-sensitive matching
//   - MENTION_OPTIONS_FILE: overrides options.file
//   - MENTION_THEME: overrides ui.theme
//   - MENTION_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if trigger := os.Getenv("MENTION_TRIGGER"); trigger != "" {
		c.Mention.TriggerCharacter = trigger
	}

	if cs := os.Getenv("MENTION_CASE_SENSITIVE"); cs != "" {
		c.Mention.CaseSensitive = cs == "1" || strings.ToLower(cs) == "true"
	}

	if file := os.Getenv("MENTION_OPTIONS_FILE"); file != "" {
		c.Options.File = file
	}

	if theme := os.Getenv("MENTION_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if level := os.Getenv("MENTION_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// =============================================================================
// MENTION CONFIG
// =============================================================================

// ToMentionConfig builds the state machine configuration. The config must
// be valid.
func (c *Config) ToMentionConfig(logger *slog.Logger) mention.Config {
	cfg := mention.DefaultConfig()
	if r, _ := utf8.DecodeRuneInString(c.Mention.TriggerCharacter); r != utf8.RuneError {
		cfg.Trigger = r
	}
	cfg.MentionKind = c.Mention.MentionKind
	cfg.ExcludedKind = c.Mention.ExcludedKind
	cfg.Matcher = fuzzy.Default{CaseSensitive: c.Mention.CaseSensitive}
	if logger != nil {
		cfg.Logger = logger
	}
	return cfg
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
// String values are converted to the field type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"mention.trigger_character",
		"mention.mention_kind",
		"mention.excluded_kind",
		"mention.case_sensitive",
		"options.file",
		"options.watch",
		"ui.theme",
		"ui.max_visible",
		"ui.width",
		"log.level",
		"log.file",
		"history.save",
		"history.max",
		"history.dir",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as indented JSON for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
