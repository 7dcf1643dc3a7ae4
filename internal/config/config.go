/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config persists user-editable settings to a YAML file in the user
// scope. Environment variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
}

type PlatterConfig struct {
	// AppearancePreset points to a JSON preset overriding the built-in
	// panel appearance; empty uses the defaults.
	AppearancePreset string `yaml:"appearance_preset"`
	// AvoidKeyboard sets the default keyboard-avoidance behavior for new
	// presentations.
	AvoidKeyboard bool `yaml:"avoid_keyboard"`
	// Animated disables open/close animation when false, for low-power
	// targets or tests.
	Animated bool `yaml:"animated"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the root document. config_version is bumped when the
// structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Platter       PlatterConfig `yaml:"platter"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Platter:       PlatterConfig{AvoidKeyboard: true, Animated: true},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Environment override names.
const (
	EnvTelemetryOptIn   = "PLATTER_TELEMETRY_OPT_IN"
	EnvTheme            = "PLATTER_THEME"
	EnvAppearancePreset = "PLATTER_APPEARANCE_PRESET"
	EnvAvoidKeyboard    = "PLATTER_AVOID_KEYBOARD"
	EnvAnimated         = "PLATTER_ANIMATED"
	EnvLogLevel         = "PLATTER_LOG_LEVEL"
	EnvLogFormat        = "PLATTER_LOG_FORMAT"
	EnvLogSource        = "PLATTER_LOG_SOURCE"
	EnvLogFile          = "PLATTER_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PlatterKit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PlatterKit")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "platterkit")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file if present, applies defaults and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML, creating the directory as needed.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans carry over directly so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.Platter.AvoidKeyboard = src.Platter.AvoidKeyboard
	dst.Platter.Animated = src.Platter.Animated
	if strings.TrimSpace(src.Platter.AppearancePreset) != "" {
		dst.Platter.AppearancePreset = strings.TrimSpace(src.Platter.AppearancePreset)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAppearancePreset)); v != "" {
		cfg.Platter.AppearancePreset = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAvoidKeyboard)); v != "" {
		cfg.Platter.AvoidKeyboard = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnimated)); v != "" {
		cfg.Platter.Animated = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTrue(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTrue(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EnvOverrideFor reports which env var overrides the given settings key, so
// the UI can mark settings as read-only.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"general.telemetry_opt_in":  EnvTelemetryOptIn,
		"general.theme":             EnvTheme,
		"platter.appearance_preset": EnvAppearancePreset,
		"platter.avoid_keyboard":    EnvAvoidKeyboard,
		"platter.animated":          EnvAnimated,
		"logging.level":             EnvLogLevel,
		"logging.format":            EnvLogFormat,
		"logging.source":            EnvLogSource,
		"logging.file":              EnvLogFile,
	}
	if env, ok := names[key]; ok && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
