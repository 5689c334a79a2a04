// Package config provides configuration management for tomodo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultDataDir = "~/.tomodo"

// Config holds all application settings. Timer durations are not here:
// they live in the task document next to the tasks.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Sound         SoundConfig        `mapstructure:"sound"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds timer behaviour settings.
type TimerConfig struct {
	AutoChain bool `mapstructure:"auto_chain"`
}

// SoundConfig holds alert sound settings.
type SoundConfig struct {
	// BeepFallback rings the terminal bell when no audio file or player exists.
	BeepFallback bool `mapstructure:"beep_fallback"`
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig holds logging settings. An empty File means <data_dir>/tomodo.log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Theme modes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ThemeConfig holds the TUI colours. Mode selects the palette the
// interface starts with; an empty Background leaves the terminal's own.
type ThemeConfig struct {
	Mode          string `mapstructure:"mode"`
	Background    string `mapstructure:"background"`
	ColorWork     string `mapstructure:"color_work"`
	ColorBreak    string `mapstructure:"color_break"`
	ColorPaused   string `mapstructure:"color_paused"`
	ColorTitle    string `mapstructure:"color_title"`
	ColorDone     string `mapstructure:"color_done"`
	ColorOverdue  string `mapstructure:"color_overdue"`
	ColorHelp     string `mapstructure:"color_help"`
	GradientStart string `mapstructure:"gradient_start"`
	GradientEnd   string `mapstructure:"gradient_end"`
	IconApp       string `mapstructure:"icon_app"`
	IconDone      string `mapstructure:"icon_done"`
	IconPending   string `mapstructure:"icon_pending"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Mode:          ThemeDark,
		ColorWork:     "#E05A47",
		ColorBreak:    "#4ECDC4",
		ColorPaused:   "#6B7280",
		ColorTitle:    "#A0AEC0",
		ColorDone:     "#6B7280",
		ColorOverdue:  "#F59E0B",
		ColorHelp:     "#95A5A6",
		GradientStart: "#E05A47",
		GradientEnd:   "#F4A261",
		IconApp:       "🍅",
		IconDone:      "✔",
		IconPending:   "·",
	}
}

// LightThemeConfig returns a palette for a light background.
func LightThemeConfig() ThemeConfig {
	return ThemeConfig{
		Mode:          ThemeLight,
		Background:    "#FAFAF7",
		ColorWork:     "#B83227",
		ColorBreak:    "#13776F",
		ColorPaused:   "#4B5563",
		ColorTitle:    "#1F2937",
		ColorDone:     "#9CA3AF",
		ColorOverdue:  "#B45309",
		ColorHelp:     "#4B5563",
		GradientStart: "#B83227",
		GradientEnd:   "#D97706",
		IconApp:       "🍅",
		IconDone:      "✔",
		IconPending:   "·",
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer:         TimerConfig{AutoChain: true},
		Sound:         SoundConfig{BeepFallback: true},
		Notifications: NotificationConfig{Enabled: true},
		Storage:       StorageConfig{DataDir: defaultDataDir},
		Log:           LogConfig{Level: "info"},
		Theme:         DefaultThemeConfig(),
	}
}

// Load loads the configuration from the default config file, creating it
// with defaults when it does not exist.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating it with
// defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := ExpandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir
	if cfg.Log.File != "" {
		if cfg.Log.File, err = ExpandHome(cfg.Log.File); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath as TOML.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	v.Set("timer.auto_chain", cfg.Timer.AutoChain)
	v.Set("sound.beep_fallback", cfg.Sound.BeepFallback)
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("theme.mode", cfg.Theme.Mode)
	v.Set("theme.background", cfg.Theme.Background)
	v.Set("theme.color_work", cfg.Theme.ColorWork)
	v.Set("theme.color_break", cfg.Theme.ColorBreak)
	v.Set("theme.color_paused", cfg.Theme.ColorPaused)
	v.Set("theme.color_title", cfg.Theme.ColorTitle)
	v.Set("theme.color_done", cfg.Theme.ColorDone)
	v.Set("theme.color_overdue", cfg.Theme.ColorOverdue)
	v.Set("theme.color_help", cfg.Theme.ColorHelp)
	v.Set("theme.gradient_start", cfg.Theme.GradientStart)
	v.Set("theme.gradient_end", cfg.Theme.GradientEnd)
	v.Set("theme.icon_app", cfg.Theme.IconApp)
	v.Set("theme.icon_done", cfg.Theme.IconDone)
	v.Set("theme.icon_pending", cfg.Theme.IconPending)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tomodo", "config.toml"), nil
}

// LogPath returns the TUI log file location.
func LogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "tomodo.log")
}

// ExpandHome replaces a leading ~ with the user's home directory. An empty
// path expands to the default data directory.
func ExpandHome(path string) (string, error) {
	if path == "" {
		path = defaultDataDir
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("timer.auto_chain", defaults.Timer.AutoChain)
	v.SetDefault("sound.beep_fallback", defaults.Sound.BeepFallback)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", "")

	theme := defaults.Theme
	v.SetDefault("theme.mode", theme.Mode)
	v.SetDefault("theme.background", theme.Background)
	v.SetDefault("theme.color_work", theme.ColorWork)
	v.SetDefault("theme.color_break", theme.ColorBreak)
	v.SetDefault("theme.color_paused", theme.ColorPaused)
	v.SetDefault("theme.color_title", theme.ColorTitle)
	v.SetDefault("theme.color_done", theme.ColorDone)
	v.SetDefault("theme.color_overdue", theme.ColorOverdue)
	v.SetDefault("theme.color_help", theme.ColorHelp)
	v.SetDefault("theme.gradient_start", theme.GradientStart)
	v.SetDefault("theme.gradient_end", theme.GradientEnd)
	v.SetDefault("theme.icon_app", theme.IconApp)
	v.SetDefault("theme.icon_done", theme.IconDone)
	v.SetDefault("theme.icon_pending", theme.IconPending)
}
