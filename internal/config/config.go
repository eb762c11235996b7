// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Input device configuration
	Input InputConfig `mapstructure:"input"`

	// Display configuration
	Display DisplayConfig `mapstructure:"display"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// InputConfig contains input device settings
type InputConfig struct {
	MouseDevice    string `mapstructure:"mouse_device"`    // mousedev node, e.g. /dev/input/mouse0
	KeyboardDevice string `mapstructure:"keyboard_device"` // evdev node, e.g. /dev/input/event1
	ScrollMode     bool   `mapstructure:"scroll_mode"`     // Switch the mouse to 4-byte IMPS/2 reports
	KeyboardLayout string `mapstructure:"keyboard_layout"` // "us" or "fr"
}

// DisplayConfig contains presentation surface settings
type DisplayConfig struct {
	DisplayID int `mapstructure:"display_id"` // 0 is the main LCD/HDMI output
	Layer     int `mapstructure:"layer"`
	FPS       int `mapstructure:"fps"` // 0 disables frame pacing
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	FileLogging bool   `mapstructure:"file_logging"` // Enable/disable file logging
	LogLevel    string `mapstructure:"log_level"`    // Override EGLPI_LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Input: InputConfig{
			MouseDevice:    "/dev/input/mouse0",
			KeyboardDevice: "/dev/input/event1",
			ScrollMode:     true,
			KeyboardLayout: "us",
		},
		Display: DisplayConfig{
			DisplayID: 0,
			Layer:     0,
			FPS:       60,
		},
		Logging: LoggingConfig{
			FileLogging: false,
			LogLevel:    "", // Empty means use EGLPI_LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("eglpi")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// Add config paths in order of precedence
		viper.AddConfigPath("/etc/eglpi")

		// If running with sudo, try the real user's config
		if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
			viper.AddConfigPath(fmt.Sprintf("/home/%s/.config/eglpi", sudoUser))
		} else if home := os.Getenv("HOME"); home != "" && home != "/root" {
			viper.AddConfigPath(filepath.Join(home, ".config", "eglpi"))
		}

		viper.AddConfigPath(".")
	}

	// EGLPI_INPUT_MOUSE_DEVICE and friends
	viper.SetEnvPrefix("eglpi")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg.Validate()
}

// setDefaults registers every field individually so partial files merge properly
func setDefaults() {
	viper.SetDefault("input.mouse_device", DefaultConfig.Input.MouseDevice)
	viper.SetDefault("input.keyboard_device", DefaultConfig.Input.KeyboardDevice)
	viper.SetDefault("input.scroll_mode", DefaultConfig.Input.ScrollMode)
	viper.SetDefault("input.keyboard_layout", DefaultConfig.Input.KeyboardLayout)

	viper.SetDefault("display.display_id", DefaultConfig.Display.DisplayID)
	viper.SetDefault("display.layer", DefaultConfig.Display.Layer)
	viper.SetDefault("display.fps", DefaultConfig.Display.FPS)

	viper.SetDefault("logging.file_logging", DefaultConfig.Logging.FileLogging)
	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
}

// Validate rejects values the input and display layers cannot work with
func (c *Config) Validate() error {
	switch c.Input.KeyboardLayout {
	case "", "us", "fr":
	default:
		return fmt.Errorf("unsupported keyboard layout %q (want us or fr)", c.Input.KeyboardLayout)
	}
	if c.Display.DisplayID < 0 {
		return fmt.Errorf("display_id must not be negative, got %d", c.Display.DisplayID)
	}
	if c.Display.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %d", c.Display.FPS)
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		c := DefaultConfig
		return &c
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	// Root usually means a kiosk-style system install
	if os.Getuid() == 0 || os.Getenv("SUDO_USER") != "" {
		return "/etc/eglpi/eglpi.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/eglpi/eglpi.toml"
	}

	return filepath.Join(home, ".config", "eglpi", "eglpi.toml")
}

// SetInputDevices updates the device paths in memory and in viper, ready for Save
func SetInputDevices(mousePath, keyboardPath string) {
	c := Get()
	c.Input.MouseDevice = mousePath
	c.Input.KeyboardDevice = keyboardPath
	cfg = c
	viper.Set("input.mouse_device", mousePath)
	viper.Set("input.keyboard_device", keyboardPath)
}
