package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Layers LayersConfig      `yaml:"layers"`
	Device DeviceConfig      `yaml:"device"`
	Input  InputConfig       `yaml:"input"`
	Focus  FocusConfig       `yaml:"focus"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Layers.Validate(); err != nil {
		return err
	}
	if err := c.Device.Validate(); err != nil {
		return err
	}
	return c.Input.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel   slog.Level `yaml:"log_level"`
	UinputPath string     `yaml:"uinput_path"`
}

// LayersConfig holds the path to the layer definition file.
type LayersConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the layers configuration.
func (c *LayersConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// DeviceConfig identifies the pad's HID interfaces and tunes the bridge.
type DeviceConfig struct {
	VendorID        uint16 `yaml:"vendor_id"`
	ProductID       uint16 `yaml:"product_id"`
	QueueSize       int    `yaml:"queue_size"`
	RetryIntervalMs int    `yaml:"retry_interval_ms"`
}

// Validate validates the device configuration.
func (c *DeviceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.VendorID, validation.Required),
		validation.Field(&c.ProductID, validation.Required),
		validation.Field(&c.QueueSize, validation.Min(1)),
		validation.Field(&c.RetryIntervalMs, validation.Min(10)),
	)
}

// InputConfig names the pad's keyboard interface as it appears in
// /proc/bus/input/devices. With Grab set the F-keys are consumed
// exclusively and never reach other applications.
type InputConfig struct {
	DeviceName string `yaml:"device_name"`
	Grab       bool   `yaml:"grab"`
}

// Validate validates the input configuration.
func (c *InputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DeviceName, validation.Required),
	)
}

// FocusConfig controls compositor integration. Disabled, the router only
// ever stacks the base layer and activateWindow actions launch directly.
type FocusConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:   slog.LevelInfo,
			UinputPath: "/dev/uinput",
		},
		Layers: LayersConfig{
			Path: "./layers.yaml",
		},
		Device: DeviceConfig{
			VendorID:        0x2E8A,
			ProductID:       0xFFEE,
			QueueSize:       6,
			RetryIntervalMs: 1000,
		},
		Input: InputConfig{
			DeviceName: "macropad",
			Grab:       true,
		},
		Focus: FocusConfig{
			Enabled: true,
		},
	}
}
