// internal/config/config.go
//
// This package handles configuration and the powercalc home directory.
// The home holds config.yaml and the logs/ folder used by the logbook.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/wire"
)

const (
	// HomeEnv overrides the directory that holds config.yaml and logs/.
	HomeEnv = "POWERCALC_HOME"

	appDirName     = "powercalc"
	configFileName = "config.yaml"
)

const defaultConfigYAML = `# powercalc configuration
version: 1

# Significant digits used when rendering results.
precision:
  default: 4
  power_factor: 2
  wire_resistance: 5
  drop_volts: 3
  drop_percent: 2

# Values restored by the clear action. The power factor is only shown as a
# hint; it is never used as a known value.
defaults:
  three_phase_voltage: 380
  single_phase_voltage: 220
  power_factor: 1.0

# Conductor resistivities in ohm-metres. The first entry is the reset choice.
materials:
  - name: Copper
    resistivity: 1.68e-8
  - name: Aluminum
    resistivity: 2.65e-8

voltage_drop:
  notice_percent: 3
  warning_percent: 5
`

// PrecisionConfig sets significant digits per rendered field.
type PrecisionConfig struct {
	Default        int `yaml:"default" validate:"gte=1,lte=15"`
	PowerFactor    int `yaml:"power_factor" validate:"gte=1,lte=15"`
	WireResistance int `yaml:"wire_resistance" validate:"gte=1,lte=15"`
	DropVolts      int `yaml:"drop_volts" validate:"gte=1,lte=15"`
	DropPercent    int `yaml:"drop_percent" validate:"gte=1,lte=15"`
}

// DefaultsConfig holds caller-side defaults. The resolvers never see these
// unless a form copies them into a field.
type DefaultsConfig struct {
	ThreePhaseVoltage  float64 `yaml:"three_phase_voltage" validate:"gt=0"`
	SinglePhaseVoltage float64 `yaml:"single_phase_voltage" validate:"gt=0"`
	PowerFactor        float64 `yaml:"power_factor" validate:"gte=0,lte=1"`
}

// VoltageDropConfig captures the advisory thresholds.
type VoltageDropConfig struct {
	NoticePercent  float64 `yaml:"notice_percent" validate:"gt=0"`
	WarningPercent float64 `yaml:"warning_percent" validate:"gtfield=NoticePercent"`
}

// Settings models config.yaml.
type Settings struct {
	Version     int               `yaml:"version" validate:"gte=1"`
	Precision   PrecisionConfig   `yaml:"precision"`
	Defaults    DefaultsConfig    `yaml:"defaults"`
	Materials   []wire.Material   `yaml:"materials" validate:"min=1,dive"`
	VoltageDrop VoltageDropConfig `yaml:"voltage_drop"`
}

// Config holds the runtime configuration for powercalc.
type Config struct {
	// Home is the directory holding config.yaml and logs/
	Home string

	Settings Settings
}

var validate = validator.New()

// Home resolves the powercalc home directory: $POWERCALC_HOME when set,
// otherwise <user config dir>/powercalc.
func Home() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return filepath.Clean(home), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// InitDir creates the home directory structure and writes a commented
// default config.yaml when none exists.
//
// Structure created:
// <home>/
// ├── config.yaml
// └── logs/
func InitDir(home string) error {
	if err := os.MkdirAll(filepath.Join(home, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure home: %w", err)
	}
	return ensureConfigFile(filepath.Join(home, configFileName))
}

// Load resolves the home directory, initializes it and parses the config.
func Load() (*Config, error) {
	home, err := Home()
	if err != nil {
		return nil, err
	}
	if err := InitDir(home); err != nil {
		return nil, err
	}
	return NewConfig(home)
}

// NewConfig creates a Config for home, reading config.yaml when present.
func NewConfig(home string) (*Config, error) {
	cfg := &Config{
		Home:     home,
		Settings: defaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Home, configFileName)
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Home, "logs")
}

// HistoryPath returns the calculation history log file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.LogsDir(), "calculations.log")
}

// Limits returns the voltage drop advisory thresholds.
func (c *Config) Limits() wire.Limits {
	return wire.Limits{
		NoticePercent:  c.Settings.VoltageDrop.NoticePercent,
		WarningPercent: c.Settings.VoltageDrop.WarningPercent,
	}
}

// Materials returns the configured conductor list.
func (c *Config) Materials() []wire.Material {
	return c.Settings.Materials
}

// Precision returns the default number of significant digits.
func (c *Config) Precision() int {
	return c.Settings.Precision.Default
}

// SetPrecision updates the default significant digits and persists the value
// back to config.yaml.
func (c *Config) SetPrecision(digits int) error {
	if digits < 1 {
		return fmt.Errorf("config: precision must be >= 1")
	}
	c.Settings.Precision.Default = digits
	return c.saveSettings()
}

func (c *Config) loadSettings() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Settings = parsed
	return nil
}

func defaultSettings() Settings {
	s := Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Version == 0 {
		s.Version = 1
	}
	p := &s.Precision
	if p.Default == 0 {
		p.Default = format.DefaultPrecision
	}
	if p.PowerFactor == 0 {
		p.PowerFactor = 2
	}
	if p.WireResistance == 0 {
		p.WireResistance = 5
	}
	if p.DropVolts == 0 {
		p.DropVolts = 3
	}
	if p.DropPercent == 0 {
		p.DropPercent = 2
	}
	if s.Defaults.ThreePhaseVoltage == 0 {
		s.Defaults.ThreePhaseVoltage = 380
	}
	if s.Defaults.SinglePhaseVoltage == 0 {
		s.Defaults.SinglePhaseVoltage = 220
	}
	if s.Defaults.PowerFactor == 0 {
		s.Defaults.PowerFactor = 1
	}
	if len(s.Materials) == 0 {
		s.Materials = append([]wire.Material(nil), wire.DefaultMaterials...)
	}
	if s.VoltageDrop.NoticePercent == 0 {
		s.VoltageDrop.NoticePercent = wire.DefaultLimits.NoticePercent
	}
	if s.VoltageDrop.WarningPercent == 0 {
		s.VoltageDrop.WarningPercent = wire.DefaultLimits.WarningPercent
	}
}

func (s *Settings) normalize() {
	for i := range s.Materials {
		s.Materials[i].Name = strings.TrimSpace(s.Materials[i].Name)
	}
}

func (s *Settings) validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s fails %q (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}
	seen := map[string]struct{}{}
	for i, m := range s.Materials {
		key := strings.ToLower(m.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("materials[%d]: duplicate name %q", i, m.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func (c *Config) saveSettings() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Settings.applyDefaults()
	c.Settings.normalize()
	if err := c.Settings.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.Home, 0o755); err != nil {
		return fmt.Errorf("config: ensure home: %w", err)
	}
	data, err := yaml.Marshal(c.Settings)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
