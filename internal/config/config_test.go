package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	c, err := NewConfig(home)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Settings.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Settings.Version)
	}
	if c.Precision() != 4 {
		t.Fatalf("expected default precision 4, got %d", c.Precision())
	}
	if c.Settings.Defaults.ThreePhaseVoltage != 380 {
		t.Fatalf("expected three-phase default 380, got %v", c.Settings.Defaults.ThreePhaseVoltage)
	}
	if len(c.Materials()) != 2 || c.Materials()[0].Name != "Copper" {
		t.Fatalf("unexpected default materials %+v", c.Materials())
	}
}

func TestInitDirWritesDefaultConfig(t *testing.T) {
	home := filepath.Join(t.TempDir(), "powercalc")
	if err := InitDir(home); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	c, err := NewConfig(home)
	if err != nil {
		t.Fatalf("default config must parse: %v", err)
	}
	if got := c.Limits(); got.NoticePercent != 3 || got.WarningPercent != 5 {
		t.Fatalf("unexpected limits %+v", got)
	}
	if c.Settings.Precision.PowerFactor != 2 {
		t.Fatalf("expected PF precision 2, got %d", c.Settings.Precision.PowerFactor)
	}
}

func TestLoadSettingsParsesYaml(t *testing.T) {
	home := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
precision:
  default: 6
defaults:
  three_phase_voltage: 415
materials:
  - name: "  Silver "
    resistivity: 1.59e-8
voltage_drop:
  notice_percent: 2
  warning_percent: 4
`)
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(home)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Precision() != 6 {
		t.Fatalf("precision = %d, want 6", c.Precision())
	}
	if c.Settings.Precision.WireResistance != 5 {
		t.Fatalf("unset precision fields should default, got %d", c.Settings.Precision.WireResistance)
	}
	if c.Settings.Defaults.ThreePhaseVoltage != 415 {
		t.Fatalf("three-phase default = %v", c.Settings.Defaults.ThreePhaseVoltage)
	}
	if len(c.Materials()) != 1 || c.Materials()[0].Name != "Silver" {
		t.Fatalf("materials not normalized: %+v", c.Materials())
	}
	if c.Limits().WarningPercent != 4 {
		t.Fatalf("warning percent = %v", c.Limits().WarningPercent)
	}
}

func TestLoadSettingsValidation(t *testing.T) {
	cases := map[string]string{
		"pf out of range": `
defaults:
  power_factor: 1.5
`,
		"warning below notice": `
voltage_drop:
  notice_percent: 5
  warning_percent: 3
`,
		"negative resistivity": `
materials:
  - name: Copper
    resistivity: -1
`,
		"duplicate material": `
materials:
  - name: Copper
    resistivity: 1.68e-8
  - name: copper
    resistivity: 1.7e-8
`,
		"unnamed material": `
materials:
  - resistivity: 1.68e-8
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := NewConfig(home); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestSetPrecisionPersists(t *testing.T) {
	home := t.TempDir()
	c, err := NewConfig(home)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetPrecision(5); err != nil {
		t.Fatalf("SetPrecision: %v", err)
	}
	reloaded, err := NewConfig(home)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Precision() != 5 {
		t.Fatalf("precision after reload = %d, want 5", reloaded.Precision())
	}
	if err := c.SetPrecision(0); err == nil {
		t.Fatalf("expected error for zero precision")
	}
}

func TestHomeHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	got, err := Home()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Clean(dir) {
		t.Fatalf("Home() = %s, want %s", got, dir)
	}
}
