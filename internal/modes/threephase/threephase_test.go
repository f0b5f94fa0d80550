package threephase

import (
	"strings"
	"testing"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/resolver"
)

func newTestMode(t *testing.T) *Mode {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	m := New()
	m.Init(&modes.ModeContext{Config: cfg, Registry: resolver.Builtin()})
	return m
}

func text(m *Mode, key string) string {
	return m.Form().Field(key).Text()
}

func TestDefaultsAfterInit(t *testing.T) {
	m := newTestMode(t)
	if got := text(m, "Vll"); got != "380" {
		t.Fatalf("expected default line voltage 380, got %q", got)
	}
	if got := m.Form().Field("PF").Placeholder(); got != "e.g., 1" {
		t.Fatalf("unexpected PF placeholder %q", got)
	}
	if got := text(m, "PF"); got != "" {
		t.Fatalf("power factor default must not be injected, got %q", got)
	}
}

func TestCalculateRealPower(t *testing.T) {
	m := newTestMode(t)
	m.Form().Field("Vll").SetText("400")
	m.Form().Field("Il").SetText("10")
	m.Form().Field("PF").SetText("0.8")
	m.Calculate()
	if m.StatusKind() != modes.StatusSuccess {
		t.Fatalf("expected success, got %q", m.StatusMsg())
	}
	if got := text(m, "Pkw"); got != "5.543" {
		t.Fatalf("expected Pkw=5.543, got %q", got)
	}
	if got := text(m, "Skva"); got != "6.928" {
		t.Fatalf("expected Skva=6.928, got %q", got)
	}
	want := "Calculation complete. Calculation based on: Line Voltage, Line Current, Power Factor."
	if m.StatusMsg() != want {
		t.Fatalf("unexpected status %q", m.StatusMsg())
	}
}

func TestDerivedPowerFactorUsesOwnPrecision(t *testing.T) {
	m := newTestMode(t)
	m.Form().Field("Vll").SetText("400")
	m.Form().Field("Il").SetText("10")
	m.Form().Field("Pkw").SetText("5.5")
	m.Calculate()
	if m.StatusKind() != modes.StatusSuccess {
		t.Fatalf("expected success, got %q", m.StatusMsg())
	}
	if got := text(m, "PF"); got != "0.79" {
		t.Fatalf("expected PF=0.79, got %q", got)
	}
}

func TestInvalidPowerFactorShowsReason(t *testing.T) {
	m := newTestMode(t)
	m.Form().Field("Il").SetText("10")
	m.Form().Field("PF").SetText("1.5")
	m.Calculate()
	if m.StatusKind() != modes.StatusError {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(m.StatusMsg(), "Calculation Error: ") {
		t.Fatalf("unexpected status %q", m.StatusMsg())
	}
	if text(m, "Skva") != "" || text(m, "Pkw") != "" {
		t.Fatalf("outputs must stay empty on failure")
	}
}

func TestResetRestoresVoltage(t *testing.T) {
	m := newTestMode(t)
	m.Form().Field("Vll").SetText("415")
	m.Form().Field("Il").SetText("10")
	m.Reset()
	if got := text(m, "Vll"); got != "380" {
		t.Fatalf("expected 380 after reset, got %q", got)
	}
	if got := text(m, "Il"); got != "" {
		t.Fatalf("expected current cleared, got %q", got)
	}
}
