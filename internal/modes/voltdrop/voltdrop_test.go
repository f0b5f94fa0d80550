package voltdrop

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/wire"
)

func newTestMode(t *testing.T) *Mode {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	m := New()
	m.Init(&modes.ModeContext{Config: cfg})
	return m
}

func fill(m *Mode, volts, amps, length, area string) {
	m.Form().Field(keyVolts).SetText(volts)
	m.Form().Field(keyCurrent).SetText(amps)
	m.Form().Field(keyLength).SetText(length)
	m.Form().Field(keyArea).SetText(area)
}

func TestPhaseChangesPlaceholder(t *testing.T) {
	m := newTestMode(t)
	if got := m.Form().Field(keyVolts).Placeholder(); got != "e.g., 220" {
		t.Fatalf("unexpected single-phase placeholder %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Phase() != wire.ThreePhase {
		t.Fatalf("expected three-phase after cycling")
	}
	if got := m.Form().Field(keyVolts).Placeholder(); got != "e.g., 380" {
		t.Fatalf("unexpected three-phase placeholder %q", got)
	}
}

func TestSinglePhaseDrop(t *testing.T) {
	m := newTestMode(t)
	fill(m, "220", "10", "30", "2.5")
	m.Calculate()
	if m.StatusKind() != modes.StatusSuccess {
		t.Fatalf("expected success, got %q", m.StatusMsg())
	}
	// R = 1.68e-8·30/2.5e-6 = 0.2016 Ω, Vd = 2·10·0.2016
	if got := m.Form().Field(keyDrop).Text(); got != "4.03" {
		t.Fatalf("expected 4.03 V, got %q", got)
	}
	if got := m.Form().Field(keyPercent).Text(); got != "1.8" {
		t.Fatalf("expected 1.8 %%, got %q", got)
	}
	if m.StatusMsg() != "Voltage Drop calculated." {
		t.Fatalf("unexpected status %q", m.StatusMsg())
	}
}

func TestLargeDropWarns(t *testing.T) {
	m := newTestMode(t)
	fill(m, "220", "32", "60", "1.5")
	m.Calculate()
	if m.StatusKind() != modes.StatusError {
		t.Fatalf("a drop over the warning limit should be highlighted")
	}
	if !strings.Contains(m.StatusMsg(), "Warning: Voltage drop exceeds typical 5% limit") {
		t.Fatalf("unexpected status %q", m.StatusMsg())
	}
	if m.Form().Field(keyDrop).Text() == "" {
		t.Fatalf("drop must still be shown with a warning")
	}
}

func TestInvalidInputClearsOutputs(t *testing.T) {
	m := newTestMode(t)
	fill(m, "220", "10", "30", "2.5")
	m.Calculate()
	m.Form().Field(keyVolts).SetText("0")
	m.Calculate()
	if m.StatusKind() != modes.StatusError {
		t.Fatalf("expected error")
	}
	if m.Form().Field(keyDrop).Text() != "" || m.Form().Field(keyPercent).Text() != "" {
		t.Fatalf("outputs must be cleared on failure")
	}
}

func TestResetRestoresSelections(t *testing.T) {
	m := newTestMode(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	fill(m, "380", "50", "100", "16")
	m.Reset()
	if m.Phase() != wire.SinglePhase {
		t.Fatalf("expected single-phase after reset")
	}
	if got := m.Form().Field(keyVolts).Placeholder(); got != "e.g., 220" {
		t.Fatalf("placeholder must follow reset phase, got %q", got)
	}
	if m.Form().Field(keyVolts).Text() != "" {
		t.Fatalf("values must be cleared")
	}
}
