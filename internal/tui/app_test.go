package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/logbook"
	"github.com/kingrea/powercalc/internal/modes/ohm"
)

func newTestApp(t *testing.T) (*App, *config.Config, *logbook.Logbook) {
	t.Helper()
	home := t.TempDir()
	if err := config.InitDir(home); err != nil {
		t.Fatalf("init home: %v", err)
	}
	cfg, err := config.NewConfig(home)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	lb, err := logbook.New(filepath.Join(home, "logs", "calculations.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	return NewApp(cfg, WithLogbook(lb)), cfg, lb
}

func press(t *testing.T, app *App, msg tea.KeyMsg) (*App, tea.Cmd) {
	t.Helper()
	model, cmd := app.Update(msg)
	next, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return next, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEnterOpensSelectedCalculator(t *testing.T) {
	app, _, _ := newTestApp(t)
	app, _ = press(t, app, key("enter"))
	if app.Active() == nil || app.Active().Name() != "Ohm's Law" {
		t.Fatalf("expected Ohm's Law to open, got %v", app.Active())
	}
	app, _ = press(t, app, key("esc"))
	if app.Active() != nil {
		t.Fatalf("esc must return to the menu")
	}
}

func TestCalculatorSwitchingKeepsValues(t *testing.T) {
	app, _, _ := newTestApp(t)
	app, _ = press(t, app, key("enter"))
	app, _ = press(t, app, key("12"))
	mode := app.Active().(*ohm.Mode)
	if got := mode.Form().Field("V").Text(); got != "12" {
		t.Fatalf("typed text must reach the focused field, got %q", got)
	}

	app, _ = press(t, app, key("ctrl+n"))
	if got := app.Active().Name(); got != "Three-Phase Power" {
		t.Fatalf("ctrl+n should open the next calculator, got %s", got)
	}
	app, _ = press(t, app, key("ctrl+p"))
	app, _ = press(t, app, key("ctrl+p"))
	if got := app.Active().Name(); got != "Voltage Drop" {
		t.Fatalf("ctrl+p should wrap to the last calculator, got %s", got)
	}
	app, _ = press(t, app, key("ctrl+n"))
	if got := mode.Form().Field("V").Text(); got != "12" {
		t.Fatalf("switching must keep field values, got %q", got)
	}
}

func TestEnterCalculatesAndLogs(t *testing.T) {
	app, _, lb := newTestApp(t)
	app, _ = press(t, app, key("enter"))
	mode := app.Active().(*ohm.Mode)
	mode.Form().Field("V").SetText("10")
	mode.Form().Field("I").SetText("2")
	app, _ = press(t, app, key("enter"))
	if got := mode.Form().Field("R").Text(); got != "5" {
		t.Fatalf("expected R=5 after enter, got %q", got)
	}
	lines, _ := lb.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "Ohm's Law · V=10 I=2 → R=5 P=20") {
		t.Fatalf("expected calculation in history, got %v", lines)
	}
	if !strings.Contains(app.View(), "History") {
		t.Fatalf("view should include the history panel")
	}

	app, _ = press(t, app, key("ctrl+r"))
	if mode.Form().Field("V").Text() != "" {
		t.Fatalf("ctrl+r must clear the calculator")
	}
}

func TestQuitKeys(t *testing.T) {
	app, _, _ := newTestApp(t)
	if _, cmd := press(t, app, key("q")); !isQuit(cmd) {
		t.Fatalf("q at the menu should quit")
	}
	app, _ = press(t, app, key("enter"))
	if _, cmd := press(t, app, key("q")); isQuit(cmd) {
		t.Fatalf("q inside a calculator is text input")
	}
	if _, cmd := press(t, app, key("ctrl+c")); !isQuit(cmd) {
		t.Fatalf("ctrl+c should always quit")
	}
}

func TestPrecisionKeysPersist(t *testing.T) {
	app, cfg, _ := newTestApp(t)
	press(t, app, key("+"))
	if cfg.Precision() != 5 {
		t.Fatalf("expected precision 5, got %d", cfg.Precision())
	}
	reloaded, err := config.NewConfig(cfg.Home)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Precision() != 5 {
		t.Fatalf("precision must be saved, got %d", reloaded.Precision())
	}
}

func TestMenuListsCalculatorsAndExit(t *testing.T) {
	items := buildMainMenu(DefaultModes())
	if len(items) != 5 {
		t.Fatalf("expected 4 calculators plus exit, got %d", len(items))
	}
	last, ok := items[len(items)-1].(menuItem)
	if !ok || last.title != exitTitle {
		t.Fatalf("exit must be last, got %+v", items[len(items)-1])
	}
}
