package modes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/powercalc/internal/quantity"
)

const (
	labelWidth = 22
	inputWidth = 18
)

var (
	labelStyle        = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("#CCCCCC"))
	focusedLabelStyle = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	outputLabelStyle  = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("#999999"))
	outputValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	derivedValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	unitStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type fieldKind int

const (
	kindInput fieldKind = iota
	kindOutput
	kindChoice
)

// Field is one labelled row of a form: a text input, a read-only output or
// a cycling choice.
type Field struct {
	Key   string
	Label string
	Unit  string

	kind    fieldKind
	hidden  bool
	derived bool
	input   textinput.Model
	choices []string
	choice  int
}

// NewInput builds an editable numeric field.
func NewInput(key, label, unit, placeholder string) *Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 32
	ti.Width = inputWidth
	ti.Prompt = ""
	return &Field{Key: key, Label: label, Unit: unit, kind: kindInput, input: ti}
}

// NewOutput builds a read-only result field.
func NewOutput(key, label, unit string) *Field {
	f := NewInput(key, label, unit, "")
	f.kind = kindOutput
	return f
}

// NewChoice builds a field that cycles through choices with left/right.
func NewChoice(key, label string, choices []string) *Field {
	return &Field{Key: key, Label: label, kind: kindChoice, choices: choices}
}

// Text returns the raw field text.
func (f *Field) Text() string {
	return f.input.Value()
}

// SetText replaces the text as if the user had typed it.
func (f *Field) SetText(s string) {
	f.input.SetValue(s)
	f.derived = false
}

// SetDerived writes a computed value. Derived text is ignored as input on
// the next calculation until the user edits it.
func (f *Field) SetDerived(s string) {
	f.input.SetValue(s)
	f.derived = true
}

// Clear empties the field.
func (f *Field) Clear() {
	f.input.SetValue("")
	f.derived = false
}

// IsDerived reports whether the current text came from a calculation.
func (f *Field) IsDerived() bool {
	return f.derived
}

// Value parses the text. Blank, unparseable and non-finite text is absent,
// never zero.
func (f *Field) Value() (float64, bool) {
	text := strings.TrimSpace(f.input.Value())
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !quantity.IsFinite(v) {
		return 0, false
	}
	return v, true
}

// Known is Value restricted to text the user supplied.
func (f *Field) Known() (float64, bool) {
	if f.derived {
		return 0, false
	}
	return f.Value()
}

// SetPlaceholder changes the hint shown in an empty input.
func (f *Field) SetPlaceholder(s string) {
	f.input.Placeholder = s
}

// Placeholder returns the current hint.
func (f *Field) Placeholder() string {
	return f.input.Placeholder
}

// Choice returns the selected index of a choice field.
func (f *Field) Choice() int {
	return f.choice
}

// ChoiceLabel returns the selected label of a choice field.
func (f *Field) ChoiceLabel() string {
	if f.choice < 0 || f.choice >= len(f.choices) {
		return ""
	}
	return f.choices[f.choice]
}

// SetChoice selects index i, wrapping around.
func (f *Field) SetChoice(i int) {
	n := len(f.choices)
	if n == 0 {
		f.choice = 0
		return
	}
	f.choice = ((i % n) + n) % n
}

// SetHidden toggles whether the field is shown and focusable.
func (f *Field) SetHidden(hidden bool) {
	f.hidden = hidden
}

// Hidden reports whether the field is hidden.
func (f *Field) Hidden() bool {
	return f.hidden
}

func (f *Field) focusable() bool {
	return f.kind != kindOutput && !f.hidden
}

// Form keeps an ordered set of fields and the focus position.
type Form struct {
	fields []*Field
	focus  int
}

// NewForm builds a form and focuses its first editable field.
func NewForm(fields ...*Field) *Form {
	f := &Form{fields: fields, focus: -1}
	f.focusFirst()
	return f
}

// Field returns the field registered under key, or nil.
func (f *Form) Field(key string) *Field {
	for _, fld := range f.fields {
		if fld.Key == key {
			return fld
		}
	}
	return nil
}

// Fields returns every field in display order.
func (f *Form) Fields() []*Field {
	return f.fields
}

// Focused returns the field holding focus, or nil.
func (f *Form) Focused() *Field {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return nil
	}
	return f.fields[f.focus]
}

// Next moves focus to the following editable field.
func (f *Form) Next() tea.Cmd {
	return f.move(1)
}

// Prev moves focus to the preceding editable field.
func (f *Form) Prev() tea.Cmd {
	return f.move(-1)
}

func (f *Form) focusFirst() tea.Cmd {
	f.blurCurrent()
	f.focus = -1
	for i, fld := range f.fields {
		if fld.focusable() {
			return f.focusAt(i)
		}
	}
	return nil
}

// Refocus keeps focus valid after fields were hidden.
func (f *Form) Refocus() tea.Cmd {
	if cur := f.Focused(); cur != nil && cur.focusable() {
		return nil
	}
	return f.focusFirst()
}

func (f *Form) move(delta int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	start := f.focus
	if start < 0 {
		start = 0
	}
	for step := 1; step <= n; step++ {
		i := ((start+delta*step)%n + n) % n
		if f.fields[i].focusable() {
			f.blurCurrent()
			return f.focusAt(i)
		}
	}
	return nil
}

func (f *Form) blurCurrent() {
	if cur := f.Focused(); cur != nil {
		cur.input.Blur()
	}
}

func (f *Form) focusAt(i int) tea.Cmd {
	f.focus = i
	fld := f.fields[i]
	if fld.kind == kindInput {
		return fld.input.Focus()
	}
	return nil
}

// Update routes navigation keys and forwards everything else to the focused
// input. Editing a derived value turns it back into user input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.Next()
		case "shift+tab", "up":
			return f.Prev()
		case "left", "right":
			if fld := f.Focused(); fld != nil && fld.kind == kindChoice {
				if key.String() == "left" {
					fld.SetChoice(fld.choice - 1)
				} else {
					fld.SetChoice(fld.choice + 1)
				}
				return nil
			}
		}
	}
	fld := f.Focused()
	if fld == nil || fld.kind != kindInput {
		return nil
	}
	before := fld.input.Value()
	var cmd tea.Cmd
	fld.input, cmd = fld.input.Update(msg)
	if fld.input.Value() != before {
		fld.derived = false
	}
	return cmd
}

// View renders one row per visible field.
func (f *Form) View() string {
	var rows []string
	for i, fld := range f.fields {
		if fld.hidden {
			continue
		}
		focused := i == f.focus
		label := labelStyle
		if focused {
			label = focusedLabelStyle
		}
		var value string
		switch fld.kind {
		case kindOutput:
			label = outputLabelStyle
			text := fld.input.Value()
			if text == "" {
				text = "—"
			}
			value = outputValueStyle.Render(text)
		case kindChoice:
			value = fmt.Sprintf("◀ %s ▶", fld.ChoiceLabel())
		default:
			if fld.derived && !focused {
				value = derivedValueStyle.Render(fld.input.Value())
			} else {
				value = fld.input.View()
			}
		}
		marker := "  "
		if focused {
			marker = "› "
		}
		row := marker + label.Render(fld.Label) + value
		if fld.Unit != "" {
			row += " " + unitStyle.Render(fld.Unit)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}
