package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type focus int

const (
	focusGrid focus = iota
	focusYear
	focusMonth
	focusInput
	focusCount
)

func (f focus) String() string {
	switch f {
	case focusYear:
		return "year"
	case focusMonth:
		return "month"
	case focusInput:
		return "input"
	default:
		return "days"
	}
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func fmtYear(y int) string {
	if y < 0 {
		y = 0
	}
	s := strconv.Itoa(y)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}

func newYearInput() textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 4
	in.Width = 4
	in.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return strconv.ErrSyntax
			}
		}
		return nil
	}
	return in
}

func newDateInput(mask string) textinput.Model {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = mask
	in.CharLimit = 64
	return in
}

func (m *Model) applyFocus() {
	m.yearInput.Blur()
	m.dateInput.Blur()
	switch m.focus {
	case focusYear:
		m.yearInput.Focus()
	case focusInput:
		m.dateInput.Focus()
	}
}

// syncFields refreshes unfocused text fields from the active controller.
func (m *Model) syncFields() {
	c := m.ctrl()
	if m.focus != focusYear {
		m.yearInput.SetValue(fmtYear(c.State().Year))
	}
	if m.focus != focusInput {
		m.dateInput.SetValue(c.DisplayValue())
	}
}
