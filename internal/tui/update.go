package tui

import (
	"errors"
	"fmt"

	"datepick/internal/calendar"
	"datepick/internal/picker"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case ExternalValueMsg:
		return m.applyExternal(msg.Text)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) applyExternal(text string) (tea.Model, tea.Cmd) {
	c := m.ctrl()
	t, ok := c.Mask().Parse(text)
	if !ok {
		return m, m.setFlash(fmt.Sprintf("bound value %q does not match %s", text, c.Mask()), true)
	}
	c.SetFromExternalValue(t)
	m.resetHover()
	m.syncFields()
	m.updatePlaceholder()
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.done, m.cancelled = true, true
		return m, tea.Quit
	}
	if m.showHelp {
		switch key {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch key {
	case "tab":
		return m.cycleFocus(1), nil
	case "shift+tab":
		return m.cycleFocus(-1), nil
	}

	switch m.focus {
	case focusInput:
		return m.updateInputKey(msg)
	case focusYear:
		return m.updateYearKey(msg)
	case focusMonth:
		return m.updateMonthKey(msg)
	default:
		return m.updateGridKey(msg)
	}
}

func (m Model) cycleFocus(dir int) Model {
	if m.focus == focusYear {
		m.commitYear()
	}
	m.focus = (m.focus + focus(dir) + focusCount) % focusCount
	m.applyFocus()
	if m.focus == focusInput {
		m.dateInput.CursorEnd()
	}
	m.syncFields()
	m.updatePlaceholder()
	return m
}

// commitYear applies the typed year, if it differs from the shown one.
func (m *Model) commitYear() {
	c := m.ctrl()
	st := c.State()
	y := parseIntDefault(m.yearInput.Value(), st.Year)
	if y < 1 {
		y = st.Year
	}
	y = calendar.ClampYear(y, c.System())
	if y != st.Year {
		c.SelectYear(calendar.Record{Day: 0, Month: st.Month, Year: y})
		m.clampHover()
	}
}

func (m Model) updateGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.ctrl()
	switch msg.String() {
	case "q", "esc":
		m.done = true
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "left", "h":
		m.moveHover(-1)
	case "right", "l":
		m.moveHover(1)
	case "up", "k":
		m.moveHover(-7)
	case "down", "j":
		m.moveHover(7)
	case "[", "pgup":
		c.StepMonth(-1, c.State())
		m.afterNavigate()
	case "]", "pgdown":
		c.StepMonth(1, c.State())
		m.afterNavigate()
	case "{":
		c.StepYear(-1, c.State())
		m.afterNavigate()
	case "}":
		c.StepYear(1, c.State())
		m.afterNavigate()
	case "t":
		today := calendar.FromInstant(m.now(), c.System())
		c.SelectYear(today)
		c.SelectMonth(today)
		m.hover = today.Day
	case "enter", " ":
		return m.selectHover()
	case "d":
		if m.rng == nil {
			return m.setHoverDay()
		}
		return m.selectHover()
	case "x":
		if m.rng != nil {
			m.rng.Clear()
		} else {
			c.Clear()
		}
		m.syncFields()
		return m, m.setFlash("cleared", false)
	case "y":
		return m.copyValue()
	case "s":
		if m.rng != nil {
			m.switchCursor(CursorStart)
		}
	case "e":
		if m.rng != nil {
			m.switchCursor(CursorEnd)
		}
	}
	m.syncFields()
	m.updatePlaceholder()
	return m, nil
}

// moveHover moves the grid cursor by delta days, paging the month when it
// leaves the shown one.
func (m *Model) moveHover(delta int) {
	c := m.ctrl()
	sys := c.System()
	h := m.hover + delta
	if h < 1 {
		c.StepMonth(-1, c.State())
		st := c.State()
		m.hover = calendar.MaxDay(st.Month, st.Year, sys) + h
		m.clampHover()
		return
	}
	st := c.State()
	if max := calendar.MaxDay(st.Month, st.Year, sys); h > max {
		c.StepMonth(1, st)
		m.hover = h - max
		m.clampHover()
		return
	}
	m.hover = h
}

func (m *Model) afterNavigate() {
	if st := m.ctrl().State(); st.HasDay() {
		m.hover = st.Day
	}
	m.clampHover()
}

func (m *Model) switchCursor(name string) {
	m.ctrl().SetPlaceholder(nil)
	m.active = name
	m.resetHover()
}

func (m Model) selectHover() (tea.Model, tea.Cmd) {
	c := m.ctrl()
	r := c.State().WithDay(m.hover)
	var cmd tea.Cmd
	switch {
	case m.rng == nil:
		if !c.Allowed(r) {
			cmd = m.disabledFlash(r)
			break
		}
		c.SelectDay(r)
	default:
		var err error
		if m.active == CursorEnd {
			err = m.rng.SelectEnd(r)
		} else {
			err = m.rng.SelectStart(r)
		}
		if err != nil {
			cmd = m.rejection(err)
			break
		}
		if m.active == CursorStart {
			if _, ok := m.rng.End.Value(); !ok {
				m.switchCursor(CursorEnd)
			}
		}
	}
	m.syncFields()
	m.updatePlaceholder()
	return m, cmd
}

// setHoverDay sets only the day of the shown month. It reports a day change,
// not a date change.
func (m Model) setHoverDay() (tea.Model, tea.Cmd) {
	c := m.ctrl()
	r := c.State().WithDay(m.hover)
	if !c.Allowed(r) {
		return m, m.disabledFlash(r)
	}
	c.SelectDayOnly(r)
	m.syncFields()
	m.updatePlaceholder()
	return m, nil
}

func (m *Model) disabledFlash(r calendar.Record) tea.Cmd {
	c := m.ctrl()
	t, err := c.Instant(r)
	if err != nil {
		return m.setFlash(err.Error(), true)
	}
	return m.setFlash(fmt.Sprintf("%s is disabled", c.Format(t)), true)
}

func (m *Model) rejection(err error) tea.Cmd {
	var rej *picker.RejectionError
	if errors.As(err, &rej) {
		return m.setFlash(rej.Error(), true)
	}
	return m.setFlash(err.Error(), true)
}

func (m Model) copyValue() (tea.Model, tea.Cmd) {
	v := m.ctrl().DisplayValue()
	if m.rng != nil {
		if res := m.Result(); res.Selected {
			v = res.Formatted
		}
	}
	if v == "" {
		return m, m.setFlash("nothing to copy", true)
	}
	if err := m.copyText(v); err != nil {
		return m, m.setFlash("copy failed: "+err.Error(), true)
	}
	return m, m.setFlash("copied "+v, false)
}

func (m Model) updateYearKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.ctrl()
	switch msg.String() {
	case "up", "+":
		m.commitYear()
		c.StepYear(1, c.State())
		m.afterNavigate()
		m.yearInput.SetValue(fmtYear(c.State().Year))
		return m, nil
	case "down", "-":
		m.commitYear()
		c.StepYear(-1, c.State())
		m.afterNavigate()
		m.yearInput.SetValue(fmtYear(c.State().Year))
		return m, nil
	case "enter":
		m.commitYear()
		m.yearInput.SetValue(fmtYear(c.State().Year))
		return m, nil
	case "esc":
		m.yearInput.SetValue(fmtYear(c.State().Year))
		m.focus = focusGrid
		m.applyFocus()
		m.updatePlaceholder()
		return m, nil
	}
	var cmd tea.Cmd
	m.yearInput, cmd = m.yearInput.Update(msg)
	return m, cmd
}

func (m Model) updateMonthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.ctrl()
	switch msg.String() {
	case "up", "right", "+", "l", "k":
		c.StepMonth(1, c.State())
		m.afterNavigate()
	case "down", "left", "-", "h", "j":
		c.StepMonth(-1, c.State())
		m.afterNavigate()
	case "esc", "enter":
		m.focus = focusGrid
		m.applyFocus()
		m.updatePlaceholder()
	}
	m.syncFields()
	return m, nil
}

func (m Model) updateInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.ctrl()
	switch msg.String() {
	case "enter":
		raw := m.dateInput.Value()
		var cmd tea.Cmd
		switch {
		case m.rng == nil:
			if t, ok := c.Mask().Parse(raw); ok && !c.Allowed(calendar.FromInstant(t, c.System())) {
				cmd = m.setFlash(fmt.Sprintf("%s is disabled", c.Format(t)), true)
				break
			}
			if !c.OnTextInput(raw) {
				cmd = m.setFlash(fmt.Sprintf("%q does not match %s", raw, c.Mask()), true)
			}
		case m.active == CursorEnd:
			cmd = m.textRejection(raw, m.rng.EndTextInput(raw))
		default:
			cmd = m.textRejection(raw, m.rng.StartTextInput(raw))
		}
		m.dateInput.SetValue(c.DisplayValue())
		m.dateInput.CursorEnd()
		m.resetHover()
		return m, cmd
	case "esc":
		m.dateInput.SetValue(c.DisplayValue())
		m.focus = focusGrid
		m.applyFocus()
		m.updatePlaceholder()
		return m, nil
	}
	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	return m, cmd
}

func (m *Model) textRejection(raw string, err error) tea.Cmd {
	if err != nil {
		return m.rejection(err)
	}
	if m.ctrl().Input() != raw {
		return m.setFlash(fmt.Sprintf("%q does not match %s", raw, m.ctrl().Mask()), true)
	}
	return nil
}
