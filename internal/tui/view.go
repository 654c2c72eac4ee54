package tui

import (
	"strconv"
	"strings"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/docs"
	"datepick/internal/picker"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const cellWidth = 4

func (m Model) View() string {
	if m.done {
		return ""
	}
	if m.showHelp {
		return m.viewHelp()
	}

	var blocks []string
	if m.rng != nil {
		blocks = append(blocks, m.viewRangeSummary())
	}
	blocks = append(blocks,
		m.viewHeader(),
		m.viewGrid(),
		m.viewInput(),
		m.viewStatus(),
		styleMuted().Render("tab: focus  enter: select  [ ]: month  { }: year  y: copy  ?: help  q: done"),
	)
	return strings.Join(blocks, "\n\n")
}

func (m Model) bodyWidth() int {
	w := 7 * cellWidth
	if m.width > 0 && m.width < w {
		return m.width
	}
	return w
}

func (m Model) viewHeader() string {
	c := m.ctrl()
	st := c.State()

	field := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	active := field.Foreground(colorAccentFg).Background(colorAccent).Bold(true)

	month := c.Months().Name(st.Month)
	if month == "" {
		month = strconv.Itoa(st.Month)
	}
	monthStyle, yearStyle := field, field
	if m.focus == focusMonth {
		monthStyle = active
	}
	if m.focus == focusYear {
		yearStyle = active
	}
	year := m.digits(fmtYear(st.Year))
	if m.focus == focusYear {
		year = m.yearInput.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, "‹ ", monthStyle.Render(month), " ", yearStyle.Render(year), " ›")
}

func (m Model) viewGrid() string {
	c := m.ctrl()
	st := c.State()
	sys := c.System()

	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)
	var b strings.Builder
	for _, lbl := range m.lang.WeekdayLabels() {
		b.WriteString(styleMuted().Width(cellWidth).Align(lipgloss.Right).Render(lbl))
	}

	first, days := calendar.MonthLayout(st, sys)
	offset := (int(first) - int(m.lang.WeekStart()) + 7) % 7
	today := calendar.FromInstant(m.now(), sys)
	spanLo, spanHi, hasSpan := m.span()

	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", offset*cellWidth))
	col := offset
	for d := 1; d <= days; d++ {
		r := st.WithDay(d)
		t := calendar.MustInstant(r, sys)
		style := cell
		switch {
		case !c.Allowed(r):
			style = style.Foreground(colorMuted).Strikethrough(true)
		case m.isSelected(r):
			style = style.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
		case hasSpan && !t.Before(spanLo) && !t.After(spanHi):
			style = style.Background(colorSpanBg)
		}
		if r == today {
			style = style.Underline(true)
		}
		if d == m.hover && m.focus == focusGrid {
			style = style.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Reverse(true)
		}
		b.WriteString(style.Render(m.digits(strconv.Itoa(d))))
		col++
		if col == 7 && d < days {
			b.WriteString("\n")
			col = 0
		}
	}
	return b.String()
}

// isSelected reports whether r is the committed day of any cursor.
func (m Model) isSelected(r calendar.Record) bool {
	if m.rng == nil {
		return m.single.Cache() == r
	}
	return m.rng.Start.Cache() == r || m.rng.End.Cache() == r
}

func (m Model) span() (lo, hi time.Time, ok bool) {
	if m.rng == nil {
		return time.Time{}, time.Time{}, false
	}
	return m.rng.Value()
}

func (m Model) viewRangeSummary() string {
	label := func(name string, c *picker.Controller) string {
		v := "-"
		if t, ok := c.Value(); ok {
			v = c.Format(t)
		}
		st := lipgloss.NewStyle().Padding(0, 1)
		if m.active == name {
			st = st.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
		}
		return st.Render(name + ": " + v)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label(CursorStart, m.rng.Start), " ", label(CursorEnd, m.rng.End))
}

func (m Model) viewInput() string {
	bodyW := m.bodyWidth()
	view := m.dateInput.View()
	if m.focus != focusInput {
		v := m.ctrl().DisplayValue()
		if v == "" {
			v = styleMuted().Render(m.ctrl().Mask().String())
		}
		view = "› " + v
	}
	return renderInputLine(bodyW, view)
}

func (m Model) viewStatus() string {
	if m.flash != "" {
		st := lipgloss.NewStyle().Foreground(colorChromeFg)
		if m.flashErr {
			st = st.Foreground(colorError)
		}
		return st.Render(m.flash)
	}
	if p := m.ctrl().Placeholder(); p != "" {
		return styleMuted().Render(p)
	}
	return styleMuted().Render(m.focus.String())
}

func (m Model) viewHelp() string {
	body, _ := docs.Get("keys")
	w := m.width
	if w <= 0 {
		w = 80
	}
	return docs.Render(body, w-2, markdownStyle()) + "\n\n" + styleMuted().Render("?/esc: close")
}

func (m Model) digits(s string) string {
	if m.opts.PersianDigits {
		return calendar.ToPersianDigits(s)
	}
	return s
}

// renderInputLine keeps a text field on one visual line of exactly bodyW cells.
func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		inputView,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
