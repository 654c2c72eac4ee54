// Package tui is the interactive terminal host for the picker controllers.
package tui

import (
	"strconv"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/disabled"
	"datepick/internal/locale"
	"datepick/internal/picker"
	"datepick/internal/store"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Cursor names.
const (
	CursorSingle = "single"
	CursorStart  = "start"
	CursorEnd    = "end"
)

// Event is a controller notification or a refused action, surfaced to the
// host for logging.
type Event struct {
	Kind  string
	Value string
}

// Options configure a picker session.
type Options struct {
	Language      locale.Language
	Mask          string
	PersianDigits bool
	Disabled      disabled.Predicate
	Theme         string

	// Range selects the start/end picker.
	Range bool

	// Value is the externally owned value; it hydrates without notifying.
	// Default only positions the calendar.
	Value   time.Time
	Default time.Time

	StartValue, EndValue     time.Time
	StartDefault, EndDefault time.Time

	Now func() time.Time

	// Notify receives controller notifications. Optional.
	Notify func(Event)
}

// Result is what the session ended with.
type Result struct {
	Kind      string          `json:"kind"`
	Calendar  calendar.System `json:"-"`
	Start     time.Time       `json:"start"`
	End       *time.Time      `json:"end,omitempty"`
	Formatted string          `json:"formatted"`
	Selected  bool            `json:"selected"`
	Cancelled bool            `json:"cancelled"`

	Positions map[string]store.Position `json:"-"`
}

type flashDoneMsg struct{ seq int }

// ExternalValueMsg delivers a new externally owned value (e.g. a bound file).
type ExternalValueMsg struct{ Text string }

// Model is the bubbletea model.
type Model struct {
	opts Options
	lang locale.Language
	now  func() time.Time

	single *picker.Controller
	rng    *picker.Range
	active string

	focus     focus
	hover     int
	yearInput textinput.Model
	dateInput textinput.Model

	showHelp bool
	flash    string
	flashErr bool
	flashSeq int

	width  int
	height int

	done      bool
	cancelled bool

	copyText func(string) error
}

// New builds the model and hydrates it from opts.
func New(opts Options) (Model, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := Model{opts: opts, lang: opts.Language, now: now, copyText: clipboard.WriteAll}

	base := picker.Options{
		Language:      opts.Language,
		Mask:          opts.Mask,
		PersianDigits: opts.PersianDigits,
		Disabled:      opts.Disabled,
		Now:           now,
		Callbacks:     m.callbacks(),
	}
	if opts.Range {
		var rng *picker.Range
		rng, err := picker.NewRange(picker.RangeOptions{
			Options:      base,
			StartDefault: opts.StartDefault,
			EndDefault:   opts.EndDefault,
			OnRangeChange: func(s, e time.Time) {
				if opts.Notify != nil {
					opts.Notify(Event{Kind: "range", Value: rng.Start.Format(s) + ".." + rng.End.Format(e)})
				}
			},
		})
		if err != nil {
			return Model{}, err
		}
		rng.Start.SetFromExternalValue(opts.StartValue)
		rng.End.SetFromExternalValue(opts.EndValue)
		m.rng = rng
		m.active = CursorStart
	} else {
		base.Default = opts.Default
		c, err := picker.New(base)
		if err != nil {
			return Model{}, err
		}
		c.SetFromExternalValue(opts.Value)
		m.single = c
		m.active = CursorSingle
	}

	m.yearInput = newYearInput()
	m.dateInput = newDateInput(m.ctrl().Mask().String())
	m.resetHover()
	m.syncFields()
	return m, nil
}

func (m Model) callbacks() picker.Callbacks {
	notify := m.opts.Notify
	if notify == nil {
		return picker.Callbacks{}
	}
	return picker.Callbacks{
		OnChange:    func(_ time.Time, s string) { notify(Event{Kind: "change", Value: s}) },
		OnDayChange: func(d int) { notify(Event{Kind: "day", Value: strconv.Itoa(d)}) },
		OnMonthChange: func(mc picker.MonthChange) {
			notify(Event{Kind: "month", Value: strconv.Itoa(mc.Value) + " " + mc.Name})
		},
		OnYearChange: func(y int) { notify(Event{Kind: "year", Value: strconv.Itoa(y)}) },
	}
}

// ctrl is the controller the keyboard currently drives.
func (m Model) ctrl() *picker.Controller {
	switch {
	case m.rng == nil:
		return m.single
	case m.active == CursorEnd:
		return m.rng.End
	default:
		return m.rng.Start
	}
}

// resetHover puts the grid cursor on the selected day of the shown month, else
// on today when it is shown, else on day 1.
func (m *Model) resetHover() {
	c := m.ctrl()
	st := c.State()
	if st.HasDay() {
		m.hover = st.Day
		return
	}
	today := calendar.FromInstant(m.now(), c.System())
	if today.SamePosition(st) {
		m.hover = today.Day
		return
	}
	m.hover = 1
}

func (m *Model) clampHover() {
	st := m.ctrl().State()
	max := calendar.MaxDay(st.Month, st.Year, m.ctrl().System())
	if m.hover < 1 {
		m.hover = 1
	}
	if m.hover > max {
		m.hover = max
	}
}

func (m *Model) updatePlaceholder() {
	c := m.ctrl()
	if m.focus != focusGrid {
		c.SetPlaceholder(nil)
		return
	}
	r := c.State().WithDay(m.hover)
	c.SetPlaceholder(&r)
}

func (m *Model) setFlash(msg string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = msg
	m.flashErr = isErr
	if isErr && m.opts.Notify != nil {
		m.opts.Notify(Event{Kind: "error", Value: msg})
	}
	seq := m.flashSeq
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// Done reports whether the session has finished.
func (m Model) Done() bool { return m.done }

// Result summarises the session.
func (m Model) Result() Result {
	c := m.ctrl()
	res := Result{Kind: store.KindSingle, Calendar: c.System(), Cancelled: m.cancelled, Positions: map[string]store.Position{}}
	remember := func(name string, c *picker.Controller) {
		st := c.State()
		res.Positions[name] = store.Position{Calendar: c.System().String(), Month: st.Month, Year: st.Year}
	}
	if m.rng == nil {
		remember(CursorSingle, m.single)
		if v, ok := m.single.Value(); ok && !m.cancelled {
			res.Start, res.Formatted, res.Selected = v, m.single.Format(v), true
		}
		return res
	}
	res.Kind = store.KindRange
	remember(CursorStart, m.rng.Start)
	remember(CursorEnd, m.rng.End)
	if s, e, ok := m.rng.Value(); ok && !m.cancelled {
		res.Start, res.End, res.Selected = s, &e, true
		res.Formatted = m.rng.Start.Format(s) + ".." + m.rng.End.Format(e)
	}
	return res
}
