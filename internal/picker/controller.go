// Package picker holds the stateful date-selection controllers.
//
// A Controller is an explicit {state, cache} pair: state is driven by the pure
// reducer, cache remembers the last record that carried a concrete day so that
// navigating back to its month restores the day. Controllers are not safe for
// concurrent use; hosts serialise events.
package picker

import (
	"time"

	"datepick/internal/calendar"
	"datepick/internal/disabled"
	"datepick/internal/locale"
	"datepick/internal/reducer"
)

// MonthChange is delivered by OnMonthChange.
type MonthChange struct {
	Value int    `json:"value"`
	Name  string `json:"name"`
}

// Callbacks are optional notifications. Each fires at most once per operation,
// after state has been committed.
type Callbacks struct {
	OnChange      func(t time.Time, formatted string)
	OnDayChange   func(day int)
	OnMonthChange func(MonthChange)
	OnYearChange  func(year int)
}

// Options configure a Controller.
type Options struct {
	Language locale.Language
	// Months is the month-name lookup. Nil means locale.MonthNames(Language).
	Months locale.Months
	// Mask overrides the calendar's default format mask.
	Mask string
	// PersianDigits renders formatted values with Persian numerals.
	PersianDigits bool
	// Disabled is consulted by Allowed. Nil disables nothing.
	Disabled disabled.Predicate
	// Default seeds the navigation position (day unselected). Zero means Now.
	Default time.Time
	// Now is the clock; nil means time.Now.
	Now func() time.Time
	Callbacks
}

// Controller orchestrates one date cursor.
type Controller struct {
	sys         calendar.System
	mask        calendar.Mask
	months      locale.Months
	digits      bool
	disabled    disabled.Predicate
	cb          Callbacks
	state       calendar.Record
	cache       calendar.Record
	input       string
	placeholder string
}

// New returns a Controller positioned on the month of opts.Default (or now) with
// no day selected. An invalid Mask is reported as a *calendar.MaskError.
func New(opts Options) (*Controller, error) {
	sys := opts.Language.System()
	maskText := opts.Mask
	if maskText == "" {
		maskText = calendar.DefaultMask(sys)
	}
	mask, err := calendar.CompileMask(maskText)
	if err != nil {
		return nil, err
	}
	months := opts.Months
	if months == nil {
		months = locale.MonthNames(opts.Language)
	}
	pred := opts.Disabled
	if pred == nil {
		pred = disabled.None
	}

	seed := opts.Default
	if seed.IsZero() {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		seed = now()
	}
	start := calendar.FromInstant(seed, sys).WithDay(0)
	if calendar.Validate(start, sys) != nil {
		start = calendar.FromInstant(time.Now(), sys).WithDay(0)
	}

	return &Controller{
		sys:      sys,
		mask:     mask,
		months:   months,
		digits:   opts.PersianDigits,
		disabled: pred,
		cb:       opts.Callbacks,
		state:    start,
		cache:    start,
	}, nil
}

func (c *Controller) dispatch(kind reducer.Kind, payload calendar.Record) {
	c.state = reducer.Reduce(c.state, reducer.Action{Kind: kind, Payload: payload})
}

// System is the controller's calendar.
func (c *Controller) System() calendar.System { return c.sys }

// Mask is the active format mask.
func (c *Controller) Mask() calendar.Mask { return c.mask }

// State is the current reducer state.
func (c *Controller) State() calendar.Record { return c.state }

// Cache is the last record that carried a concrete day.
func (c *Controller) Cache() calendar.Record { return c.cache }

// Input is the raw typed-text buffer.
func (c *Controller) Input() string { return c.input }

// Placeholder is the hover preview text.
func (c *Controller) Placeholder() string { return c.placeholder }

// Months is the month-name lookup in use.
func (c *Controller) Months() locale.Months { return c.months }

// Format renders t with the controller's mask and digit preference.
func (c *Controller) Format(t time.Time) string {
	s := c.mask.Format(t)
	if c.digits {
		return calendar.ToPersianDigits(s)
	}
	return s
}

func (c *Controller) formatRecord(r calendar.Record) string {
	return c.Format(calendar.MustInstant(r, c.sys))
}

// Instant resolves r in the controller's calendar.
func (c *Controller) Instant(r calendar.Record) (time.Time, error) {
	return calendar.ToInstant(r, c.sys)
}

// Value returns the last selected instant. It reads the cache, not the state:
// after navigation the state may show a restored day in a month that was never
// selected.
func (c *Controller) Value() (time.Time, bool) {
	if !c.cache.HasDay() {
		return time.Time{}, false
	}
	return calendar.MustInstant(c.cache, c.sys), true
}

// Allowed reports whether r may be selected: it must name a valid day and not be
// disabled. Records without a day are always allowed.
func (c *Controller) Allowed(r calendar.Record) bool {
	if !r.HasDay() {
		return true
	}
	t, err := calendar.ToInstant(r, c.sys)
	if err != nil {
		return false
	}
	return !c.disabled(t)
}

// SetFromExternalValue hydrates state, cache and input from an externally owned
// value. It never notifies. A zero time, or one outside the calendar's year
// bounds, is ignored.
func (c *Controller) SetFromExternalValue(t time.Time) {
	if t.IsZero() {
		return
	}
	r := calendar.FromInstant(t, c.sys)
	if calendar.Validate(r, c.sys) != nil {
		return
	}
	c.state = r
	c.cache = r
	c.input = c.Format(t)
}

// SelectDay sets the whole date. OnChange fires only when a day is selected.
func (c *Controller) SelectDay(r calendar.Record) {
	c.dispatch(reducer.SetDate, r)
	c.cache = r
	if !r.HasDay() {
		return
	}
	if c.cb.OnChange != nil {
		t := calendar.MustInstant(r, c.sys)
		c.cb.OnChange(t, c.Format(t))
	}
}

// SelectDayOnly replaces the day, keeping the navigation position.
func (c *Controller) SelectDayOnly(r calendar.Record) {
	c.dispatch(reducer.SetDay, r)
	c.cache = r
	if !r.HasDay() {
		return
	}
	c.input = ""
	if c.cb.OnDayChange != nil {
		c.cb.OnDayChange(r.Day)
	}
}

// SelectMonth replaces the month and reports it with its localized name. A
// selected day that does not exist in the new month is unselected.
func (c *Controller) SelectMonth(r calendar.Record) {
	c.dispatch(reducer.SetMonth, r)
	c.dropMissingDay()
	if c.cb.OnMonthChange != nil {
		c.cb.OnMonthChange(MonthChange{Value: r.Month, Name: c.months.Name(r.Month)})
	}
}

// SelectYear replaces the year. Years outside the calendar's bounds are
// ignored; a selected day missing from the new year is unselected.
func (c *Controller) SelectYear(r calendar.Record) {
	if !c.inBounds(r.Year) {
		return
	}
	c.dispatch(reducer.SetYear, r)
	c.dropMissingDay()
	if c.cb.OnYearChange != nil {
		c.cb.OnYearChange(r.Year)
	}
}

func (c *Controller) dropMissingDay() {
	if c.state.Day > calendar.MaxDay(c.state.Month, c.state.Year, c.sys) {
		c.state.Day = 0
	}
}

// restoredDay is the cached day carried into a step when match holds, otherwise
// 0. A cached day that does not exist at dest is dropped too.
func (c *Controller) restoredDay(match bool, dest calendar.Record) int {
	if !match {
		return 0
	}
	if c.cache.Day > calendar.MaxDay(dest.Month, dest.Year, c.sys) {
		return 0
	}
	return c.cache.Day
}

// inBounds reports whether year is inside the calendar's year bounds.
func (c *Controller) inBounds(year int) bool {
	return calendar.ClampYear(year, c.sys) == year
}

// StepYear moves the navigation position one year from target. The cached day
// is restored when target shares the cached year. A step past the calendar's
// year bounds is ignored.
func (c *Controller) StepYear(dir int, target calendar.Record) {
	kind, delta := reducer.IncrementYear, 1
	if dir < 0 {
		kind, delta = reducer.DecrementYear, -1
	}
	dest := calendar.Record{Month: target.Month, Year: target.Year + delta}
	if !c.inBounds(dest.Year) {
		return
	}
	day := c.restoredDay(target.Year == c.cache.Year, dest)
	c.dispatch(kind, target.WithDay(day))
}

// StepMonth moves the navigation position one month from target, rolling the
// year over between month 12 and month 1. The cached day is restored when target
// shares the cached month. A step past the calendar's year bounds is ignored.
func (c *Controller) StepMonth(dir int, target calendar.Record) {
	payload := target
	var kind reducer.Kind
	dest := calendar.Record{Year: target.Year}
	if dir < 0 {
		kind = reducer.DecrementMonth
		dest.Month = target.Month - 1
		if target.Month == 1 {
			payload.Year = target.Year - 1
			dest.Month, dest.Year = 12, target.Year-1
		}
	} else {
		kind = reducer.IncrementMonth
		dest.Month = target.Month + 1
		if target.Month == 12 {
			payload.Year = target.Year + 1
			dest.Month, dest.Year = 1, target.Year+1
		}
	}
	if !c.inBounds(dest.Year) {
		return
	}
	payload.Day = c.restoredDay(target.Month == c.cache.Month, dest)
	c.dispatch(kind, payload)
}

// Clear drops the selected day from state and cache and empties the input and
// placeholder.
func (c *Controller) Clear() {
	c.dispatch(reducer.SetDay, c.state.WithDay(0))
	c.cache.Day = 0
	c.input = ""
	c.placeholder = ""
}

// SetPlaceholder previews r (typically the hovered day). Nil or a record without a
// day clears it.
func (c *Controller) SetPlaceholder(r *calendar.Record) {
	if r == nil || !r.HasDay() {
		c.placeholder = ""
		return
	}
	if _, err := calendar.ToInstant(*r, c.sys); err != nil {
		c.placeholder = ""
		return
	}
	c.placeholder = c.formatRecord(*r)
}

// OnTextInput applies typed text. Text that parses under the mask selects that
// date; anything else, including a date outside the calendar's year bounds, is
// discarded and the input snaps back to the cached date. It reports whether the
// text was accepted.
func (c *Controller) OnTextInput(raw string) bool {
	t, ok := c.mask.Parse(raw)
	if !ok {
		c.snapBack()
		return false
	}
	r := calendar.FromInstant(t, c.sys)
	if calendar.Validate(r, c.sys) != nil {
		c.snapBack()
		return false
	}
	c.input = raw
	c.SelectDay(r)
	c.SelectMonth(r)
	return true
}

func (c *Controller) snapBack() {
	if !c.cache.HasDay() {
		c.input = ""
		return
	}
	c.input = c.formatRecord(c.cache)
}

// DisplayValue is the text a date field shows: the typed buffer if any, else the
// formatted state when a day is selected.
func (c *Controller) DisplayValue() string {
	if c.input != "" {
		return c.input
	}
	if c.state.HasDay() {
		return c.formatRecord(c.state)
	}
	return ""
}
