package picker

import (
	"fmt"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/disabled"
)

// Reason classifies a rejected range selection.
type Reason string

const (
	ReasonDisabled   Reason = "disabled"
	ReasonOutOfOrder Reason = "out_of_order"
	ReasonInvalid    Reason = "invalid"
)

// RejectionError is returned when a range selection is not applied. The rejected
// cursor keeps its previous state.
type RejectionError struct {
	Cursor string
	Reason Reason
	Date   string
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonDisabled:
		return fmt.Sprintf("%s date %s is disabled", e.Cursor, e.Date)
	case ReasonOutOfOrder:
		if e.Cursor == "start" {
			return fmt.Sprintf("start date %s is after the end date", e.Date)
		}
		return fmt.Sprintf("end date %s is before the start date", e.Date)
	default:
		return fmt.Sprintf("%s date %q is not a valid date", e.Cursor, e.Date)
	}
}

// RangeOptions configure a Range. Start and End share everything in Options
// except Default, which seeds each cursor separately.
type RangeOptions struct {
	Options
	StartDefault time.Time
	EndDefault   time.Time
	// OnRangeChange fires when a selection leaves both cursors with a day.
	OnRangeChange func(start, end time.Time)
}

// Range coordinates a start and an end cursor. Both share calendar, mask, month
// lookup and disabled predicate but navigate independently.
type Range struct {
	Start *Controller
	End   *Controller

	disabled disabled.Predicate
	onChange func(start, end time.Time)
}

// NewRange returns a Range with both cursors unselected.
func NewRange(opts RangeOptions) (*Range, error) {
	so := opts.Options
	so.Default = opts.StartDefault
	start, err := New(so)
	if err != nil {
		return nil, err
	}
	eo := opts.Options
	eo.Default = opts.EndDefault
	end, err := New(eo)
	if err != nil {
		return nil, err
	}
	pred := opts.Disabled
	if pred == nil {
		pred = disabled.None
	}
	return &Range{Start: start, End: end, disabled: pred, onChange: opts.OnRangeChange}, nil
}

// Disabled reports whether t is excluded by the shared predicate.
func (rg *Range) Disabled(t time.Time) bool { return rg.disabled(t) }

// check validates r for the named cursor against the predicate and the other
// cursor's selected day.
func (rg *Range) check(cursor string, r calendar.Record) error {
	if !r.HasDay() {
		return nil
	}
	self, other := rg.Start, rg.End
	if cursor == "end" {
		self, other = rg.End, rg.Start
	}
	t, err := self.Instant(r)
	if err != nil {
		return &RejectionError{Cursor: cursor, Reason: ReasonInvalid, Date: r.String()}
	}
	if rg.disabled(t) {
		return &RejectionError{Cursor: cursor, Reason: ReasonDisabled, Date: self.Format(t)}
	}
	if !other.Cache().HasDay() {
		return nil
	}
	ot := calendar.MustInstant(other.Cache(), other.System())
	if (cursor == "start" && t.After(ot)) || (cursor == "end" && t.Before(ot)) {
		return &RejectionError{Cursor: cursor, Reason: ReasonOutOfOrder, Date: self.Format(t)}
	}
	return nil
}

// SelectStart selects the start date, or returns a *RejectionError and leaves the
// range unchanged.
func (rg *Range) SelectStart(r calendar.Record) error {
	if err := rg.check("start", r); err != nil {
		return err
	}
	rg.Start.SelectDay(r)
	rg.notify()
	return nil
}

// SelectEnd selects the end date, or returns a *RejectionError and leaves the
// range unchanged.
func (rg *Range) SelectEnd(r calendar.Record) error {
	if err := rg.check("end", r); err != nil {
		return err
	}
	rg.End.SelectDay(r)
	rg.notify()
	return nil
}

// StartTextInput applies typed text to the start cursor. Unparsable or rejected
// text snaps the cursor's input back to its cached date.
func (rg *Range) StartTextInput(raw string) error {
	return rg.textInput("start", rg.Start, raw)
}

// EndTextInput is StartTextInput for the end cursor.
func (rg *Range) EndTextInput(raw string) error {
	return rg.textInput("end", rg.End, raw)
}

func (rg *Range) textInput(cursor string, c *Controller, raw string) error {
	t, ok := c.Mask().Parse(raw)
	if !ok {
		c.OnTextInput(raw) // snaps back
		return nil
	}
	if err := rg.check(cursor, calendar.FromInstant(t, c.System())); err != nil {
		c.snapBack()
		return err
	}
	if c.OnTextInput(raw) {
		rg.notify()
	}
	return nil
}

// Clear unselects both cursors.
func (rg *Range) Clear() {
	rg.Start.Clear()
	rg.End.Clear()
}

// Value returns both instants when both cursors have a day.
func (rg *Range) Value() (start, end time.Time, ok bool) {
	s, sok := rg.Start.Value()
	e, eok := rg.End.Value()
	if !sok || !eok {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

func (rg *Range) notify() {
	if rg.onChange == nil {
		return
	}
	if s, e, ok := rg.Value(); ok {
		rg.onChange(s, e)
	}
}
