// Package reducer is the pure state transition over a calendar.Record.
//
// It knows nothing about caches or notifications: any clamping policy is applied
// by the caller when it builds the action payload.
package reducer

import (
	"fmt"

	"datepick/internal/calendar"
)

// Kind is the closed set of actions.
type Kind int

const (
	SetDate Kind = iota
	SetDay
	SetMonth
	SetYear
	IncrementYear
	DecrementYear
	IncrementMonth
	DecrementMonth
)

func (k Kind) String() string {
	switch k {
	case SetDate:
		return "set_date"
	case SetDay:
		return "set_day"
	case SetMonth:
		return "set_month"
	case SetYear:
		return "set_year"
	case IncrementYear:
		return "increment_year"
	case DecrementYear:
		return "decrement_year"
	case IncrementMonth:
		return "increment_month"
	case DecrementMonth:
		return "decrement_month"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is a transition request. Payload carries the record the action reads from.
type Action struct {
	Kind    Kind
	Payload calendar.Record
}

// Reduce returns the state following a. Unknown kinds leave state unchanged.
//
// Step actions read month and year from the payload rather than from state: the
// payload is the navigation position being stepped from, and for month steps its
// year has already been rolled over by the caller.
func Reduce(state calendar.Record, a Action) calendar.Record {
	p := a.Payload
	switch a.Kind {
	case SetDate:
		return p
	case SetDay:
		state.Day = p.Day
		return state
	case SetMonth:
		state.Month = p.Month
		return state
	case SetYear:
		state.Year = p.Year
		return state
	case IncrementYear:
		return calendar.Record{Day: p.Day, Month: p.Month, Year: p.Year + 1}
	case DecrementYear:
		return calendar.Record{Day: p.Day, Month: p.Month, Year: p.Year - 1}
	case IncrementMonth:
		m := p.Month + 1
		if m > 12 {
			m = 1
		}
		return calendar.Record{Day: p.Day, Month: m, Year: p.Year}
	case DecrementMonth:
		m := p.Month - 1
		if m < 1 {
			m = 12
		}
		return calendar.Record{Day: p.Day, Month: m, Year: p.Year}
	default:
		return state
	}
}
