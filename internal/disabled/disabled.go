// Package disabled compiles declarative disabled-date rules into a predicate.
package disabled

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"datepick/internal/calendar"

	"cloudeng.io/datetime"
	cerrors "cloudeng.io/errors"
)

// Predicate reports whether an instant may not be selected.
type Predicate func(time.Time) bool

// None disables nothing.
func None(time.Time) bool { return false }

// Rules is the config representation. All dates are Gregorian ISO (YYYY-MM-DD)
// or the word "today". A date is disabled when any rule matches.
type Rules struct {
	// Before disables every day strictly before this date.
	Before string `json:"before,omitempty"`
	// After disables every day strictly after this date.
	After string `json:"after,omitempty"`
	// Dates lists individual disabled days.
	Dates []string `json:"dates,omitempty"`
	// Weekdays lists disabled weekdays by English name or 3-letter prefix.
	Weekdays []string `json:"weekdays,omitempty"`
	// Within disables a window relative to today, e.g. "-10d..0d".
	Within string `json:"within,omitempty"`
}

// Empty reports whether no rule is set.
func (r Rules) Empty() bool {
	return r.Before == "" && r.After == "" && len(r.Dates) == 0 && len(r.Weekdays) == 0 && r.Within == ""
}

var reWithin = regexp.MustCompile(`^([+-]?\d+)d\.\.([+-]?\d+)d$`)

// Compile validates r and returns its predicate. now anchors "today" and relative
// windows; it is evaluated once.
func Compile(r Rules, now time.Time) (Predicate, error) {
	if r.Empty() {
		return None, nil
	}
	today := calendar.Civil(now)
	var errs cerrors.M
	var preds []Predicate

	if r.Before != "" {
		if t, err := parseDay(r.Before, today); err != nil {
			errs.Append(fmt.Errorf("before: %w", err))
		} else {
			preds = append(preds, func(x time.Time) bool { return calendar.Civil(x).Before(t) })
		}
	}
	if r.After != "" {
		if t, err := parseDay(r.After, today); err != nil {
			errs.Append(fmt.Errorf("after: %w", err))
		} else {
			preds = append(preds, func(x time.Time) bool { return calendar.Civil(x).After(t) })
		}
	}
	if len(r.Dates) > 0 {
		var list datetime.CalendarDateList
		for _, d := range r.Dates {
			t, err := parseDay(d, today)
			if err != nil {
				errs.Append(fmt.Errorf("dates: %w", err))
				continue
			}
			list = append(list, datetime.NewCalendarDate(t.Year(), datetime.Month(t.Month()), t.Day()))
		}
		dc := datetime.Constraints{CustomCalendar: list}
		preds = append(preds, func(x time.Time) bool { return !dc.Include(calendar.Civil(x)) })
	}
	if len(r.Weekdays) > 0 {
		var off [7]bool
		for _, w := range r.Weekdays {
			wd, err := parseWeekday(w)
			if err != nil {
				errs.Append(fmt.Errorf("weekdays: %w", err))
				continue
			}
			off[wd] = true
		}
		preds = append(preds, func(x time.Time) bool { return off[x.Weekday()] })
	}
	if r.Within != "" {
		m := reWithin.FindStringSubmatch(strings.ReplaceAll(r.Within, " ", ""))
		if m == nil {
			errs.Append(fmt.Errorf("within: %q (expected -Nd..Md)", r.Within))
		} else {
			from, _ := strconv.Atoi(m[1])
			to, _ := strconv.Atoi(m[2])
			if from > to {
				errs.Append(fmt.Errorf("within: %q starts after it ends", r.Within))
			} else {
				lo, hi := today.AddDate(0, 0, from), today.AddDate(0, 0, to)
				preds = append(preds, func(x time.Time) bool {
					c := calendar.Civil(x)
					return !c.Before(lo) && !c.After(hi)
				})
			}
		}
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return Any(preds...), nil
}

// Any disables a date when any of preds does. Nil predicates are skipped.
func Any(preds ...Predicate) Predicate {
	var live []Predicate
	for _, p := range preds {
		if p != nil {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return None
	}
	return func(t time.Time) bool {
		for _, p := range live {
			if p(t) {
				return true
			}
		}
		return false
	}
}

func parseDay(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "today") {
		return today, nil
	}
	t, ok := calendar.ParseStrict(s, calendar.GregorianMask)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or today)", s)
	}
	return t, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) >= 3 {
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			if strings.HasPrefix(strings.ToLower(wd.String()), s) {
				return wd, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
