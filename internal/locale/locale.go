// Package locale holds the per-language lookups the picker consumes: month names,
// weekday labels and the calendar system a language selects.
package locale

import (
	"fmt"
	"strings"
	"time"

	"datepick/internal/calendar"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/language"
)

// Language is a supported UI language.
type Language string

const (
	Farsi   Language = "fa"
	English Language = "en"
)

var supported = []language.Tag{language.English, language.Persian}

var matcher = language.NewMatcher(supported)

// Parse maps a BCP 47 tag (e.g. "fa-IR", "en_US", "persian") onto a supported
// language. Unrecognised input is an error rather than a silent fallback.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	switch strings.ToLower(s) {
	case "":
		return English, nil
	case "persian", "farsi":
		return Farsi, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q (expected fa or en)", s)
	}
	if supported[idx] == language.Persian {
		return Farsi, nil
	}
	return English, nil
}

// System returns the calendar a language selects: fa is Jalaali, everything else
// Gregorian.
func (l Language) System() calendar.System {
	if l == Farsi {
		return calendar.Jalaali
	}
	return calendar.Gregorian
}

// Month is one entry of a month-name table.
type Month struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Months is an ordered month-name table.
type Months []Month

// Name returns the name for id, or "" when the table has no such entry.
func (ms Months) Name(id int) string {
	for _, m := range ms {
		if m.ID == id {
			return m.Name
		}
	}
	return ""
}

var monthTables = map[Language]Months{
	Farsi: {
		{1, "فروردین"}, {2, "اردیبهشت"}, {3, "خرداد"},
		{4, "تیر"}, {5, "مرداد"}, {6, "شهریور"},
		{7, "مهر"}, {8, "آبان"}, {9, "آذر"},
		{10, "دی"}, {11, "بهمن"}, {12, "اسفند"},
	},
	English: {
		{1, "January"}, {2, "February"}, {3, "March"},
		{4, "April"}, {5, "May"}, {6, "June"},
		{7, "July"}, {8, "August"}, {9, "September"},
		{10, "October"}, {11, "November"}, {12, "December"},
	},
}

// Latin transliterations, used so ASCII queries can find Persian month names.
var farsiLatin = []string{
	"farvardin", "ordibehesht", "khordad", "tir", "mordad", "shahrivar",
	"mehr", "aban", "azar", "dey", "bahman", "esfand",
}

// MonthNames returns the month table for lang. The slice is a copy.
func MonthNames(lang Language) Months {
	src := monthTables[lang]
	out := make(Months, len(src))
	copy(out, src)
	return out
}

// FindMonths fuzzy-matches query against lang's month names, best match first.
func FindMonths(lang Language, query string) Months {
	table := monthTables[lang]
	if len(table) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	keys := make([]string, len(table))
	for i, m := range table {
		keys[i] = strings.ToLower(m.Name)
		if lang == Farsi {
			keys[i] = farsiLatin[i] + " " + m.Name
		}
	}
	matches := fuzzy.Find(strings.ToLower(query), keys)
	out := make(Months, 0, len(matches))
	for _, match := range matches {
		out = append(out, table[match.Index])
	}
	return out
}

// WeekStart is the first column of a calendar grid: Saturday for fa, Sunday for en.
func (l Language) WeekStart() time.Weekday {
	if l == Farsi {
		return time.Saturday
	}
	return time.Sunday
}

var weekdayLabels = map[Language][7]string{
	// Indexed by time.Weekday.
	Farsi:   {"ی", "د", "س", "چ", "پ", "ج", "ش"},
	English: {"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
}

// WeekdayLabels returns short labels in grid order starting at WeekStart.
func (l Language) WeekdayLabels() []string {
	labels, ok := weekdayLabels[l]
	if !ok {
		labels = weekdayLabels[English]
	}
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, labels[(int(l.WeekStart())+i)%7])
	}
	return out
}
