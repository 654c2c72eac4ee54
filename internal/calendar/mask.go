package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Default masks per calendar system.
const (
	JalaaliMask   = "jYYYY/jMM/jDD"
	GregorianMask = "YYYY-MM-DD"
)

// DefaultMask returns the display mask used when none is configured.
func DefaultMask(sys System) string {
	if sys == Jalaali {
		return JalaaliMask
	}
	return GregorianMask
}

// op is a single mask component: a literal or a numeric field.
type op int

const (
	opLiteral op = iota
	opYear4
	opYear2
	opMonth2
	opMonth
	opDay2
	opDay
)

type inst struct {
	op  op
	lit string
}

// MaskError reports an unusable format mask.
type MaskError struct {
	Mask   string
	Reason string
}

func (e *MaskError) Error() string {
	return fmt.Sprintf("invalid format mask %q: %s", e.Mask, e.Reason)
}

// Mask is a compiled format mask. Tokens follow moment-jalaali:
//
//	YYYY YY MM M DD D        Gregorian fields
//	jYYYY jYY jMM jM jDD jD  Jalaali fields
//	[text]                   escaped literal
//
// Everything else is a literal. A mask names exactly one year, month and day field
// and may not mix calendars.
type Mask struct {
	raw    string
	system System
	insts  []inst
}

// CompileMask parses s.
func CompileMask(s string) (Mask, error) {
	m := Mask{raw: s, system: Gregorian}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			m.insts = append(m.insts, inst{op: opLiteral, lit: lit.String()})
			lit.Reset()
		}
	}

	sawJalaali, sawGregorian := false, false
	seen := map[byte]bool{}
	for i := 0; i < len(s); {
		c := s[i]
		if c == '[' {
			end := strings.IndexByte(s[i+1:], ']')
			if end < 0 {
				return Mask{}, &MaskError{Mask: s, Reason: "unterminated [ escape"}
			}
			lit.WriteString(s[i+1 : i+1+end])
			i += end + 2
			continue
		}

		jalaali := false
		j := i
		if c == 'j' && i+1 < len(s) && isFieldLetter(s[i+1]) {
			jalaali = true
			j = i + 1
		}
		if !isFieldLetter(s[j]) {
			lit.WriteByte(c)
			i++
			continue
		}

		letter := s[j]
		n := 0
		for j+n < len(s) && s[j+n] == letter {
			n++
		}
		o, err := fieldOp(letter, n)
		if err != nil {
			return Mask{}, &MaskError{Mask: s, Reason: err.Error()}
		}
		if seen[letter] {
			return Mask{}, &MaskError{Mask: s, Reason: fmt.Sprintf("field %c repeated", letter)}
		}
		seen[letter] = true
		if jalaali {
			sawJalaali = true
		} else {
			sawGregorian = true
		}
		flush()
		m.insts = append(m.insts, inst{op: o})
		i = j + n
	}
	flush()

	if sawJalaali && sawGregorian {
		return Mask{}, &MaskError{Mask: s, Reason: "mixes jalaali and gregorian fields"}
	}
	for _, f := range []byte{'Y', 'M', 'D'} {
		if !seen[f] {
			return Mask{}, &MaskError{Mask: s, Reason: fmt.Sprintf("missing %c field", f)}
		}
	}
	if sawJalaali {
		m.system = Jalaali
	}
	return m, nil
}

// MustMask compiles a mask known to be valid.
func MustMask(s string) Mask {
	m, err := CompileMask(s)
	if err != nil {
		panic(err)
	}
	return m
}

func isFieldLetter(c byte) bool { return c == 'Y' || c == 'M' || c == 'D' }

func fieldOp(letter byte, n int) (op, error) {
	switch {
	case letter == 'Y' && n == 4:
		return opYear4, nil
	case letter == 'Y' && n == 2:
		return opYear2, nil
	case letter == 'M' && n == 2:
		return opMonth2, nil
	case letter == 'M' && n == 1:
		return opMonth, nil
	case letter == 'D' && n == 2:
		return opDay2, nil
	case letter == 'D' && n == 1:
		return opDay, nil
	}
	return opLiteral, fmt.Errorf("unsupported field %s", strings.Repeat(string(letter), n))
}

func (m Mask) String() string { return m.raw }

// System is the calendar the mask's fields are expressed in.
func (m Mask) System() System { return m.system }

// Format renders t's civil date.
func (m Mask) Format(t time.Time) string {
	r := FromInstant(t, m.system)
	var b strings.Builder
	for _, in := range m.insts {
		switch in.op {
		case opLiteral:
			b.WriteString(in.lit)
		case opYear4:
			b.WriteString(pad(r.Year, 4))
		case opYear2:
			b.WriteString(pad(r.Year%100, 2))
		case opMonth2:
			b.WriteString(pad(r.Month, 2))
		case opMonth:
			b.WriteString(strconv.Itoa(r.Month))
		case opDay2:
			b.WriteString(pad(r.Day, 2))
		case opDay:
			b.WriteString(strconv.Itoa(r.Day))
		}
	}
	return b.String()
}

// Parse matches text against the mask exactly. Persian and Arabic-Indic digits
// are accepted. The second result is false when text does not match or names a
// date that does not exist.
func (m Mask) Parse(text string) (time.Time, bool) {
	text = ToLatinDigits(text)
	var r Record
	i := 0
	for _, in := range m.insts {
		if in.op == opLiteral {
			if !strings.HasPrefix(text[i:], in.lit) {
				return time.Time{}, false
			}
			i += len(in.lit)
			continue
		}
		minW, maxW := 2, 2
		switch in.op {
		case opYear4:
			minW, maxW = 4, 4
		case opMonth, opDay:
			minW = 1
		}
		n := 0
		for n < maxW && i+n < len(text) && text[i+n] >= '0' && text[i+n] <= '9' {
			n++
		}
		if n < minW {
			return time.Time{}, false
		}
		v, _ := strconv.Atoi(text[i : i+n])
		i += n
		switch in.op {
		case opYear4:
			r.Year = v
		case opYear2:
			r.Year = expandYear(v, m.system)
		case opMonth2, opMonth:
			r.Month = v
		case opDay2, opDay:
			r.Day = v
		}
	}
	if i != len(text) || r.Day == 0 {
		return time.Time{}, false
	}
	t, err := ToInstant(r, m.system)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// expandYear maps a two digit year onto a century: 69-99 => 1969-1999 and 00-68 =>
// 2000-2068 for Gregorian; 50-99 => 1350-1399 and 00-49 => 1400-1449 for Jalaali.
func expandYear(yy int, sys System) int {
	if sys == Jalaali {
		if yy >= 50 {
			return 1300 + yy
		}
		return 1400 + yy
	}
	if yy >= 69 {
		return 1900 + yy
	}
	return 2000 + yy
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// Format renders t with mask, falling back to the default mask of sys when the
// mask does not compile.
func Format(t time.Time, mask string, sys System) string {
	if strings.TrimSpace(mask) == "" {
		mask = DefaultMask(sys)
	}
	m, err := CompileMask(mask)
	if err != nil {
		m = MustMask(DefaultMask(sys))
	}
	return m.Format(t)
}

// ParseStrict parses text with mask. A false result is an expected outcome.
func ParseStrict(text, mask string) (time.Time, bool) {
	m, err := CompileMask(mask)
	if err != nil {
		return time.Time{}, false
	}
	return m.Parse(text)
}
