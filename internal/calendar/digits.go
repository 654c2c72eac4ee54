package calendar

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	toLatin = runes.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹': // extended arabic-indic (persian)
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩': // arabic-indic
			return '0' + (r - '٠')
		}
		return r
	})
	toPersian = runes.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return '۰' + (r - '0')
		}
		return r
	})
)

// ToLatinDigits replaces Persian and Arabic-Indic digits with ASCII digits.
func ToLatinDigits(s string) string {
	out, _, err := transform.String(toLatin, s)
	if err != nil {
		return s
	}
	return out
}

// ToPersianDigits replaces ASCII digits with Persian digits.
func ToPersianDigits(s string) string {
	out, _, err := transform.String(toPersian, s)
	if err != nil {
		return s
	}
	return out
}
