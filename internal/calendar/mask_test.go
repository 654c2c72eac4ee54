package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestCompileMask_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mask string
	}{
		{name: "mixed calendars", mask: "jYYYY-MM-DD"},
		{name: "missing day", mask: "YYYY-MM"},
		{name: "month names", mask: "DD MMMM YYYY"},
		{name: "three digit year", mask: "YYY-MM-DD"},
		{name: "repeated field", mask: "YYYY-MM-DD MM"},
		{name: "unterminated escape", mask: "[on YYYY-MM-DD"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := CompileMask(tt.mask)
			var me *MaskError
			if !errors.As(err, &me) {
				t.Fatalf("CompileMask(%q): expected MaskError, got %v", tt.mask, err)
			}
		})
	}
}

func TestMask_Format(t *testing.T) {
	t.Parallel()
	in := day(2023, time.September, 6)

	tests := []struct {
		mask string
		want string
	}{
		{mask: "jYYYY/jMM/jDD", want: "1402/06/15"},
		{mask: "jYY.jM.jD", want: "02.6.15"},
		{mask: "YYYY-MM-DD", want: "2023-09-06"},
		{mask: "D/M/YY", want: "6/9/23"},
		{mask: "[Day] DD [of] MM, YYYY", want: "Day 06 of 09, 2023"},
	}
	for _, tt := range tests {
		if got := MustMask(tt.mask).Format(in); got != tt.want {
			t.Fatalf("Format(%q) = %q, want %q", tt.mask, got, tt.want)
		}
	}
}

func TestParseStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		mask string
		want time.Time
		ok   bool
	}{
		{name: "gregorian", text: "2024-02-29", mask: GregorianMask, want: day(2024, time.February, 29), ok: true},
		{name: "month 13", text: "2024-13-01", mask: GregorianMask, ok: false},
		{name: "not leap", text: "2023-02-29", mask: GregorianMask, ok: false},
		{name: "single digit where two required", text: "2024-2-01", mask: GregorianMask, ok: false},
		{name: "trailing text", text: "2024-02-01x", mask: GregorianMask, ok: false},
		{name: "wrong separator", text: "2024/02/01", mask: GregorianMask, ok: false},
		{name: "jalaali", text: "1402/06/15", mask: JalaaliMask, want: day(2023, time.September, 6), ok: true},
		{name: "jalaali persian digits", text: "۱۴۰۲/۰۶/۱۵", mask: JalaaliMask, want: day(2023, time.September, 6), ok: true},
		{name: "jalaali esfand 30 non leap", text: "1402/12/30", mask: JalaaliMask, ok: false},
		{name: "jalaali year below range", text: "0300/05/10", mask: JalaaliMask, ok: false},
		{name: "jalaali year 878", text: "0878/01/01", mask: JalaaliMask, ok: false},
		{name: "gregorian year zero", text: "0000-01-01", mask: GregorianMask, ok: false},
		{name: "variable width", text: "6/9/2023", mask: "D/M/YYYY", want: day(2023, time.September, 6), ok: true},
		{name: "day zero", text: "2024-01-00", mask: GregorianMask, ok: false},
		{name: "bad mask", text: "2024-01-01", mask: "YYYY-MM", ok: false},
		{name: "empty", text: "", mask: GregorianMask, ok: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseStrict(tt.text, tt.mask)
			if ok != tt.ok {
				t.Fatalf("ParseStrict(%q, %q) ok=%v, want %v", tt.text, tt.mask, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Fatalf("ParseStrict(%q, %q) = %v, want %v", tt.text, tt.mask, got, tt.want)
			}
		})
	}
}

func TestFormat_FallsBackToDefaultMask(t *testing.T) {
	t.Parallel()
	in := day(2023, time.September, 6)
	if got := Format(in, "", Jalaali); got != "1402/06/15" {
		t.Fatalf("got %q", got)
	}
	if got := Format(in, "MMMM", Gregorian); got != "2023-09-06" {
		t.Fatalf("got %q", got)
	}
}

func TestDigits(t *testing.T) {
	t.Parallel()
	if got := ToPersianDigits("1402/06/15"); got != "۱۴۰۲/۰۶/۱۵" {
		t.Fatalf("ToPersianDigits: %q", got)
	}
	if got := ToLatinDigits("۱۴۰۲/٠٦/15"); got != "1402/06/15" {
		t.Fatalf("ToLatinDigits: %q", got)
	}
}
