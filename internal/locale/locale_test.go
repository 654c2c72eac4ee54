package locale

import (
	"testing"

	"datepick/internal/calendar"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{in: "fa", want: Farsi},
		{in: "fa-IR", want: Farsi},
		{in: "persian", want: Farsi},
		{in: "en", want: English},
		{in: "en_US", want: English},
		{in: "", want: English},
		{in: "not a tag!", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLanguageSystem(t *testing.T) {
	t.Parallel()
	if Farsi.System() != calendar.Jalaali || English.System() != calendar.Gregorian {
		t.Fatalf("unexpected calendar mapping")
	}
}

func TestMonthNames(t *testing.T) {
	t.Parallel()
	fa := MonthNames(Farsi)
	if len(fa) != 12 || fa.Name(7) != "مهر" {
		t.Fatalf("unexpected fa table: %v", fa)
	}
	if got := fa.Name(13); got != "" {
		t.Fatalf("expected empty name for unknown id, got %q", got)
	}
	fa[0].Name = "mutated"
	if MonthNames(Farsi).Name(1) != "فروردین" {
		t.Fatalf("MonthNames must return a copy")
	}
	if got := Months(nil).Name(1); got != "" {
		t.Fatalf("nil table: got %q", got)
	}
}

func TestFindMonths(t *testing.T) {
	t.Parallel()
	got := FindMonths(English, "sep")
	if len(got) == 0 || got[0].ID != 9 {
		t.Fatalf("FindMonths(en, sep) = %v", got)
	}
	got = FindMonths(Farsi, "shahr")
	if len(got) == 0 || got[0].ID != 6 {
		t.Fatalf("FindMonths(fa, shahr) = %v", got)
	}
	if got := FindMonths(English, ""); got != nil {
		t.Fatalf("empty query: %v", got)
	}
}

func TestWeekdayLabels(t *testing.T) {
	t.Parallel()
	fa := Farsi.WeekdayLabels()
	if fa[0] != "ش" || fa[6] != "ج" {
		t.Fatalf("fa labels: %v", fa)
	}
	en := English.WeekdayLabels()
	if en[0] != "Su" || en[6] != "Sa" {
		t.Fatalf("en labels: %v", en)
	}
}
