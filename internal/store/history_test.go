package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHistory_AppendAndRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: filepath.Join(t.TempDir(), "state")}

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	first, err := s.AppendSelection(ctx, Selection{
		Kind: KindSingle, Calendar: "jalaali", Start: start, Formatted: "1403/01/01", CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("append single: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := s.AppendSelection(ctx, Selection{
		Kind: KindRange, Calendar: "gregorian", Start: start, End: &end,
		Formatted: "2024-03-20..2024-03-23", CreatedAt: base.Add(time.Minute),
	}); err != nil {
		t.Fatalf("append range: %v", err)
	}

	all, err := s.RecentSelections(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 selections, got %d", len(all))
	}
	if all[0].Kind != KindRange || all[0].End == nil || !all[0].End.Equal(end) {
		t.Fatalf("newest first: %+v", all[0])
	}
	if all[1].ID != first.ID || all[1].End != nil || !all[1].Start.Equal(start) || !all[1].CreatedAt.Equal(base) {
		t.Fatalf("oldest: %+v", all[1])
	}

	one, err := s.RecentSelections(ctx, 1)
	if err != nil {
		t.Fatalf("recent(1): %v", err)
	}
	if len(one) != 1 || one[0].Kind != KindRange {
		t.Fatalf("limit: %+v", one)
	}

	if _, err := os.Stat(filepath.Join(s.Dir, historyFileName)); err != nil {
		t.Fatalf("expected sqlite file: %v", err)
	}
}

func TestHistory_RejectsMalformedSelections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	now := time.Now()

	tests := []struct {
		name string
		sel  Selection
	}{
		{name: "unknown kind", sel: Selection{Kind: "week", Start: now}},
		{name: "single with end", sel: Selection{Kind: KindSingle, Start: now, End: &now}},
		{name: "range without end", sel: Selection{Kind: KindRange, Start: now}},
		{name: "missing start", sel: Selection{Kind: KindSingle}},
	}
	for _, tt := range tests {
		if _, err := s.AppendSelection(ctx, tt.sel); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestHistory_EmptyStore(t *testing.T) {
	t.Parallel()
	got, err := Store{Dir: t.TempDir()}.RecentSelections(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
