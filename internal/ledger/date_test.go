package ledger

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-07-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year != 2023 || d.Month != time.July || d.Day != 15 {
		t.Fatalf("got %v", d)
	}
	if _, err := ParseDate("2023-7-15"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if _, err := ParseDate("not a date"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2023, time.January, 31)
	b := NewDate(2023, time.February, 1)
	if !a.Before(b) || b.Before(a) || a.Equal(b) {
		t.Fatalf("ordering broken: %v vs %v", a, b)
	}
	if !a.Equal(NewDate(2023, time.January, 31)) {
		t.Fatalf("equal broken")
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2023, time.January, 31},
		{2023, time.February, 28},
		{2024, time.February, 29},
		{2023, time.April, 30},
		{2023, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestLastOfMonth(t *testing.T) {
	d := NewDate(2024, time.February, 10)
	if got := d.LastOfMonth(); got.Day != 29 {
		t.Fatalf("LastOfMonth = %v, want day 29", got)
	}
}

func TestAddMonthsNormalizes(t *testing.T) {
	// Jan 31 + 1 month normalizes past February, same as time.AddDate.
	d := NewDate(2023, time.January, 31).AddMonths(1)
	if d.Month != time.March || d.Day != 3 {
		t.Fatalf("AddMonths = %v", d)
	}
}

func TestInclusiveDays(t *testing.T) {
	a := NewDate(2023, time.January, 10)
	b := NewDate(2023, time.January, 29)
	if got := inclusiveDays(a, b); got != 20 {
		t.Fatalf("inclusiveDays = %d, want 20", got)
	}
	if got := inclusiveDays(a, a); got != 1 {
		t.Fatalf("single day = %d, want 1", got)
	}
	if got := inclusiveDays(b, a); got != 0 {
		t.Fatalf("reversed = %d, want 0", got)
	}
}
