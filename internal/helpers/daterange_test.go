package helpers

import (
	"testing"
	"time"
)

func TestDatesBetweenExpandsInclusiveRange(t *testing.T) {
	start, _ := ParseDate("2024-01-10")
	end, _ := ParseDate("2024-01-12")

	dates := DatesBetween(start, end)
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}

	want := []string{"2024-01-10", "2024-01-11", "2024-01-12"}
	for i, d := range dates {
		if FormatDate(d) != want[i] {
			t.Errorf("date %d: expected %s, got %s", i, want[i], FormatDate(d))
		}
	}
}

func TestDatesBetweenSingleDay(t *testing.T) {
	day, _ := ParseDate("2024-06-01")

	dates := DatesBetween(day, day)
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
	if FormatDate(dates[0]) != "2024-06-01" {
		t.Errorf("expected 2024-06-01, got %s", FormatDate(dates[0]))
	}
}

func TestDatesBetweenReversedRange(t *testing.T) {
	start, _ := ParseDate("2024-01-12")
	end, _ := ParseDate("2024-01-10")

	if dates := DatesBetween(start, end); dates != nil {
		t.Errorf("expected nil for reversed range, got %v", dates)
	}
}

func TestDatesBetweenStripsTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 0, 1, 0, 0, time.UTC)

	dates := DatesBetween(start, end)
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if FormatDate(dates[0]) != "2024-03-01" || FormatDate(dates[1]) != "2024-03-02" {
		t.Errorf("unexpected dates: %s, %s", FormatDate(dates[0]), FormatDate(dates[1]))
	}
}

func TestParseDateRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "2024-13-01", "10/01/2024", "2024-01-10T12:00:00Z"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}
