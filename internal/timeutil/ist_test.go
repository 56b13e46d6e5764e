package timeutil

import (
	"testing"
	"time"
)

func TestParseTimestampAndSameDay(t *testing.T) {
	// 20:00 UTC is 01:30 the next day in IST
	ts, err := ParseTimestamp("2024-03-10T20:00:00.000Z")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	day, _ := ParseDate("2024-03-11")
	if !SameDay(ts, day) {
		t.Errorf("%v should fall on 2024-03-11 IST", ts.In(IST))
	}

	prev, _ := ParseDate("2024-03-10")
	if SameDay(ts, prev) {
		t.Error("should not match the UTC calendar day")
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC) // 04:30 Jan 6 IST
	got := StartOfDay(in)
	if got.Day() != 6 || got.Hour() != 0 || got.Location() != IST {
		t.Errorf("StartOfDay = %v", got)
	}
}
