package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate_AcceptsDateAndTimestamp(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-05-01" {
		t.Fatalf("got %s", d)
	}

	d, err = ParseDate("2024-05-01T22:30:00+07:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-05-01" {
		t.Fatalf("timestamp truncated to %s, want 2024-05-01", d)
	}

	if _, err := ParseDate("01/05/2024"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestDate_MidnightInLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	got := NewDate(2024, time.May, 1).Midnight(loc)
	want := time.Date(2024, time.May, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		Deadline Date `json:"deadline"`
	}{NewDate(2024, time.December, 31)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"deadline":"2024-12-31"}` {
		t.Fatalf("got %s", raw)
	}

	var out struct {
		Deadline Date `json:"deadline"`
	}
	if err := json.Unmarshal([]byte(`{"deadline":"2025-01-02"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Deadline != NewDate(2025, time.January, 2) {
		t.Fatalf("got %s", out.Deadline)
	}
}

func TestDate_ScanVariants(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)); err != nil || d.String() != "2024-05-01" {
		t.Fatalf("scan time: %v %s", err, d)
	}
	if err := d.Scan([]byte("2024-06-02")); err != nil || d.String() != "2024-06-02" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("scan nil: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}
}
