package stats

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC))
	if got != "20 Maret 2026" {
		t.Fatalf("unexpected date: %q", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 2, 19, 9, 5, 0, 0, time.UTC)
	if got := FormatDateTime(ts); got != "19 Feb 2026 09.05" {
		t.Fatalf("unexpected date time: %q", got)
	}
	if got := FormatShortDateTime(ts); got != "19 Feb 09.05" {
		t.Fatalf("unexpected short date time: %q", got)
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{ago: 10 * time.Second, want: "baru saja"},
		{ago: 3 * time.Minute, want: "3 menit yang lalu"},
		{ago: 5 * time.Hour, want: "5 jam yang lalu"},
		{ago: 50 * time.Hour, want: "2 hari yang lalu"},
	}
	for _, tc := range cases {
		if got := FormatRelative(now.Add(-tc.ago), now); got != tc.want {
			t.Fatalf("FormatRelative(-%s) = %q, want %q", tc.ago, got, tc.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(12.345); got != "12.3 jam" {
		t.Fatalf("unexpected hours: %q", got)
	}
}
