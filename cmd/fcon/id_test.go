package main

import (
	"testing"
	"time"
)

func TestParseAt(t *testing.T) {
	base := time.Date(2022, time.December, 21, 22, 44, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-01-05 14:24", time.Date(2023, time.January, 5, 14, 24, 0, 0, time.UTC)},
		{"2023-01-05T14:24", time.Date(2023, time.January, 5, 14, 24, 0, 0, time.UTC)},
		{"2022-12-24T02:47:00Z", time.Date(2022, time.December, 24, 2, 47, 0, 0, time.UTC)},
		{"2022-12-24", time.Date(2022, time.December, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseAt(tt.in, base)
		if err != nil {
			t.Errorf("parseAt(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseAt(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAt_NaturalLanguage(t *testing.T) {
	base := time.Date(2022, time.December, 21, 22, 44, 0, 0, time.UTC)

	got, err := parseAt("tomorrow", base)
	if err != nil {
		t.Fatalf("parseAt(tomorrow) failed: %v", err)
	}
	if got.Year() != 2022 || got.Month() != time.December || got.Day() != 22 {
		t.Errorf("parseAt(tomorrow) = %v, want 2022-12-22", got)
	}

	if _, err := parseAt("no time here", base); err == nil {
		t.Error("parseAt() expected error for text without a time")
	}
}
