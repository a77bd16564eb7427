package main

import (
	"testing"
	"time"
)

func TestParseDateToken(t *testing.T) {
	// 2024-01-15 is a Monday
	now := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{token: "2024-01-20", want: "2024-01-20", wantOK: true},
		{token: "today", want: "2024-01-15", wantOK: true},
		{token: "tomorrow", want: "2024-01-16", wantOK: true},
		{token: "yesterday", want: "2024-01-14", wantOK: true},
		{token: "friday", want: "2024-01-19", wantOK: true},
		{token: "monday", want: "2024-01-22", wantOK: true}, // next monday, never today
		{token: "Friday", want: "2024-01-19", wantOK: true},
		{token: "+3", want: "2024-01-18", wantOK: true},
		{token: "+3d", want: "2024-01-18", wantOK: true},
		{token: "-2", want: "2024-01-13", wantOK: true},
		{token: "", wantOK: false},
		{token: "notadate", wantOK: false},
		{token: "2024-13-45", wantOK: false},
		{token: "20/01/2024", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := parseDateToken(tt.token, now)
			if ok != tt.wantOK {
				t.Fatalf("parseDateToken(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got.Format("2006-01-02") != tt.want {
				t.Errorf("parseDateToken(%q) = %s, want %s", tt.token, got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{a: "2024-01-10", b: "2024-01-15", want: 5},
		{a: "2024-01-15", b: "2024-01-15", want: 0},
		{a: "2024-01-15", b: "2024-01-10", want: -5},
		{a: "2023-12-31", b: "2024-01-01", want: 1},
	}

	for _, tt := range tests {
		if got := daysBetween(date(tt.a), date(tt.b)); got != tt.want {
			t.Errorf("daysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStartOfDay(t *testing.T) {
	got := startOfDay(time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC))
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("startOfDay = %v, want %v", got, want)
	}
}
