package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	got := clock.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if got := clock.Now(); !got.Equal(start) {
		t.Errorf("Now() = %v, want %v", got, start)
	}

	clock.Advance(90 * time.Second)
	if got := clock.Now(); !got.Equal(start.Add(90 * time.Second)) {
		t.Errorf("Now() after Advance = %v, want %v", got, start.Add(90*time.Second))
	}

	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since(start) = %v, want %v", got, 90*time.Second)
	}

	reset := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock.Set(reset)
	if got := clock.Now(); !got.Equal(reset) {
		t.Errorf("Now() after Set = %v, want %v", got, reset)
	}
}
