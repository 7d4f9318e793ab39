package idle

import (
	"errors"
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

func TestNewIdleClock(t *testing.T) {
	clock := NewIdleClock()

	if clock == nil {
		t.Fatal("NewIdleClock returned nil")
	}

	_, err := clock.IdleTime()
	if runtime.GOOS != "windows" {
		if !errors.Is(err, interfaces.ErrUnsupported) {
			t.Errorf("expected ErrUnsupported on %s, got %v", runtime.GOOS, err)
		}
		return
	}
	if err != nil {
		t.Logf("IdleTime returned error (might be expected without a desktop session): %v", err)
	}
}

func TestElapsedMillis(t *testing.T) {
	tests := []struct {
		name string
		now  uint32
		last uint32
		want time.Duration
	}{
		{"same tick", 1000, 1000, 0},
		{"simple", 5000, 2000, 3 * time.Second},
		{"wraparound", 5, math.MaxUint32 - 4, 10 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := elapsedMillis(tt.now, tt.last); got != tt.want {
				t.Errorf("elapsedMillis(%d, %d) = %v, want %v", tt.now, tt.last, got, tt.want)
			}
		})
	}
}

func TestActivityClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := newActivityClock(func() time.Time { return now })

	if idle, err := clock.IdleTime(); err != nil || idle != 0 {
		t.Fatalf("fresh clock IdleTime() = %v, %v", idle, err)
	}

	now = now.Add(42 * time.Second)
	if idle, _ := clock.IdleTime(); idle != 42*time.Second {
		t.Errorf("expected 42s idle, got %v", idle)
	}

	clock.Touch()
	if idle, _ := clock.IdleTime(); idle != 0 {
		t.Errorf("expected idle reset by Touch, got %v", idle)
	}
	if !clock.LastActivity().Equal(now) {
		t.Errorf("LastActivity() = %v, want %v", clock.LastActivity(), now)
	}

	// A clock moving backwards never reports negative idle
	now = now.Add(-time.Minute)
	if idle, _ := clock.IdleTime(); idle != 0 {
		t.Errorf("expected 0 for backwards clock, got %v", idle)
	}
}
