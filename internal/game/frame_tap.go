package game

import (
	"fmt"
	"time"
)

// frameTap records the timestamps of the last N drawn frames into a ring buffer
// so the overlay can show the rate frames actually reach the screen, which
// drops to zero while the backdrop is paused.
type frameTap struct {
	buffer    []time.Time
	nextIndex int
	filled    int
}

func newFrameTap(ringSize int) *frameTap {
	return &frameTap{buffer: make([]time.Time, ringSize)}
}

func (t *frameTap) record(at time.Time) {
	t.buffer[t.nextIndex] = at
	t.nextIndex++
	if t.nextIndex >= len(t.buffer) {
		t.nextIndex = 0
	}
	if t.filled < len(t.buffer) {
		t.filled++
	}
}

// rate returns frames per second over the recorded window, counting only
// frames newer than window before now.
func (t *frameTap) rate(now time.Time, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	n := 0
	// Walk backwards from nextIndex - 1
	idx := t.nextIndex - 1
	for i := 0; i < t.filled; i++ {
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		if now.Sub(t.buffer[idx]) > window {
			break
		}
		n++
		idx--
	}
	return float64(n) / window.Seconds()
}

// formatUptime renders MM:SS, growing an hour field once the backdrop has run that long.
func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
