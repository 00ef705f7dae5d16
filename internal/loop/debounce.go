package loop

import "time"

// Debouncer coalesces bursts of resize signals into one trailing update.
// Time is passed in so hosts poll it from their own tick.
type Debouncer struct {
	wait    time.Duration
	pending bool
	last    time.Time
	width   int
	height  int
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Signal records a size and restarts the quiet period.
func (d *Debouncer) Signal(now time.Time, width, height int) {
	d.pending = true
	d.last = now
	d.width, d.height = width, height
}

// Poll returns the latest size once the quiet period has elapsed.
// It reports ok at most once per burst.
func (d *Debouncer) Poll(now time.Time) (width, height int, ok bool) {
	if !d.pending || now.Sub(d.last) < d.wait {
		return 0, 0, false
	}
	d.pending = false
	return d.width, d.height, true
}

// Due reports when a pending update settles.
func (d *Debouncer) Due() (time.Time, bool) {
	if !d.pending {
		return time.Time{}, false
	}
	return d.last.Add(d.wait), true
}
