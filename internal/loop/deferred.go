package loop

// Deferred is a Scheduler for hosts with their own refresh tick: it holds the
// requested frame until the host calls Run on its next tick.
type Deferred struct {
	next func()
}

func (d *Deferred) RequestFrame(fn func()) { d.next = fn }

// Run executes the pending frame, if any. The frame may request the next one.
func (d *Deferred) Run() bool {
	fn := d.next
	d.next = nil
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Pending reports whether a frame is waiting for the next tick.
func (d *Deferred) Pending() bool { return d.next != nil }
