package loop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateTransitions(t *testing.T) {
	g := NewGate(true)

	var got []bool
	g.OnChange(func(v bool) { got = append(got, v) })

	g.Set(true) // re-delivery
	g.Set(false)
	g.Set(false)
	g.Set(true)

	assert.Equal(t, []bool{false, true}, got)
	assert.True(t, g.Visible())
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(250 * time.Millisecond)
	t0 := time.Unix(0, 0)

	_, _, ok := d.Poll(t0)
	assert.False(t, ok, "nothing pending")

	for i := 0; i < 5; i++ {
		d.Signal(t0.Add(time.Duration(i)*10*time.Millisecond), 100+i, 50+i)
	}
	last := t0.Add(40 * time.Millisecond)

	due, pending := d.Due()
	assert.True(t, pending)
	assert.Equal(t, last.Add(250*time.Millisecond), due)

	applied := 0
	var w, h int
	for ms := 0; ms <= 600; ms += 5 {
		if pw, ph, ok := d.Poll(t0.Add(time.Duration(ms) * time.Millisecond)); ok {
			applied++
			w, h = pw, ph
			assert.Equal(t, 290, ms, "applied 250ms after the last signal")
		}
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 104, w)
	assert.Equal(t, 54, h)

	_, pending = d.Due()
	assert.False(t, pending)
}

func TestDebouncerRestartsQuietPeriod(t *testing.T) {
	d := NewDebouncer(250 * time.Millisecond)
	t0 := time.Unix(0, 0)

	d.Signal(t0, 1, 1)
	d.Signal(t0.Add(200*time.Millisecond), 2, 2)

	_, _, ok := d.Poll(t0.Add(260 * time.Millisecond))
	assert.False(t, ok)

	w, _, ok := d.Poll(t0.Add(450 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 2, w)
}

func TestDeferredRunsOneFramePerTick(t *testing.T) {
	var d Deferred
	assert.False(t, d.Run())

	runs := 0
	var frame func()
	frame = func() {
		runs++
		d.RequestFrame(frame)
	}
	d.RequestFrame(frame)

	assert.True(t, d.Run())
	assert.True(t, d.Run())
	assert.Equal(t, 2, runs)
	assert.True(t, d.Pending())
}
