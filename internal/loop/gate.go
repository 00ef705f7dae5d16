package loop

// Gate tracks whether the drawing surface is on screen.
type Gate struct {
	visible  bool
	onChange []func(visible bool)
}

func NewGate(visible bool) *Gate {
	return &Gate{visible: visible}
}

func (g *Gate) Visible() bool { return g.visible }

// Set applies a visibility signal. Re-delivering the current state is ignored.
func (g *Gate) Set(visible bool) {
	if g.visible == visible {
		return
	}
	g.visible = visible
	for _, fn := range g.onChange {
		fn(visible)
	}
}

// OnChange registers a callback invoked on every transition.
func (g *Gate) OnChange(fn func(visible bool)) {
	g.onChange = append(g.onChange, fn)
}
