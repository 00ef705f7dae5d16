package render

// Circle is a recorded FillCircle call.
type Circle struct {
	X, Y, Radius float64
	Paint        Paint
}

// Line is a recorded StrokeLine call.
type Line struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Paint          Paint
}

// Recorder is an in-memory Surface. It keeps the primitives drawn since the
// last Clear and counts clears, which is one per frame.
type Recorder struct {
	Width, Height int
	Circles       []Circle
	Lines         []Line
	Clears        int
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

// Resize changes the surface dimensions.
func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) Clear() {
	r.Circles = r.Circles[:0]
	r.Lines = r.Lines[:0]
	r.Clears++
}

func (r *Recorder) FillCircle(x, y, radius float64, p Paint) {
	r.Circles = append(r.Circles, Circle{X: x, Y: y, Radius: radius, Paint: p})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2, width float64, p Paint) {
	r.Lines = append(r.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2, Width: width, Paint: p})
}
