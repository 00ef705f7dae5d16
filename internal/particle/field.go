package particle

import (
	"math"
	"math/rand/v2"
)

// Particle is one drifting point. Only X and Y change after creation.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Alpha  float64
}

// Field is the ordered set of particles. Order only decides pair iteration.
type Field []Particle

// Ranges bound the random attributes drawn at creation.
type Ranges struct {
	MaxSpeed  float64 // velocity per axis is uniform in [-MaxSpeed, MaxSpeed)
	MinRadius float64
	MaxRadius float64
	MinAlpha  float64
	MaxAlpha  float64
}

// DefaultRanges are the stock tuning values.
var DefaultRanges = Ranges{
	MaxSpeed:  0.25,
	MinRadius: 1,
	MaxRadius: 3,
	MinAlpha:  0.2,
	MaxAlpha:  0.7,
}

// Initialize creates count particles spread uniformly over the surface.
// A non-finite MaxSpeed yields stationary particles.
func Initialize(rng *rand.Rand, width, height float64, count int, r Ranges) Field {
	if count <= 0 {
		return Field{}
	}
	speed := r.MaxSpeed
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 0
	}
	f := make(Field, count)
	for i := range f {
		f[i] = Particle{
			X:      rng.Float64() * width,
			Y:      rng.Float64() * height,
			VX:     (rng.Float64()*2 - 1) * speed,
			VY:     (rng.Float64()*2 - 1) * speed,
			Radius: r.MinRadius + rng.Float64()*(r.MaxRadius-r.MinRadius),
			Alpha:  r.MinAlpha + rng.Float64()*(r.MaxAlpha-r.MinAlpha),
		}
	}
	return f
}

// Advance moves every particle by its velocity and wraps each axis on its own.
// After it returns every particle lies in [0,width) x [0,height), including
// particles left outside by a shrink.
func Advance(f Field, width, height float64) {
	for i := range f {
		p := &f[i]
		p.X = wrap(p.X+p.VX, width)
		p.Y = wrap(p.Y+p.VY, height)
	}
}

func wrap(v, limit float64) float64 {
	if limit <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 0 && v < limit {
		return v
	}
	v = math.Mod(v, limit)
	// Mod of an infinite coordinate
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		v += limit
	}
	// -tiny + limit rounds up to limit
	if v >= limit {
		v = 0
	}
	return v
}
