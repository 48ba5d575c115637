package layout

import (
	"math"
	"math/rand"
)

// Link connects two bodies for LinkForce.
type Link struct {
	Source *Body
	Target *Body
	Value  float64
}

// LinkForce pulls linked bodies towards a target distance. Each link's
// correction is split between its endpoints by degree, so well-connected
// bodies move less.
type LinkForce struct {
	Links      []Link
	Distance   func(l *Link) float64 // default 30
	Strength   func(l *Link) float64 // default 1/min(degree(source), degree(target))
	Iterations int                   // default 1

	rng       *rand.Rand
	bias      []float64
	strengths []float64
	distances []float64
}

// Initialize implements Force.
func (f *LinkForce) Initialize(bodies []*Body, rng *rand.Rand) {
	f.rng = rng
	count := make(map[*Body]int, len(bodies))
	for _, l := range f.Links {
		count[l.Source]++
		count[l.Target]++
	}
	f.bias = make([]float64, len(f.Links))
	f.strengths = make([]float64, len(f.Links))
	f.distances = make([]float64, len(f.Links))
	for i := range f.Links {
		l := &f.Links[i]
		cs, ct := float64(count[l.Source]), float64(count[l.Target])
		f.bias[i] = cs / (cs + ct)
		if f.Strength != nil {
			f.strengths[i] = f.Strength(l)
		} else {
			f.strengths[i] = 1 / math.Min(cs, ct)
		}
		if f.Distance != nil {
			f.distances[i] = f.Distance(l)
		} else {
			f.distances[i] = 30
		}
	}
}

// Apply implements Force.
func (f *LinkForce) Apply(alpha float64) {
	iterations := f.Iterations
	if iterations <= 0 {
		iterations = 1
	}
	for k := 0; k < iterations; k++ {
		for i := range f.Links {
			src, tgt := f.Links[i].Source, f.Links[i].Target
			x := tgt.X + tgt.VX - src.X - src.VX
			if x == 0 {
				x = jiggle(f.rng)
			}
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if y == 0 {
				y = jiggle(f.rng)
			}
			l := math.Sqrt(x*x + y*y)
			l = (l - f.distances[i]) / l * alpha * f.strengths[i]
			x *= l
			y *= l
			b := f.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			src.VX += x * (1 - b)
			src.VY += y * (1 - b)
		}
	}
}

// ManyBody applies pairwise charge between all bodies. Negative strength repels.
// Computed exactly rather than with a quadtree; graphs here are small.
type ManyBody struct {
	Strength    float64 // default -30
	DistanceMin float64 // default 1

	bodies []*Body
	rng    *rand.Rand
}

// Initialize implements Force.
func (f *ManyBody) Initialize(bodies []*Body, rng *rand.Rand) {
	f.bodies = bodies
	f.rng = rng
	if f.Strength == 0 {
		f.Strength = -30
	}
	if f.DistanceMin == 0 {
		f.DistanceMin = 1
	}
}

// Apply implements Force.
func (f *ManyBody) Apply(alpha float64) {
	min2 := f.DistanceMin * f.DistanceMin
	for _, b := range f.bodies {
		for _, o := range f.bodies {
			if o == b {
				continue
			}
			x := o.X - b.X
			y := o.Y - b.Y
			if x == 0 {
				x = jiggle(f.rng)
			}
			if y == 0 {
				y = jiggle(f.rng)
			}
			l := x*x + y*y
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := f.Strength * alpha / l
			b.VX += x * w
			b.VY += y * w
		}
	}
}

// Center translates all bodies so their mean position is (X, Y).
// It moves positions directly and does not affect velocity.
type Center struct {
	X, Y     float64
	Strength float64 // default 1

	bodies []*Body
}

// Initialize implements Force.
func (f *Center) Initialize(bodies []*Body, _ *rand.Rand) {
	f.bodies = bodies
	if f.Strength == 0 {
		f.Strength = 1
	}
}

// Apply implements Force.
func (f *Center) Apply(float64) {
	n := float64(len(f.bodies))
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, b := range f.bodies {
		sx += b.X
		sy += b.Y
	}
	sx = (sx/n - f.X) * f.Strength
	sy = (sy/n - f.Y) * f.Strength
	for _, b := range f.bodies {
		b.X -= sx
		b.Y -= sy
	}
}

// Collide pushes apart bodies whose circles overlap.
type Collide struct {
	Radius     func(b *Body) float64
	Strength   float64 // default 1
	Iterations int     // default 1

	bodies []*Body
	radii  []float64
	rng    *rand.Rand
}

// Initialize implements Force.
func (f *Collide) Initialize(bodies []*Body, rng *rand.Rand) {
	f.bodies = bodies
	f.rng = rng
	if f.Strength == 0 {
		f.Strength = 1
	}
	f.radii = make([]float64, len(bodies))
	for i, b := range bodies {
		if f.Radius != nil {
			f.radii[i] = f.Radius(b)
		} else {
			f.radii[i] = 1
		}
	}
}

// Apply implements Force.
func (f *Collide) Apply(float64) {
	iterations := f.Iterations
	if iterations <= 0 {
		iterations = 1
	}
	for k := 0; k < iterations; k++ {
		for i, b := range f.bodies {
			ri := f.radii[i]
			ri2 := ri * ri
			xi := b.X + b.VX
			yi := b.Y + b.VY
			for j := i + 1; j < len(f.bodies); j++ {
				o := f.bodies[j]
				rj := f.radii[j]
				r := ri + rj
				x := xi - o.X - o.VX
				y := yi - o.Y - o.VY
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = jiggle(f.rng)
					l += x * x
				}
				if y == 0 {
					y = jiggle(f.rng)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x *= l
				y *= l
				rj2 := rj * rj
				share := rj2 / (ri2 + rj2)
				b.VX += x * share
				b.VY += y * share
				o.VX -= x * (1 - share)
				o.VY -= y * (1 - share)
			}
		}
	}
}

// Radial pulls each body towards a circle of the given radius around (X, Y).
type Radial struct {
	Radius   func(b *Body) float64
	X, Y     float64
	Strength float64 // default 0.1

	bodies []*Body
	radii  []float64
}

// Initialize implements Force.
func (f *Radial) Initialize(bodies []*Body, _ *rand.Rand) {
	f.bodies = bodies
	if f.Strength == 0 {
		f.Strength = 0.1
	}
	f.radii = make([]float64, len(bodies))
	for i, b := range bodies {
		if f.Radius != nil {
			f.radii[i] = f.Radius(b)
		}
	}
}

// Apply implements Force.
func (f *Radial) Apply(alpha float64) {
	for i, b := range f.bodies {
		dx := b.X - f.X
		if dx == 0 {
			dx = 1e-6
		}
		dy := b.Y - f.Y
		if dy == 0 {
			dy = 1e-6
		}
		r := math.Sqrt(dx*dx + dy*dy)
		k := (f.radii[i] - r) * f.Strength * alpha / r
		b.VX += dx * k
		b.VY += dy * k
	}
}

// PositionX pulls each body towards a target x coordinate.
type PositionX struct {
	X        func(b *Body) float64
	Strength float64 // default 0.1

	bodies  []*Body
	targets []float64
}

// Initialize implements Force.
func (f *PositionX) Initialize(bodies []*Body, _ *rand.Rand) {
	f.bodies = bodies
	if f.Strength == 0 {
		f.Strength = 0.1
	}
	f.targets = make([]float64, len(bodies))
	for i, b := range bodies {
		if f.X != nil {
			f.targets[i] = f.X(b)
		}
	}
}

// Apply implements Force.
func (f *PositionX) Apply(alpha float64) {
	for i, b := range f.bodies {
		b.VX += (f.targets[i] - b.X) * f.Strength * alpha
	}
}

// PositionY pulls each body towards a target y coordinate.
type PositionY struct {
	Y        func(b *Body) float64
	Strength float64 // default 0.1

	bodies  []*Body
	targets []float64
}

// Initialize implements Force.
func (f *PositionY) Initialize(bodies []*Body, _ *rand.Rand) {
	f.bodies = bodies
	if f.Strength == 0 {
		f.Strength = 0.1
	}
	f.targets = make([]float64, len(bodies))
	for i, b := range bodies {
		if f.Y != nil {
			f.targets[i] = f.Y(b)
		}
	}
}

// Apply implements Force.
func (f *PositionY) Apply(alpha float64) {
	for i, b := range f.bodies {
		b.VY += (f.targets[i] - b.Y) * f.Strength * alpha
	}
}
