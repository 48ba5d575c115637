// Package layout positions graph nodes with a velocity-Verlet force simulation.
//
// The simulation follows the d3-force model: an alpha "temperature" decays
// towards alphaTarget each tick, forces add to node velocities scaled by
// alpha, and velocities are damped by velocityDecay before being integrated.
package layout

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Simulation defaults, matching d3-force.
const (
	DefaultAlphaMin      = 0.001
	DefaultVelocityDecay = 0.4
	initialRadius        = 10
)

// DefaultAlphaDecay cools the simulation from 1 to alphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Body is the simulation state of one node. FX/FY pin the body when set.
type Body struct {
	ID     string
	Index  int
	X, Y   float64
	VX, VY float64
	FX, FY *float64
	Radius float64
	Group  string // department

	placed bool
}

// NewBody creates an unplaced body; the simulation assigns its start position.
func NewBody(id, group string, radius float64) *Body {
	return &Body{ID: id, Group: group, Radius: radius}
}

// Place sets an explicit start position.
func (b *Body) Place(x, y float64) {
	b.X, b.Y = x, y
	b.placed = true
}

// Pin fixes the body at (x, y) until Unpin.
func (b *Body) Pin(x, y float64) {
	b.FX, b.FY = &x, &y
}

// Unpin releases a pinned body.
func (b *Body) Unpin() {
	b.FX, b.FY = nil, nil
}

// Pinned reports whether the body is pinned.
func (b *Body) Pinned() bool {
	return b.FX != nil || b.FY != nil
}

// Force contributes velocity to bodies each tick.
type Force interface {
	Initialize(bodies []*Body, rng *rand.Rand)
	Apply(alpha float64)
}

// Simulation integrates a set of bodies under a set of named forces.
type Simulation struct {
	bodies []*Body
	forces []namedForce
	rng    *rand.Rand

	mu            sync.Mutex
	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64
	ticks         int

	stopped atomic.Bool

	// OnTick, if set, runs after every tick.
	OnTick func()
}

type namedForce struct {
	name  string
	force Force
}

// NewSimulation creates a simulation over bodies. Unplaced bodies are laid
// out on a phyllotaxis spiral around (originX, originY).
func NewSimulation(bodies []*Body, originX, originY float64, seed int64) *Simulation {
	s := &Simulation{
		bodies:        bodies,
		rng:           rand.New(rand.NewSource(seed)),
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: 1 - DefaultVelocityDecay,
	}
	for i, b := range bodies {
		b.Index = i
		if b.FX != nil {
			b.X = *b.FX
		}
		if b.FY != nil {
			b.Y = *b.FY
		}
		if !b.placed && b.FX == nil && b.FY == nil {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			b.X = originX + r*math.Cos(a)
			b.Y = originY + r*math.Sin(a)
			b.placed = true
		}
	}
	return s
}

// AddForce registers a force under name, replacing any force with that name.
func (s *Simulation) AddForce(name string, f Force) *Simulation {
	f.Initialize(s.bodies, s.rng)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return s
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
	return s
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// ForceNames lists registered forces in application order.
func (s *Simulation) ForceNames() []string {
	names := make([]string, len(s.forces))
	for i, nf := range s.forces {
		names[i] = nf.name
	}
	return names
}

// Bodies returns the simulated bodies.
func (s *Simulation) Bodies() []*Body {
	return s.bodies
}

// Tick advances the simulation one step.
func (s *Simulation) Tick() {
	s.mu.Lock()
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay
	alpha := s.alpha
	s.ticks++
	s.mu.Unlock()

	for _, nf := range s.forces {
		nf.force.Apply(alpha)
	}

	for _, b := range s.bodies {
		if b.FX == nil {
			b.VX *= s.velocityDecay
			b.X += b.VX
		} else {
			b.X = *b.FX
			b.VX = 0
		}
		if b.FY == nil {
			b.VY *= s.velocityDecay
			b.Y += b.VY
		} else {
			b.Y = *b.FY
			b.VY = 0
		}
	}

	if s.OnTick != nil {
		s.OnTick()
	}
}

// Run ticks until the simulation cools below alphaMin, is stopped, or ctx
// is done. It returns ctx.Err() when the context ended the run.
func (s *Simulation) Run(ctx context.Context) error {
	deadline, hasDeadline := ctx.Deadline()
	for !s.stopped.Load() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hasDeadline && !time.Now().Before(deadline) {
			return context.DeadlineExceeded
		}
		s.Tick()
		if s.Alpha() < s.AlphaMin() {
			return nil
		}
	}
	return nil
}

// Settled reports whether alpha has cooled below alphaMin.
func (s *Simulation) Settled() bool {
	return s.Alpha() < s.AlphaMin()
}

// Stop halts Run. Stopping is idempotent.
func (s *Simulation) Stop() {
	s.stopped.Store(true)
}

// Stopped reports whether Stop was called since the last Restart.
func (s *Simulation) Stopped() bool {
	return s.stopped.Load()
}

// Restart clears the stopped flag so Run may continue.
func (s *Simulation) Restart() {
	s.stopped.Store(false)
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(a float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alpha = a
}

// AlphaMin returns the cooling threshold.
func (s *Simulation) AlphaMin() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alphaMin
}

// AlphaTarget returns the temperature alpha decays towards.
func (s *Simulation) AlphaTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alphaTarget
}

// SetAlphaTarget sets the temperature alpha decays towards.
func (s *Simulation) SetAlphaTarget(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alphaTarget = t
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Find returns the body closest to (x, y) within radius, or nil.
// A radius <= 0 means unlimited.
func (s *Simulation) Find(x, y, radius float64) *Body {
	var best *Body
	bestD2 := math.Inf(1)
	if radius > 0 {
		bestD2 = radius * radius
	}
	for _, b := range s.bodies {
		dx, dy := x-b.X, y-b.Y
		if d2 := dx*dx + dy*dy; d2 < bestD2 {
			best, bestD2 = b, d2
		}
	}
	return best
}

func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}
