package layout

import (
	"errors"
	"fmt"
	"math"
)

// Mode selects which set of forces arranges the graph.
type Mode string

// Layout modes.
const (
	ModeForce   Mode = "force"
	ModeRadial  Mode = "radial"
	ModeCluster Mode = "cluster"
)

// Modes lists the supported layout modes.
var Modes = []Mode{ModeForce, ModeRadial, ModeCluster}

// ErrUnknownMode is returned by Build for an unsupported mode.
var ErrUnknownMode = errors.New("unknown layout mode")

// Valid reports whether m is a supported mode.
func (m Mode) Valid() bool {
	for _, v := range Modes {
		if v == m {
			return true
		}
	}
	return false
}

// Force names registered by Build.
const (
	ForceLink      = "link"
	ForceCharge    = "charge"
	ForceCenter    = "center"
	ForceCollision = "collision"
	ForceRadial    = "radial"
	ForceX         = "x"
	ForceY         = "y"
)

// ClusterRadiusFactor scales min(width, height) to the ring of cluster centers.
const ClusterRadiusFactor = 0.35

// Point is a position in layout coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Departments returns the distinct body groups in first-seen order.
func Departments(bodies []*Body) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range bodies {
		if !seen[b.Group] {
			seen[b.Group] = true
			out = append(out, b.Group)
		}
	}
	return out
}

// ClusterCenters spaces departments evenly on a circle of radius
// 0.35*min(width, height) around the viewport center, starting at angle 0.
func ClusterCenters(departments []string, width, height float64) map[string]Point {
	centers := make(map[string]Point, len(departments))
	n := len(departments)
	if n == 0 {
		return centers
	}
	r := ClusterRadiusFactor * math.Min(width, height)
	cx, cy := width/2, height/2
	for i, d := range departments {
		a := float64(i) * 2 * math.Pi / float64(n)
		centers[d] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return centers
}

// RadialRing is the radius of the ring for the department at index i.
func RadialRing(i int) float64 {
	return 100 + float64(i)*50
}

// Build creates a simulation for mode over bodies and links in a
// width x height viewport.
func Build(mode Mode, bodies []*Body, links []Link, width, height float64, seed int64) (*Simulation, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	cx, cy := width/2, height/2
	sim := NewSimulation(bodies, cx, cy, seed)

	switch mode {
	case ModeForce:
		sim.AddForce(ForceLink, &LinkForce{
			Links:    links,
			Distance: func(*Link) float64 { return 100 },
			Strength: func(l *Link) float64 { return 1 / math.Min(l.Source.Radius, l.Target.Radius) },
		})
		sim.AddForce(ForceCharge, &ManyBody{Strength: -300})
		sim.AddForce(ForceCenter, &Center{X: cx, Y: cy})
		sim.AddForce(ForceCollision, &Collide{Radius: func(b *Body) float64 { return b.Radius + 10 }})

	case ModeRadial:
		index := make(map[string]int)
		for i, d := range Departments(bodies) {
			index[d] = i
		}
		sim.AddForce(ForceLink, &LinkForce{
			Links:    links,
			Distance: func(*Link) float64 { return 50 },
			Strength: func(*Link) float64 { return 0.3 },
		})
		sim.AddForce(ForceRadial, &Radial{
			Radius:   func(b *Body) float64 { return RadialRing(index[b.Group]) },
			X:        cx,
			Y:        cy,
			Strength: 0.8,
		})
		sim.AddForce(ForceCharge, &ManyBody{Strength: -100})
		sim.AddForce(ForceCollision, &Collide{Radius: func(b *Body) float64 { return b.Radius + 5 }})

	case ModeCluster:
		centers := ClusterCenters(Departments(bodies), width, height)
		centerOf := func(b *Body) Point {
			if p, ok := centers[b.Group]; ok {
				return p
			}
			return Point{X: cx, Y: cy}
		}
		sim.AddForce(ForceX, &PositionX{X: func(b *Body) float64 { return centerOf(b).X }, Strength: 0.5})
		sim.AddForce(ForceY, &PositionY{Y: func(b *Body) float64 { return centerOf(b).Y }, Strength: 0.5})
		sim.AddForce(ForceLink, &LinkForce{
			Links:    links,
			Distance: func(*Link) float64 { return 30 },
			Strength: func(*Link) float64 { return 0.2 },
		})
		sim.AddForce(ForceCharge, &ManyBody{Strength: -50})
		sim.AddForce(ForceCollision, &Collide{Radius: func(b *Body) float64 { return b.Radius + 5 }})
	}
	return sim, nil
}
