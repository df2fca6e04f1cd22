package sim

import (
	"math"

	"github.com/teranos/songnet/graph"
)

// Link pulls linked bodies toward a rest distance. Each link's correction
// is split by endpoint degree so hubs move less.
type Link struct {
	Links    []*graph.Edge
	Distance float64
	Strength float64

	bodies map[string]*Body
	bias   []float64
	random func() float64
}

// NewLink returns a link force over edges
func NewLink(edges []*graph.Edge, distance, strength float64) *Link {
	return &Link{Links: edges, Distance: distance, Strength: strength}
}

func (f *Link) Initialize(bodies []*Body, random func() float64) {
	f.random = random
	f.bodies = make(map[string]*Body, len(bodies))
	for _, b := range bodies {
		f.bodies[b.Node.ID] = b
	}

	count := make(map[string]int, len(bodies))
	for _, e := range f.Links {
		count[e.SourceID]++
		count[e.TargetID]++
	}

	f.bias = make([]float64, len(f.Links))
	for i, e := range f.Links {
		cs, ct := count[e.SourceID], count[e.TargetID]
		f.bias[i] = float64(cs) / float64(cs+ct)
	}
}

func (f *Link) Apply(alpha float64) {
	for i, e := range f.Links {
		source, okS := f.bodies[e.SourceID]
		target, okT := f.bodies[e.TargetID]
		if !okS || !okT {
			continue
		}

		x := target.Node.X + target.VX - source.Node.X - source.VX
		y := target.Node.Y + target.VY - source.Node.Y - source.VY
		if x == 0 {
			x = jiggle(f.random)
		}
		if y == 0 {
			y = jiggle(f.random)
		}

		l := math.Sqrt(x*x + y*y)
		l = (l - f.Distance) / l * alpha * f.Strength
		x *= l
		y *= l

		b := f.bias[i]
		target.VX -= x * b
		target.VY -= y * b
		source.VX += x * (1 - b)
		source.VY += y * (1 - b)
	}
}

// Center translates all bodies so their mean sits at (X, Y). It moves
// positions directly and leaves velocities alone.
type Center struct {
	X        float64
	Y        float64
	Strength float64

	bodies []*Body
}

// NewCenter returns a full-strength centering force
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (f *Center) Initialize(bodies []*Body, _ func() float64) {
	f.bodies = bodies
}

func (f *Center) Apply(float64) {
	n := len(f.bodies)
	if n == 0 {
		return
	}

	var sx, sy float64
	for _, b := range f.bodies {
		sx += b.Node.X
		sy += b.Node.Y
	}
	sx = (sx/float64(n) - f.X) * f.Strength
	sy = (sy/float64(n) - f.Y) * f.Strength

	for _, b := range f.bodies {
		b.Node.X -= sx
		b.Node.Y -= sy
	}
}

// Accessor reads a per-node value
type Accessor func(n *graph.Node) float64

// Constant returns an accessor ignoring the node
func Constant(v float64) Accessor {
	return func(*graph.Node) float64 { return v }
}

// Position nudges each body toward a per-node target along one axis
type Position struct {
	Axis     Axis
	Target   Accessor
	Strength float64

	bodies  []*Body
	targets []float64
}

// Axis selects the coordinate a Position force acts on
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// NewPositionX pulls bodies toward target(node) horizontally
func NewPositionX(target Accessor, strength float64) *Position {
	return &Position{Axis: AxisX, Target: target, Strength: strength}
}

// NewPositionY pulls bodies toward target(node) vertically
func NewPositionY(target Accessor, strength float64) *Position {
	return &Position{Axis: AxisY, Target: target, Strength: strength}
}

func (f *Position) Initialize(bodies []*Body, _ func() float64) {
	f.bodies = bodies
	f.targets = make([]float64, len(bodies))
	for i, b := range bodies {
		f.targets[i] = f.Target(b.Node)
	}
}

func (f *Position) Apply(alpha float64) {
	k := f.Strength * alpha
	for i, b := range f.bodies {
		if f.Axis == AxisX {
			b.VX += (f.targets[i] - b.Node.X) * k
		} else {
			b.VY += (f.targets[i] - b.Node.Y) * k
		}
	}
}
