package sim

import (
	"math"

	"github.com/teranos/songnet/graph"
)

// ManyBody applies pairwise charge between all bodies. Negative strength
// repels. Pairs closer than sqrt(DistanceMin2) are softened.
type ManyBody struct {
	Strength     Accessor
	DistanceMin2 float64
	DistanceMax2 float64

	bodies    []*Body
	strengths []float64
	random    func() float64
}

// NewManyBody returns a charge force with a per-node strength
func NewManyBody(strength Accessor) *ManyBody {
	return &ManyBody{
		Strength:     strength,
		DistanceMin2: 1,
		DistanceMax2: math.Inf(1),
	}
}

// ChargeByRadius returns -(r^2)*k for each node
func ChargeByRadius(k float64) Accessor {
	return func(n *graph.Node) float64 {
		return -(n.Radius * n.Radius) * k
	}
}

func (f *ManyBody) Initialize(bodies []*Body, random func() float64) {
	f.bodies = bodies
	f.random = random
	f.strengths = make([]float64, len(bodies))
	for i, b := range bodies {
		f.strengths[i] = f.Strength(b.Node)
	}
}

func (f *ManyBody) Apply(alpha float64) {
	for i, b := range f.bodies {
		for j, other := range f.bodies {
			if i == j {
				continue
			}

			x := other.Node.X - b.Node.X
			y := other.Node.Y - b.Node.Y
			l := x*x + y*y
			if l >= f.DistanceMax2 {
				continue
			}

			if x == 0 {
				x = jiggle(f.random)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.random)
				l += y * y
			}
			if l < f.DistanceMin2 {
				l = math.Sqrt(f.DistanceMin2 * l)
			}

			w := f.strengths[j] * alpha / l
			b.VX += x * w
			b.VY += y * w
		}
	}
}
