// Package sim is a small force-directed simulation engine. It integrates
// velocities with decaying energy (alpha) and reports every step and the
// moment it settles.
//
// A Simulation is not safe for concurrent use. The session drives it from
// its own goroutine.
package sim

import (
	"math"

	"github.com/teranos/songnet/graph"
)

const (
	initialRadius = 10
	// golden angle, spreads unplaced nodes on a sunflower spiral
	initialAngle = math.Pi * (3 - 2.23606797749979)

	// alpha decays from 1 to AlphaMin in roughly this many steps
	settleSteps = 300
)

// Body is the simulation's view of a node: the node plus its velocity
type Body struct {
	Node  *graph.Node
	Index int
	VX    float64
	VY    float64
}

// Force mutates body velocities (or positions) once per step
type Force interface {
	// Initialize is called whenever the active body set changes
	Initialize(bodies []*Body, random func() float64)
	// Apply runs the force at the given alpha
	Apply(alpha float64)
}

// Config tunes the integrator
type Config struct {
	VelocityDecay float64
	AlphaMin      float64
	// Origin is where never-placed nodes are seeded
	Origin [2]float64
}

// DefaultConfig returns velocity decay 0.2 and alpha min 0.1
func DefaultConfig() Config {
	return Config{VelocityDecay: 0.2, AlphaMin: 0.1}
}

// Simulation holds the active bodies and named forces
type Simulation struct {
	cfg Config

	bodies []*Body
	byID   map[string]*Body

	forces map[string]Force
	order  []string

	alpha       float64
	alphaDecay  float64
	alphaTarget float64
	running     bool
	steps       int

	onStep   func()
	onSettle func()

	random func() float64
}

// New returns a paused simulation with no bodies
func New(cfg Config) *Simulation {
	alphaMin := cfg.AlphaMin
	if alphaMin <= 0 || alphaMin >= 1 {
		alphaMin = DefaultConfig().AlphaMin
	}
	cfg.AlphaMin = alphaMin

	return &Simulation{
		cfg:        cfg,
		byID:       make(map[string]*Body),
		forces:     make(map[string]Force),
		alpha:      1,
		alphaDecay: 1 - math.Pow(alphaMin, 1.0/settleSteps),
		random:     newLCG(),
	}
}

// SetActiveNodes replaces the body set. Velocities survive for nodes that
// stay active. Nodes never placed before are seeded on a spiral around Origin.
func (s *Simulation) SetActiveNodes(nodes []*graph.Node) {
	bodies := make([]*Body, len(nodes))
	byID := make(map[string]*Body, len(nodes))

	for i, n := range nodes {
		b, ok := s.byID[n.ID]
		if !ok || b.Node != n {
			b = &Body{Node: n}
		}
		b.Index = i

		if !n.Placed || math.IsNaN(n.X) || math.IsNaN(n.Y) {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			n.X = s.cfg.Origin[0] + radius*math.Cos(angle)
			n.Y = s.cfg.Origin[1] + radius*math.Sin(angle)
			n.Placed = true
		}
		if math.IsNaN(b.VX) || math.IsNaN(b.VY) {
			b.VX, b.VY = 0, 0
		}

		bodies[i] = b
		byID[n.ID] = b
	}

	s.bodies = bodies
	s.byID = byID

	for _, name := range s.order {
		s.forces[name].Initialize(s.bodies, s.random)
	}
}

// SetForce registers f under name, replacing any previous force. A nil force
// removes the name.
func (s *Simulation) SetForce(name string, f Force) {
	if f == nil {
		if _, ok := s.forces[name]; ok {
			delete(s.forces, name)
			for i, n := range s.order {
				if n == name {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		}
		return
	}

	if _, ok := s.forces[name]; !ok {
		s.order = append(s.order, name)
	}
	f.Initialize(s.bodies, s.random)
	s.forces[name] = f
}

// Force returns the force registered under name, or nil
func (s *Simulation) Force(name string) Force {
	return s.forces[name]
}

// ForceNames lists registered forces in registration order
func (s *Simulation) ForceNames() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Restart resets alpha to 1 and resumes stepping
func (s *Simulation) Restart() {
	s.alpha = 1
	s.steps = 0
	s.running = true
}

// Pause stops stepping. Alpha is kept.
func (s *Simulation) Pause() {
	s.running = false
}

// OnStep replaces the per-step callback
func (s *Simulation) OnStep(fn func()) {
	s.onStep = fn
}

// OnSettle replaces the settle callback
func (s *Simulation) OnSettle(fn func()) {
	s.onSettle = fn
}

// Running reports whether Step will advance the simulation
func (s *Simulation) Running() bool {
	return s.running
}

// Alpha is the current energy
func (s *Simulation) Alpha() float64 {
	return s.alpha
}

// Steps counts steps since the last Restart
func (s *Simulation) Steps() int {
	return s.steps
}

// Bodies returns the active bodies in node order
func (s *Simulation) Bodies() []*Body {
	return s.bodies
}

// Step advances one tick. It fires the step callback, and the settle
// callback once alpha drops below AlphaMin. Returns whether the simulation
// is still running afterwards.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}

	s.tick()
	s.steps++

	if s.onStep != nil {
		s.onStep()
	}

	if s.alpha < s.cfg.AlphaMin {
		s.running = false
		if s.onSettle != nil {
			s.onSettle()
		}
	}
	return s.running
}

// Run steps until settled or maxSteps, whichever comes first. Returns the
// number of steps taken.
func (s *Simulation) Run(maxSteps int) int {
	n := 0
	for n < maxSteps && s.running {
		s.Step()
		n++
	}
	return n
}

func (s *Simulation) tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, name := range s.order {
		s.forces[name].Apply(s.alpha)
	}

	keep := 1 - s.cfg.VelocityDecay
	for _, b := range s.bodies {
		b.VX *= keep
		b.VY *= keep
		b.Node.X += b.VX
		b.Node.Y += b.VY
	}
}
