package layout

import (
	"strings"

	"github.com/teranos/songnet/graph"
	grapherror "github.com/teranos/songnet/graph/error"
	"github.com/teranos/songnet/sim"
)

// Mode is the spatial arrangement strategy
type Mode string

const (
	ModeForce  Mode = "force"
	ModeRadial Mode = "radial"
)

// ParseMode accepts force or radial (case-insensitive)
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeForce, ModeRadial:
		return m, nil
	}
	return "", grapherror.NewInvalidMode("layout", s, string(ModeForce), string(ModeRadial))
}

// Force names registered on the engine
const (
	ForceLinks  = "links"
	ForceCenter = "center"
	ForceCharge = "charge"
	ForceX      = "x"
	ForceY      = "y"
)

// ForceNames lists every name a ForceSet covers, in apply order
var ForceNames = []string{ForceLinks, ForceCenter, ForceCharge, ForceX, ForceY}

// ForceSet maps every force name to a force, or nil to remove it
type ForceSet map[string]sim.Force

// Engine is the force simulation the controller configures. Callbacks
// replace any previously registered ones.
type Engine interface {
	SetActiveNodes(nodes []*graph.Node)
	SetForce(name string, f sim.Force)
	Restart()
	Pause()
	OnStep(fn func())
	OnSettle(fn func())
}
