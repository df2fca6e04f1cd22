package testing

import (
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/sim"
)

// FakeEngine records how it was configured and lets tests fire callbacks
// by hand.
type FakeEngine struct {
	Calls   []string
	Active  []*graph.Node
	Forces  map[string]sim.Force
	Running bool

	step   func()
	settle func()
}

// NewFakeEngine returns a paused engine with no forces
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{Forces: make(map[string]sim.Force)}
}

func (e *FakeEngine) SetActiveNodes(nodes []*graph.Node) {
	e.Calls = append(e.Calls, "SetActiveNodes")
	e.Active = nodes
}

func (e *FakeEngine) SetForce(name string, f sim.Force) {
	e.Calls = append(e.Calls, "SetForce:"+name)
	if f == nil {
		delete(e.Forces, name)
		return
	}
	e.Forces[name] = f
}

func (e *FakeEngine) Restart() {
	e.Calls = append(e.Calls, "Restart")
	e.Running = true
}

func (e *FakeEngine) Pause() {
	e.Calls = append(e.Calls, "Pause")
	e.Running = false
}

func (e *FakeEngine) OnStep(fn func()) {
	e.Calls = append(e.Calls, "OnStep")
	e.step = fn
}

func (e *FakeEngine) OnSettle(fn func()) {
	e.Calls = append(e.Calls, "OnSettle")
	e.settle = fn
}

// StepCallback returns the currently registered step callback
func (e *FakeEngine) StepCallback() func() {
	return e.step
}

// SettleCallback returns the currently registered settle callback
func (e *FakeEngine) SettleCallback() func() {
	return e.settle
}

// FireStep runs the registered step callback
func (e *FakeEngine) FireStep() {
	if e.step != nil {
		e.step()
	}
}

// FireSettle stops the engine and runs the registered settle callback
func (e *FakeEngine) FireSettle() {
	e.Running = false
	if e.settle != nil {
		e.settle()
	}
}

// ResetCalls clears the call log
func (e *FakeEngine) ResetCalls() {
	e.Calls = nil
}
