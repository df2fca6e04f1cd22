// Package session is the public face of songnet: one owned visualization
// state driven by a single goroutine.
//
// Every public operation is posted to that goroutine and waits for it to
// run, and engine ticks are interleaved between operations. The layout
// controller, engine and highlight state are therefore never touched
// concurrently.
package session

import (
	"context"
	"time"

	"github.com/teranos/songnet/errors"
	"github.com/teranos/songnet/graph"
	"github.com/teranos/songnet/highlight"
	"github.com/teranos/songnet/layout"
	"github.com/teranos/songnet/logger"
	"github.com/teranos/songnet/render"
	"github.com/teranos/songnet/sim"
	"github.com/teranos/songnet/view"
	"go.uber.org/zap"
)

type op struct {
	fn     func() error
	result chan error
}

// Session owns one graph, its layout and its highlight state
type Session struct {
	ops  chan op
	done chan struct{}

	engine     *sim.Simulation
	controller *layout.Controller
	highlight  *highlight.Controller
	recorder   *render.Recorder

	buildOpts    graph.BuildOptions
	tickInterval time.Duration
	logger       *zap.SugaredLogger

	// settle waiters, touched only on the loop goroutine
	waiters []chan struct{}
}

// Status is a point-in-time summary of the session
type Status struct {
	Mode         layout.Mode     `json:"mode"`
	Filter       view.FilterMode `json:"filter"`
	Sort         view.SortMode   `json:"sort"`
	Generation   uint64          `json:"generation"`
	Settled      bool            `json:"settled"`
	EdgesVisible bool            `json:"edges_visible"`
	Visible      int             `json:"visible_nodes"`
	VisibleEdges int             `json:"visible_edges"`
	Groups       []string        `json:"groups"`
	Forces       []string        `json:"forces"`
	Search       string          `json:"search,omitempty"`
	Hovered      string          `json:"hovered,omitempty"`
	Stats        graph.Stats     `json:"stats"`
	Alpha        float64         `json:"alpha"`
}

// New wires the engine, controller and highlight state. Call Run to start
// processing operations.
func New(opts Options) (*Session, error) {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}

	s := &Session{
		ops:          make(chan op),
		done:         make(chan struct{}),
		engine:       sim.New(opts.Sim),
		recorder:     render.NewRecorder(),
		buildOpts:    opts.Build,
		tickInterval: opts.TickInterval,
		logger:       logger.ComponentLogger("session"),
	}

	pipeline := render.Fanout(append([]render.Pipeline{s.recorder}, opts.Pipelines...))

	controller, err := layout.NewController(s.engine, pipeline, opts.Params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create layout controller")
	}
	s.controller = controller
	s.highlight = highlight.New(pipeline, controller)

	controller.OnSync(s.highlight.Reapply)
	controller.OnSettle(func(uint64) { s.releaseWaiters() })

	return s, nil
}

// Run processes operations and engine ticks until ctx is done
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	defer close(s.done)

	s.logger.Debugw("Session loop started", "tick", s.tickInterval.String())

	for {
		select {
		case <-ctx.Done():
			s.logger.Debugw("Session loop stopped")
			return ctx.Err()

		case o := <-s.ops:
			o.result <- o.fn()

		case <-ticker.C:
			if s.engine.Running() {
				s.engine.Step()
			}
		}
	}
}

// Done is closed once Run has returned
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// do runs fn on the loop goroutine and returns its error
func (s *Session) do(fn func() error) error {
	o := op{fn: fn, result: make(chan error, 1)}

	select {
	case s.ops <- o:
	case <-s.done:
		return errors.ErrSessionClosed
	}

	select {
	case err := <-o.result:
		return err
	case <-s.done:
		return errors.ErrSessionClosed
	}
}

// UpdateLayout switches between force and radial and re-renders
func (s *Session) UpdateLayout(mode string) error {
	m, err := layout.ParseMode(mode)
	if err != nil {
		return err
	}
	return s.do(func() error {
		s.controller.SetMode(m)
		s.controller.Render()
		return nil
	})
}

// UpdateFilter switches between all, popular and obscure and re-renders
func (s *Session) UpdateFilter(mode string) error {
	f, err := view.ParseFilterMode(mode)
	if err != nil {
		return err
	}
	return s.do(func() error {
		s.controller.SetFilter(f)
		s.controller.Render()
		return nil
	})
}

// UpdateSort switches between songs and links and re-renders
func (s *Session) UpdateSort(mode string) error {
	m, err := view.ParseSortMode(mode)
	if err != nil {
		return err
	}
	return s.do(func() error {
		s.controller.SetSort(m)
		s.controller.Render()
		return nil
	})
}

// UpdateData builds a new graph from raw and swaps it in. A failed build
// leaves the current graph and layout untouched.
func (s *Session) UpdateData(raw graph.RawData) error {
	g, err := graph.Build(raw, s.buildOpts)
	if err != nil {
		return errors.Wrap(err, "failed to build graph")
	}

	return s.do(func() error {
		s.controller.SetGraph(g)
		s.controller.Render()

		stats := g.Stats()
		s.logger.Infow("Dataset loaded",
			logger.FieldNodes, stats.TotalNodes,
			logger.FieldLinks, stats.TotalEdges,
			logger.FieldGroups, stats.TotalArtists,
			"max_degree", stats.MaxDegree)
		return nil
	})
}

// UpdateSearch marks matching visible songs and returns their ids
func (s *Session) UpdateSearch(term string) ([]string, error) {
	var matches []string
	err := s.do(func() error {
		matches = s.highlight.Search(term)
		return nil
	})
	return matches, err
}

// HoverEnter highlights a visible node and its neighbours
func (s *Session) HoverEnter(id string) error {
	return s.do(func() error {
		n := s.controller.Graph().Node(id)
		if n == nil || !s.isVisible(id) {
			return errors.NewNotFoundError("node %q is not visible", id)
		}
		s.highlight.HoverEnter(n)
		return nil
	})
}

// HoverExit clears hover emphasis
func (s *Session) HoverExit() error {
	return s.do(func() error {
		s.highlight.HoverExit()
		return nil
	})
}

func (s *Session) isVisible(id string) bool {
	for _, n := range s.controller.Visible().Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// Snapshot copies what is currently drawn. Safe from any goroutine.
func (s *Session) Snapshot() render.Snapshot {
	return s.recorder.Snapshot()
}

// Status summarizes the session state
func (s *Session) Status() (Status, error) {
	var st Status
	err := s.do(func() error {
		c := s.controller
		vs := c.Visible()
		st = Status{
			Mode:         c.Mode(),
			Filter:       c.Filter(),
			Sort:         c.Sort(),
			Generation:   c.Generation(),
			Settled:      c.Settled(),
			EdgesVisible: c.EdgesVisible(),
			Visible:      len(vs.Nodes),
			VisibleEdges: len(vs.Edges),
			Groups:       c.Groups(),
			Forces:       c.ActiveForces(),
			Search:       s.highlight.Term(),
			Hovered:      s.highlight.Hovered(),
			Stats:        c.Graph().Stats(),
			Alpha:        s.engine.Alpha(),
		}
		return nil
	})
	return st, err
}

// WaitSettled blocks until the current layout has settled. Returns
// ErrNoData when nothing has been loaded.
func (s *Session) WaitSettled(ctx context.Context) error {
	var ch chan struct{}
	err := s.do(func() error {
		if s.controller.Graph() == nil {
			return errors.ErrNoData
		}
		ch = make(chan struct{})
		if s.controller.Settled() {
			close(ch)
			return nil
		}
		s.waiters = append(s.waiters, ch)
		return nil
	})
	if err != nil {
		return err
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return errors.ErrSessionClosed
	}
}

func (s *Session) releaseWaiters() {
	for _, ch := range s.waiters {
		close(ch)
	}
	s.waiters = nil
}
