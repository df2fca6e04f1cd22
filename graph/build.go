package graph

import (
	"fmt"

	grapherror "github.com/teranos/songnet/graph/error"
	"github.com/teranos/songnet/logger"
)

// Build resolves raw records into a Graph.
//
// Radius is derived over the dataset's playcount extent, ids must be unique,
// and every link must name existing nodes. A dangling link fails the whole
// load with a *grapherror.DanglingReferenceError in the chain. The adjacency
// index is always built from scratch.
func Build(raw RawData, opts BuildOptions) (*Graph, error) {
	log := logger.Logger.Named("graph")

	lo, hi := extent(raw.Nodes)
	scale := NewRadiusScale(lo, hi, opts)

	g := &Graph{
		Nodes:     make([]*Node, 0, len(raw.Nodes)),
		Edges:     make([]*Edge, 0, len(raw.Links)),
		Adjacency: make(AdjacencyIndex, 2*len(raw.Links)),
		byID:      make(map[string]*Node, len(raw.Nodes)),
		degree:    make(map[string]int, len(raw.Nodes)),
	}

	for i, rn := range raw.Nodes {
		if rn.Playcount < 0 {
			return nil, grapherror.Newf(grapherror.CategoryGraph,
				fmt.Sprintf("Song %q has a negative playcount", rn.ID),
				"node %d (%q): playcount %g must be >= 0", i, rn.ID, rn.Playcount).
				WithSubcategory(grapherror.SubcategoryGraphValidate).
				WithContext(logger.FieldNodeID, rn.ID)
		}
		if _, exists := g.byID[rn.ID]; exists {
			return nil, grapherror.Newf(grapherror.CategoryGraph,
				fmt.Sprintf("Song id %q appears more than once", rn.ID),
				"node %d: duplicate id %q", i, rn.ID).
				WithSubcategory(grapherror.SubcategoryGraphValidate).
				WithContext(logger.FieldNodeID, rn.ID)
		}

		n := &Node{
			ID:        rn.ID,
			Name:      rn.Name,
			Artist:    rn.Artist,
			Playcount: rn.Playcount,
			Radius:    scale.Scale(rn.Playcount),
		}
		g.Nodes = append(g.Nodes, n)
		g.byID[n.ID] = n
	}

	for i, rl := range raw.Links {
		source, ok := g.byID[rl.Source]
		if !ok {
			return nil, grapherror.NewDanglingReference(i, grapherror.EndpointSource, rl.Source)
		}
		target, ok := g.byID[rl.Target]
		if !ok {
			return nil, grapherror.NewDanglingReference(i, grapherror.EndpointTarget, rl.Target)
		}

		g.Edges = append(g.Edges, &Edge{
			ID:       EdgeID(source.ID, target.ID),
			SourceID: source.ID,
			TargetID: target.ID,
			Source:   source,
			Target:   target,
		})
		g.Adjacency.add(source.ID, target.ID)
		g.degree[source.ID]++
		g.degree[target.ID]++
	}

	log.Debugw("Graph built",
		logger.FieldNodes, len(g.Nodes),
		logger.FieldLinks, len(g.Edges),
		"playcount_min", lo,
		"playcount_max", hi)

	return g, nil
}
