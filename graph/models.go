package graph

// Separators used for derived keys
const (
	EdgeIDSeparator    = "_"
	AdjacencySeparator = ","
)

// Node is one song. Node lifetime is owned by the Graph.
type Node struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Artist    string  `json:"artist"` // Group key for radial clustering
	Playcount float64 `json:"playcount"`
	Radius    float64 `json:"radius"` // Derived from playcount on each load
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Searched  bool    `json:"searched"`

	// Placed is set by the engine once it has given the node an initial position
	Placed bool `json:"-"`
}

// Edge connects two songs. Source and Target reference nodes owned by the Graph.
type Edge struct {
	ID       string `json:"id"`
	SourceID string `json:"source"`
	TargetID string `json:"target"`
	Source   *Node  `json:"-"`
	Target   *Node  `json:"-"`
}

// Graph is the resolved song graph, rebuilt wholesale on every data load
type Graph struct {
	Nodes     []*Node
	Edges     []*Edge
	Adjacency AdjacencyIndex

	byID   map[string]*Node
	degree map[string]int
}

// RawData is the inbound dataset shape shared by JSON, YAML and TOML
type RawData struct {
	Nodes []RawNode `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links []RawLink `json:"links" yaml:"links" toml:"links"`
}

// RawNode is one song record before radius derivation
type RawNode struct {
	ID        string  `json:"id" yaml:"id" toml:"id"`
	Name      string  `json:"name" yaml:"name" toml:"name"`
	Artist    string  `json:"artist" yaml:"artist" toml:"artist"`
	Playcount float64 `json:"playcount" yaml:"playcount" toml:"playcount"`
}

// RawLink names its endpoints by node id
type RawLink struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

// BuildOptions bounds the playcount -> radius scale
type BuildOptions struct {
	MinRadius float64
	MaxRadius float64
}

// DefaultBuildOptions matches the default node radius config
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{MinRadius: 3, MaxRadius: 12}
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes   int `json:"total_nodes"`
	TotalEdges   int `json:"total_edges"`
	TotalArtists int `json:"total_artists"`
	MaxDegree    int `json:"max_degree"`
}

// EdgeID derives the edge identity from its endpoints
func EdgeID(sourceID, targetID string) string {
	return sourceID + EdgeIDSeparator + targetID
}

// Node returns the node with the given id, or nil
func (g *Graph) Node(id string) *Node {
	if g == nil {
		return nil
	}
	return g.byID[id]
}

// Degree counts the edges incident to a node. A self link counts twice.
func (g *Graph) Degree(id string) int {
	if g == nil {
		return 0
	}
	return g.degree[id]
}

// Stats returns node, edge and distinct artist counts and the highest degree
func (g *Graph) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	artists := make(map[string]struct{})
	maxDegree := 0
	for _, n := range g.Nodes {
		artists[n.Artist] = struct{}{}
		if d := g.Degree(n.ID); d > maxDegree {
			maxDegree = d
		}
	}
	return Stats{
		TotalNodes:   len(g.Nodes),
		TotalEdges:   len(g.Edges),
		TotalArtists: len(artists),
		MaxDegree:    maxDegree,
	}
}
