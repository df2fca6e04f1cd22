// Package testing holds fixtures shared by songnet tests.
package testing

import (
	"testing"

	"github.com/teranos/songnet/graph"
)

// SampleRaw is a small dataset with three artists, a median playcount of 40
// and one isolated song.
//
//	id  name          artist    playcount
//	1   Alpha         Aurora    10
//	2   Beta          Aurora    80
//	3   Gamma Ray     Borealis  40
//	4   Delta         Borealis  55
//	5   Epsilon       Cygnus    20
//	6   Alphabet Soup Cygnus    40
//	7   Zeta          Cygnus    90
func SampleRaw() graph.RawData {
	return graph.RawData{
		Nodes: []graph.RawNode{
			{ID: "1", Name: "Alpha", Artist: "Aurora", Playcount: 10},
			{ID: "2", Name: "Beta", Artist: "Aurora", Playcount: 80},
			{ID: "3", Name: "Gamma Ray", Artist: "Borealis", Playcount: 40},
			{ID: "4", Name: "Delta", Artist: "Borealis", Playcount: 55},
			{ID: "5", Name: "Epsilon", Artist: "Cygnus", Playcount: 20},
			{ID: "6", Name: "Alphabet Soup", Artist: "Cygnus", Playcount: 40},
			{ID: "7", Name: "Zeta", Artist: "Cygnus", Playcount: 90},
		},
		Links: []graph.RawLink{
			{Source: "1", Target: "2"},
			{Source: "2", Target: "3"},
			{Source: "4", Target: "2"},
			{Source: "3", Target: "5"},
			{Source: "7", Target: "4"},
		},
	}
}

// SampleJSON is SampleRaw's first three songs and their one link as JSON
const SampleJSON = `{
  "nodes": [
    {"id": "1", "name": "Alpha", "artist": "Aurora", "playcount": 10},
    {"id": "2", "name": "Beta", "artist": "Aurora", "playcount": 80},
    {"id": "3", "name": "Gamma Ray", "artist": "Borealis", "playcount": 40}
  ],
  "links": [
    {"source": "1", "target": "2"}
  ]
}`

// SampleYAML is the same dataset as SampleJSON
const SampleYAML = `nodes:
  - id: "1"
    name: Alpha
    artist: Aurora
    playcount: 10
  - id: "2"
    name: Beta
    artist: Aurora
    playcount: 80
  - id: "3"
    name: Gamma Ray
    artist: Borealis
    playcount: 40
links:
  - source: "1"
    target: "2"
`

// SampleTOML is the same dataset as SampleJSON
const SampleTOML = `[[nodes]]
id = "1"
name = "Alpha"
artist = "Aurora"
playcount = 10

[[nodes]]
id = "2"
name = "Beta"
artist = "Aurora"
playcount = 80

[[nodes]]
id = "3"
name = "Gamma Ray"
artist = "Borealis"
playcount = 40

[[links]]
source = "1"
target = "2"
`

// SampleGraph builds SampleRaw with default radii
func SampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return MustBuild(t, SampleRaw())
}

// MustBuild builds raw with default options and fails the test on error
func MustBuild(t *testing.T, raw graph.RawData) *graph.Graph {
	t.Helper()
	g, err := graph.Build(raw, graph.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("Failed to build graph: %v", err)
	}
	return g
}

// IDs returns node ids in order
func IDs(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

// EdgeIDs returns edge ids in order
func EdgeIDs(edges []*graph.Edge) []string {
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = e.ID
	}
	return out
}
