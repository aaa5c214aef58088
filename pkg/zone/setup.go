// Package zone derives a single worker's view of the shared graph: which
// nodes it owns, which peer zones it shares a boundary with, and the
// per-rat simulation state and batch kernel that move rats across that
// boundary.
package zone

import (
	"sort"

	"ratwalk/pkg/graph"
)

// Setup is the boundary topology a zone worker derives from the
// already zone-assigned graph, once, before the simulation starts.
type Setup struct {
	ThisZone int
	NZone    int

	// LocalNodeList is this zone's owned nodes, ascending by id.
	LocalNodeList  []int
	LocalEdgeCount int

	// ImportList[z'] holds the nodes owned by z' that border this zone,
	// ascending by id. ExportList[z'] holds this zone's nodes that border
	// z', which come out ascending for free because LocalNodeList does.
	ImportList [][]int
	ExportList [][]int

	// Peers is the ascending set of zones this zone borders in either
	// direction. Every boundary exchange iterates only over Peers: a rat
	// can only migrate to a zone one hop from an owned node, so Peers
	// bounds every possible exchange participant, not just the static
	// node-count/weight traffic.
	Peers []int
}

// NewSetup derives a zone's local/boundary node sets from g, which must
// already have zone ids assigned (graph.AssignZones).
func NewSetup(g *graph.Graph, thisZone, nzone int) *Setup {
	s := &Setup{
		ThisZone:   thisZone,
		NZone:      nzone,
		ImportList: make([][]int, nzone),
		ExportList: make([][]int, nzone),
	}

	imported := make([]bool, g.NumNodes)
	// exportGen[z'] holds the local-node generation at which z' last
	// received an export entry, so a node with several neighbors in the
	// same peer zone is appended to that peer's export list only once.
	exportGen := make([]int, nzone)
	gen := 0

	for n := 0; n < g.NumNodes; n++ {
		if g.ZoneID[n] != thisZone {
			continue
		}
		s.LocalNodeList = append(s.LocalNodeList, n)
		s.LocalEdgeCount += g.Degree(n)
		gen++

		for _, m := range g.Neighbors(n) {
			peer := g.ZoneID[m]
			if peer == thisZone {
				continue
			}
			if !imported[m] {
				imported[m] = true
				s.ImportList[peer] = append(s.ImportList[peer], m)
			}
			if exportGen[peer] != gen {
				exportGen[peer] = gen
				s.ExportList[peer] = append(s.ExportList[peer], n)
			}
		}
	}

	for z := 0; z < nzone; z++ {
		sort.Ints(s.ImportList[z])
		if len(s.ImportList[z]) > 0 || len(s.ExportList[z]) > 0 {
			s.Peers = append(s.Peers, z)
		}
	}

	return s
}
