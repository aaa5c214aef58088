// Package graph builds the CSR-style grid graph the simulator runs on:
// nodes numbered [0, N) row-major over a W x H grid, undirected edges
// stored as two directed half-edges, and a canonical self-edge prepended to
// every node's adjacency list.
package graph

import (
	"ratwalk/pkg/zoning"
)

// Region is a rectangular block of nodes declared in the graph file. It is
// the unit the zone assigner balances over.
type Region struct {
	X, Y, W, H int
	NodeCount  int
	EdgeCount  int
	ZoneID     int
}

// Graph is the immutable, once-built adjacency structure shared read-only by
// every zone worker.
type Graph struct {
	Width, Height int
	NumNodes      int

	// NeighborStart has length NumNodes+1; node n's adjacency list is
	// Neighbor[NeighborStart[n]:NeighborStart[n+1]], self-edge first.
	NeighborStart []int
	Neighbor      []int

	// ZoneID has length NumNodes and is populated by AssignZones.
	ZoneID []int

	Regions []Region
}

// NodeID returns the row-major id of grid cell (x, y).
func (g *Graph) NodeID(x, y int) int {
	return y*g.Width + x
}

// Neighbors returns node n's adjacency list, self-edge first.
func (g *Graph) Neighbors(n int) []int {
	return g.Neighbor[g.NeighborStart[n]:g.NeighborStart[n+1]]
}

// Degree returns the length of node n's adjacency list, including its
// self-edge.
func (g *Graph) Degree(n int) int {
	return g.NeighborStart[n+1] - g.NeighborStart[n]
}

// AssignZones partitions the graph's regions into nzone zones via
// pkg/zoning and propagates each region's zone id to every node it
// contains. It must be called once, after ReadGraph and before any zone
// worker derives its local state from g.ZoneID.
func AssignZones(g *Graph, nzone int) (zoning.WeightKey, error) {
	stats := make([]zoning.RegionStats, len(g.Regions))
	for i, r := range g.Regions {
		stats[i] = zoning.RegionStats{Index: i, NodeCount: r.NodeCount, EdgeCount: r.EdgeCount}
	}

	zoneOf, key, err := zoning.AssignZones(stats, nzone)
	if err != nil {
		return key, err
	}

	g.ZoneID = make([]int, g.NumNodes)
	for i := range g.Regions {
		zid := zoneOf[i]
		g.Regions[i].ZoneID = zid
		r := g.Regions[i]
		for dx := r.X; dx < r.X+r.W; dx++ {
			for dy := r.Y; dy < r.Y+r.H; dy++ {
				g.ZoneID[g.NodeID(dx, dy)] = zid
			}
		}
	}
	return key, nil
}
