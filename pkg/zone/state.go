package zone

import (
	"math"

	"ratwalk/pkg/graph"
	"ratwalk/pkg/mathkernel"
	"ratwalk/pkg/prng"
)

const (
	// baseILF is the floor of a node's ideal load factor before its
	// neighbor-imbalance adjustment.
	baseILF = 1.75
	// batchFraction sets the batch size as a fraction of the rat count.
	batchFraction = 0.02
	// binaryThreshold is the window length below which locateValue
	// switches from binary to linear search.
	binaryThreshold = 4
)

// ExportedRat is one rat migrating to a peer zone this batch: its global
// id, the node it lands on (owned by the peer), and the PRNG seed it
// carries so the receiver's draws continue the same stream.
type ExportedRat struct {
	RatID  int
	NodeID int
	Seed   prng.Seed
}

// State is one zone worker's simulation state.
type State struct {
	Graph      *graph.Graph
	Setup      *Setup
	GlobalSeed prng.Seed

	NRat       int
	LoadFactor float64
	BatchSize  int

	RatPosition []int
	RatSeed     []prng.Seed
	OwnedRat    []bool // zone_rat_bitvector

	RatCount   map[int]int     // owned + import nodes
	NodeWeight map[int]float64 // owned + import nodes

	SumWeight           map[int]float64   // owned nodes only
	NeighborAccumWeight map[int][]float64 // owned nodes only, parallel to Graph.Neighbors(n)

	// Export is the outgoing rat buffer per peer zone, cleared at the
	// start of every batch.
	Export map[int][]ExportedRat
}

// NewState allocates a zone's simulation state for the given initial rat
// positions (one entry per rat, indexed by global rat id) and seeds every
// rat's PRNG stream identically to every other zone, so that a rat that
// later migrates resumes on a coherent stream on its new owner.
func NewState(g *graph.Graph, setup *Setup, positions []int, globalSeed prng.Seed) *State {
	nrat := len(positions)
	s := &State{
		Graph:               g,
		Setup:               setup,
		GlobalSeed:          globalSeed,
		NRat:                nrat,
		LoadFactor:          float64(nrat) / float64(g.NumNodes),
		RatPosition:         append([]int(nil), positions...),
		RatSeed:             make([]prng.Seed, nrat),
		OwnedRat:            make([]bool, nrat),
		RatCount:            make(map[int]int),
		NodeWeight:          make(map[int]float64),
		SumWeight:           make(map[int]float64),
		NeighborAccumWeight: make(map[int][]float64),
		Export:              make(map[int][]ExportedRat),
	}

	rpct := int(batchFraction * float64(nrat))
	sroot := int(math.Sqrt(float64(nrat)))
	if rpct > sroot {
		s.BatchSize = rpct
	} else {
		s.BatchSize = sroot
	}

	for r := 0; r < nrat; r++ {
		s.RatSeed[r] = prng.Reseed(uint32(globalSeed), uint32(r))
		s.OwnedRat[r] = g.ZoneID[positions[r]] == setup.ThisZone
	}

	for _, n := range setup.LocalNodeList {
		s.RatCount[n] = 0
		s.NodeWeight[n] = 0
	}
	for _, peerNodes := range setup.ImportList {
		for _, n := range peerNodes {
			s.RatCount[n] = 0
			s.NodeWeight[n] = 0
		}
	}
	for _, z := range setup.Peers {
		s.Export[z] = nil
	}

	return s
}

// TakeCensus recomputes rat_count for every owned node from rat_position.
// Only valid before any rat has migrated, when every owned rat's position
// is guaranteed to be one of this zone's own nodes; idempotent as long as
// rat_position is unchanged in between calls.
func (s *State) TakeCensus() {
	for _, n := range s.Setup.LocalNodeList {
		s.RatCount[n] = 0
	}
	for r := 0; r < s.NRat; r++ {
		if s.OwnedRat[r] {
			s.RatCount[s.RatPosition[r]]++
		}
	}
}

// neighborILF computes a node's ideal load factor from the current rat
// counts at it and its grid neighbors (excluding its self-edge).
func (s *State) neighborILF(n int) float64 {
	neighbors := s.Graph.Neighbors(n)
	outdegree := len(neighbors) - 1
	if outdegree <= 0 {
		// Isolated node: no neighbor imbalance to average over.
		return baseILF
	}
	lcount := float64(s.RatCount[n])
	sum := 0.0
	for _, m := range neighbors[1:] {
		sum += mathkernel.Imbalance(lcount, float64(s.RatCount[m]))
	}
	return baseILF + 0.5*(sum/float64(outdegree))
}

func (s *State) computeWeight(n int) float64 {
	ilf := s.neighborILF(n)
	return mathkernel.MoveWeight(float64(s.RatCount[n])/s.LoadFactor, ilf)
}

// ComputeAllWeights recomputes node_weight for every owned node. Call only
// once rat_count is current at the node and at every one of its neighbors,
// owned or imported.
func (s *State) ComputeAllWeights() {
	for _, n := range s.Setup.LocalNodeList {
		s.NodeWeight[n] = s.computeWeight(n)
	}
}
