// Package zoning assigns a zone id to every region of a graph by ordering
// regions on a balance-relevant key and handing the ordered weights to the
// linear partitioner.
package zoning

import (
	"sort"

	"ratwalk/internal/simerr"
	"ratwalk/pkg/mathkernel"
	"ratwalk/pkg/partition"
)

// RegionStats is the subset of a region's fields the assigner needs: its
// index in the caller's region list, and the two candidate balance keys.
type RegionStats struct {
	Index      int
	NodeCount  int
	EdgeCount  int
}

// WeightKey names which region statistic was used as the balance and sort
// key.
type WeightKey int

const (
	// ByNodeCount balances zones on region node counts.
	ByNodeCount WeightKey = iota
	// ByEdgeCount balances zones on region edge counts (including
	// self-edges).
	ByEdgeCount
)

func (k WeightKey) String() string {
	if k == ByEdgeCount {
		return "edge_count"
	}
	return "node_count"
}

// AssignZones orders regions ascending by whichever of node count or edge
// count has the larger raw standard deviation across regions (balancing on
// the more variable quantity gives the partitioner more to work with), runs
// the linear partitioner over that ordering, and returns a slice parallel to
// regions giving each region's assigned zone id in [0, nzone).
//
// nzone must be >= 1. Returns simerr.ErrInvariantViolation if nzone <= 0 or
// regions is empty while nzone > 0 (no region to own a zone).
func AssignZones(regions []RegionStats, nzone int) ([]int, WeightKey, error) {
	if nzone <= 0 {
		return nil, 0, simerr.Wrap(simerr.ErrInvariantViolation, "zone count must be positive, got %d", nzone)
	}
	if len(regions) == 0 {
		return nil, 0, simerr.Wrap(simerr.ErrInvariantViolation, "cannot assign zones with zero regions")
	}

	nodeCounts := make([]float64, len(regions))
	edgeCounts := make([]float64, len(regions))
	for i, r := range regions {
		nodeCounts[i] = float64(r.NodeCount)
		edgeCounts[i] = float64(r.EdgeCount)
	}

	key := ByNodeCount
	if mathkernel.StdDev(edgeCounts) > mathkernel.StdDev(nodeCounts) {
		key = ByEdgeCount
	}

	ordered := make([]RegionStats, len(regions))
	copy(ordered, regions)
	keyValue := func(r RegionStats) int {
		if key == ByEdgeCount {
			return r.EdgeCount
		}
		return r.NodeCount
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return keyValue(ordered[i]) < keyValue(ordered[j])
	})

	weights := make([]float64, len(ordered))
	for i, r := range ordered {
		weights[i] = float64(keyValue(r))
	}

	groupSizes := partition.FindPartition(weights, nzone)

	zoneOf := make([]int, len(regions))
	pos := 0
	for zone, size := range groupSizes {
		for i := 0; i < size; i++ {
			zoneOf[ordered[pos].Index] = zone
			pos++
		}
	}

	return zoneOf, key, nil
}
