package zone

import "ratwalk/pkg/prng"

// FindAllSums computes sum_weight and the running prefix sum of
// node_weight along each owned node's adjacency list (self-edge first).
// Requires node_weight to be current at the node and at every one of its
// neighbors, owned or imported.
func (s *State) FindAllSums() {
	for _, n := range s.Setup.LocalNodeList {
		neighbors := s.Graph.Neighbors(n)
		accum := make([]float64, len(neighbors))
		sum := 0.0
		for i, m := range neighbors {
			sum += s.NodeWeight[m]
			accum[i] = sum
		}
		s.SumWeight[n] = sum
		s.NeighborAccumWeight[n] = accum
	}
}

func locateValueLinear(target float64, list []float64) int {
	for i, v := range list {
		if target < v {
			return i
		}
	}
	return -1
}

// LocateValue returns the smallest i with target < list[i], for a
// non-decreasing list and a target strictly below list's last element.
// Binary search down to a window of length binaryThreshold, then linear.
func LocateValue(target float64, list []float64) int {
	left, right := 0, len(list)-1
	for left < right {
		if right-left+1 < binaryThreshold {
			return left + locateValueLinear(target, list[left:right+1])
		}
		mid := left + (right-left)/2
		if target < list[mid] {
			right = mid
		} else {
			left = mid + 1
		}
	}
	return right
}

// nextMove draws rat rid's next node, advancing its PRNG stream in place.
func (s *State) nextMove(rid int) int {
	nid := s.RatPosition[rid]
	seed, target := prng.NextFloat(s.RatSeed[rid], s.SumWeight[nid])
	s.RatSeed[rid] = seed

	offset := LocateValue(target, s.NeighborAccumWeight[nid])
	return s.Graph.Neighbors(nid)[offset]
}

// RunBatch moves every owned rat in [bstart, bstart+bcount) one step,
// updating rat_count for in-zone moves directly and queuing out-of-zone
// moves into Export. Requires a fresh FindAllSums for the current
// node_weight; does not perform boundary exchanges itself, nor recompute
// sums — the caller runs FindAllSums, then RunBatch, then exchange_rats,
// exchange_node_counts, compute_all_weights, exchange_node_weights, in
// that order, before the next batch.
func (s *State) RunBatch(bstart, bcount int) {
	for _, z := range s.Setup.Peers {
		s.Export[z] = s.Export[z][:0]
	}

	for ri := 0; ri < bcount; ri++ {
		rid := bstart + ri
		if !s.OwnedRat[rid] {
			continue
		}

		onid := s.RatPosition[rid]
		nnid := s.nextMove(rid)
		newZone := s.Graph.ZoneID[nnid]

		if newZone == s.Setup.ThisZone {
			s.RatPosition[rid] = nnid
			s.RatCount[onid]--
			s.RatCount[nnid]++
			continue
		}

		s.RatCount[onid]--
		s.OwnedRat[rid] = false
		s.Export[newZone] = append(s.Export[newZone], ExportedRat{
			RatID:  rid,
			NodeID: nnid,
			Seed:   s.RatSeed[rid],
		})
	}
}

// BatchRanges splits [0, nrat) into consecutive batches of size batchSize
// (the last one possibly shorter), matching the original batch_step loop.
func BatchRanges(nrat, batchSize int) [][2]int {
	if batchSize <= 0 {
		batchSize = nrat
	}
	var ranges [][2]int
	for bstart := 0; bstart < nrat; bstart += batchSize {
		bcount := batchSize
		if bstart+bcount > nrat {
			bcount = nrat - bstart
		}
		ranges = append(ranges, [2]int{bstart, bcount})
	}
	return ranges
}
