// Package exchange implements the three ordered boundary exchanges that
// keep zone workers consistent — rats, node counts, node weights — plus the
// display gather zone 0 uses to assemble the full step output. Every
// exchange follows the same envelope: post non-blocking sends to every
// peer, then blocking receives from every peer, then wait on the sends.
package exchange

import (
	"ratwalk/pkg/transport"
	"ratwalk/pkg/zone"
)

type ratsMessage struct {
	Rats []zone.ExportedRat
}

type countsMessage struct {
	Counts []int
}

type weightsMessage struct {
	Weights []float64
}

type nodeStateMessage struct {
	NodeIDs []int
	Counts  []int
}

// Rats moves migrating rats between zones. A peer is always sent a message
// even when its export list is empty this batch: Setup.Peers is the static
// set of zones this worker could ever exchange with (derived once from
// adjacency), so both sides of every pair always participate.
func Rats(ep *transport.Endpoint, s *zone.State) {
	handles := make([]transport.Handle, 0, len(s.Setup.Peers))
	for _, peer := range s.Setup.Peers {
		handles = append(handles, ep.ISend(peer, transport.TagRats, ratsMessage{Rats: s.Export[peer]}))
	}
	for _, peer := range s.Setup.Peers {
		msg := ep.Recv(peer, transport.TagRats).(ratsMessage)
		for _, er := range msg.Rats {
			s.RatPosition[er.RatID] = er.NodeID
			s.RatCount[er.NodeID]++
			s.RatSeed[er.RatID] = er.Seed
			s.OwnedRat[er.RatID] = true
		}
	}
	for _, h := range handles {
		ep.Wait(h)
	}
}

// NodeCounts ships rat_count for this zone's export-list nodes to each
// peer and overwrites rat_count at the corresponding import-list
// positions, relying on export/import list order matching by construction
// (invariant I2).
func NodeCounts(ep *transport.Endpoint, s *zone.State) {
	handles := make([]transport.Handle, 0, len(s.Setup.Peers))
	for _, peer := range s.Setup.Peers {
		exportNodes := s.Setup.ExportList[peer]
		counts := make([]int, len(exportNodes))
		for i, n := range exportNodes {
			counts[i] = s.RatCount[n]
		}
		handles = append(handles, ep.ISend(peer, transport.TagNodeCounts, countsMessage{Counts: counts}))
	}
	for _, peer := range s.Setup.Peers {
		msg := ep.Recv(peer, transport.TagNodeCounts).(countsMessage)
		importNodes := s.Setup.ImportList[peer]
		for i, n := range importNodes {
			s.RatCount[n] = msg.Counts[i]
		}
	}
	for _, h := range handles {
		ep.Wait(h)
	}
}

// NodeWeights is the node_weight counterpart to NodeCounts.
func NodeWeights(ep *transport.Endpoint, s *zone.State) {
	handles := make([]transport.Handle, 0, len(s.Setup.Peers))
	for _, peer := range s.Setup.Peers {
		exportNodes := s.Setup.ExportList[peer]
		weights := make([]float64, len(exportNodes))
		for i, n := range exportNodes {
			weights[i] = s.NodeWeight[n]
		}
		handles = append(handles, ep.ISend(peer, transport.TagNodeWeights, weightsMessage{Weights: weights}))
	}
	for _, peer := range s.Setup.Peers {
		msg := ep.Recv(peer, transport.TagNodeWeights).(weightsMessage)
		importNodes := s.Setup.ImportList[peer]
		for i, n := range importNodes {
			s.NodeWeight[n] = msg.Weights[i]
		}
	}
	for _, h := range handles {
		ep.Wait(h)
	}
}

// GatherDisplay is called by every non-zero zone to ship its owned nodes'
// current rat_count to zone 0, and by zone 0 to collect them all into its
// own rat_count before it emits a display tick.
func GatherDisplay(ep *transport.Endpoint, s *zone.State, root int) {
	if ep.Rank() != root {
		nodeIDs := append([]int(nil), s.Setup.LocalNodeList...)
		counts := make([]int, len(nodeIDs))
		for i, n := range nodeIDs {
			counts[i] = s.RatCount[n]
		}
		h := ep.ISend(root, transport.TagDisplayGather, nodeStateMessage{NodeIDs: nodeIDs, Counts: counts})
		ep.Wait(h)
		return
	}
	for zid := 0; zid < ep.Size(); zid++ {
		if zid == root {
			continue
		}
		msg := ep.Recv(zid, transport.TagDisplayGather).(nodeStateMessage)
		for i, n := range msg.NodeIDs {
			s.RatCount[n] = msg.Counts[i]
		}
	}
}
