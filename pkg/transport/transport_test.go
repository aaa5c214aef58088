package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISendRecvRoundTrip(t *testing.T) {
	hub := NewHub(2)
	ep0, ep1 := hub.Endpoint(0), hub.Endpoint(1)

	h := ep0.ISend(1, TagRats, "payload")
	got := ep1.Recv(0, TagRats)
	ep0.Wait(h)

	assert.Equal(t, "payload", got)
}

func TestProbeStagesMessageForLaterRecv(t *testing.T) {
	hub := NewHub(2)
	ep0, ep1 := hub.Endpoint(0), hub.Endpoint(1)

	h := ep0.ISend(1, TagNodeCounts, 42)
	ep1.Probe(0, TagNodeCounts)
	got := ep1.Recv(0, TagNodeCounts)
	ep0.Wait(h)

	assert.Equal(t, 42, got)
}

// TestBroadcastDeliversRootPayloadToEveryOtherRank exercises the startup
// broadcast the worker protocol blocks on: zone 0 posts the graph/rat table
// once and every other zone's Broadcast call blocks until it arrives.
func TestBroadcastDeliversRootPayloadToEveryOtherRank(t *testing.T) {
	const size = 4
	hub := NewHub(size)

	var wg sync.WaitGroup
	results := make([]any, size)
	wg.Add(size)
	for rank := 0; rank < size; rank++ {
		go func(rank int) {
			defer wg.Done()
			ep := hub.Endpoint(rank)
			var payload any
			if rank == 0 {
				payload = []int{1, 2, 3}
			}
			results[rank] = ep.Broadcast(0, TagRatBroadcast, payload)
		}(rank)
	}
	wg.Wait()

	for rank := 0; rank < size; rank++ {
		assert.Equal(t, []int{1, 2, 3}, results[rank])
	}
}

func TestBroadcastRootReturnsImmediatelyWithoutBlockingOnItself(t *testing.T) {
	hub := NewHub(1)
	ep := hub.Endpoint(0)
	got := ep.Broadcast(0, TagGraphBroadcast, "solo")
	require.Equal(t, "solo", got)
}
