// Package transport models the message-passing capability the simulator
// runs over: isend/probe/recv/wait/broadcast between zone workers. The
// production binding would sit on top of MPI or a socket fabric; this one
// runs every zone as a goroutine and carries payloads over channels, so the
// simulator's own code never depends on how workers are actually connected.
package transport

import "sync"

// Tag distinguishes the boundary exchanges (and the startup broadcast) so a
// worker that is simultaneously a sender and a receiver for two different
// exchanges with the same peer never confuses their payloads.
type Tag int

const (
	TagRats Tag = iota
	TagNodeCounts
	TagNodeWeights
	TagGraphBroadcast
	TagRatBroadcast
	TagDisplayGather
)

type key struct {
	from, to int
	tag      Tag
}

// Hub is the shared fabric behind every zone's Endpoint: one single-slot
// mailbox per (sender, receiver, tag) triple.
type Hub struct {
	size int
	mu   sync.Mutex
	box  map[key]chan any
}

// NewHub creates a hub for size zone workers, ranked [0, size).
func NewHub(size int) *Hub {
	return &Hub{size: size, box: make(map[key]chan any)}
}

func (h *Hub) mailbox(k key) chan any {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.box[k]
	if !ok {
		c = make(chan any, 1)
		h.box[k] = c
	}
	return c
}

// Endpoint is one zone worker's view of a Hub.
type Endpoint struct {
	hub  *Hub
	rank int

	mu      sync.Mutex
	pending map[key]any
}

// Endpoint returns rank's view of h. Call once per worker.
func (h *Hub) Endpoint(rank int) *Endpoint {
	return &Endpoint{hub: h, rank: rank, pending: make(map[key]any)}
}

func (e *Endpoint) Rank() int { return e.rank }
func (e *Endpoint) Size() int { return e.hub.size }

// Handle is an outstanding non-blocking send.
type Handle struct {
	done chan struct{}
}

// ISend posts payload to peer under tag without blocking the caller.
func (e *Endpoint) ISend(peer int, tag Tag, payload any) Handle {
	c := e.hub.mailbox(key{from: e.rank, to: peer, tag: tag})
	h := Handle{done: make(chan struct{})}
	go func() {
		c <- payload
		close(h.done)
	}()
	return h
}

// Wait blocks until the send behind h has been delivered to its mailbox.
func (e *Endpoint) Wait(h Handle) {
	<-h.done
}

// Probe blocks until a message from peer under tag is available and stages
// it for Recv, without requiring the caller to already know its shape. Our
// exchanges never actually need this: every payload's participants and size
// are fixed by zone setup, so they call Recv directly. It is kept to match
// the transport capability the boundary exchanges are specified against.
func (e *Endpoint) Probe(peer int, tag Tag) {
	k := key{from: peer, to: e.rank, tag: tag}
	e.mu.Lock()
	_, staged := e.pending[k]
	e.mu.Unlock()
	if staged {
		return
	}
	msg := <-e.hub.mailbox(k)
	e.mu.Lock()
	e.pending[k] = msg
	e.mu.Unlock()
}

// Recv returns the message from peer under tag, blocking until it arrives.
func (e *Endpoint) Recv(peer int, tag Tag) any {
	k := key{from: peer, to: e.rank, tag: tag}
	e.mu.Lock()
	if msg, ok := e.pending[k]; ok {
		delete(e.pending, k)
		e.mu.Unlock()
		return msg
	}
	e.mu.Unlock()
	return <-e.hub.mailbox(k)
}

// Broadcast delivers payload from root to every other rank. The root calls
// it with the value to distribute; every other rank calls it to receive the
// same value. This is the simulator's one collective operation, used once
// at startup to distribute the graph and the rat table.
func (e *Endpoint) Broadcast(root int, tag Tag, payload any) any {
	if e.rank == root {
		handles := make([]Handle, 0, e.hub.size-1)
		for peer := 0; peer < e.hub.size; peer++ {
			if peer == root {
				continue
			}
			handles = append(handles, e.ISend(peer, tag, payload))
		}
		for _, h := range handles {
			e.Wait(h)
		}
		return payload
	}
	return e.Recv(root, tag)
}
