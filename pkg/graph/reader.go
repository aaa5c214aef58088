package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ratwalk/internal/simerr"
)

// nextDataLine advances scanner past comment lines (first non-whitespace
// rune '#') and blank lines, returning the next data line. io.EOF is
// reported through the bool result rather than an error so callers can
// distinguish "ran out of input" from a real scan failure.
func nextDataLine(scanner *bufio.Scanner) (string, bool) {
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		return line, true
	}
	return "", false
}

// ReadGraph parses the line-oriented graph format: a header line "W H M K",
// W*H node lines (a load factor that is parsed but discarded), M edge lines
// "e i j" sorted lexicographically by (i, j), and K region lines
// "r x y w h". It does not assign zones; call AssignZones afterward.
func ReadGraph(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header, ok := nextDataLine(scanner)
	if !ok {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: missing header line")
	}
	var width, height, nedge, nregion int
	if _, err := fmt.Sscanf(header, "%d %d %d %d", &width, &height, &nedge, &nregion); err != nil {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: malformed header %q: %v", header, err)
	}
	if width <= 0 || height <= 0 {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: non-positive dimensions %dx%d", width, height)
	}

	nnode := width * height
	g := &Graph{Width: width, Height: height, NumNodes: nnode}
	g.NeighborStart = make([]int, nnode+1)
	g.Neighbor = make([]int, 0, nnode+nedge)

	for i := 0; i < nnode; i++ {
		line, ok := nextDataLine(scanner)
		if !ok {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: EOF while reading node %d/%d", i, nnode)
		}
		var loadFactor float64
		if _, err := fmt.Sscanf(line, "n %f", &loadFactor); err != nil {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: malformed node line %d: %q", i, line)
		}
	}

	nid := -1
	eid := 0
	lastHid, lastTid := -1, -1
	for i := 0; i < nedge; i++ {
		line, ok := nextDataLine(scanner)
		if !ok {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: EOF while reading edge %d/%d", i, nedge)
		}
		var hid, tid int
		if _, err := fmt.Sscanf(line, "e %d %d", &hid, &tid); err != nil {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: malformed edge line %d: %q", i, line)
		}
		if hid < 0 || hid >= nnode {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: head index %d out of range on edge %d", hid, i)
		}
		if tid < 0 || tid >= nnode {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: tail index %d out of range on edge %d", tid, i)
		}
		if hid < lastHid || (hid == lastHid && tid <= lastTid) {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: edge %d (%d,%d) out of (head,tail) order", i, hid, tid)
		}
		lastHid, lastTid = hid, tid

		for nid < hid {
			nid++
			g.NeighborStart[nid] = eid
			g.Neighbor = append(g.Neighbor, nid) // self-edge, always first
			eid++
		}
		g.Neighbor = append(g.Neighbor, tid)
		eid++
	}
	for nid < nnode-1 {
		nid++
		g.NeighborStart[nid] = eid
		g.Neighbor = append(g.Neighbor, nid)
		eid++
	}
	g.NeighborStart[nnode] = eid

	g.Regions = make([]Region, nregion)
	for i := 0; i < nregion; i++ {
		line, ok := nextDataLine(scanner)
		if !ok {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: EOF while reading region %d/%d", i, nregion)
		}
		var x, y, w, h int
		if _, err := fmt.Sscanf(line, "r %d %d %d %d", &x, &y, &w, &h); err != nil {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: malformed region line %d: %q", i, line)
		}
		region := Region{X: x, Y: y, W: w, H: h, NodeCount: w * h}
		edgeCount := 0
		for dx := x; dx < x+w; dx++ {
			for dy := y; dy < y+h; dy++ {
				n := g.NodeID(dx, dy)
				edgeCount += g.Degree(n)
			}
		}
		region.EdgeCount = edgeCount
		g.Regions[i] = region
	}

	if err := scanner.Err(); err != nil {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "graph file: read error: %v", err)
	}

	return g, nil
}
