// Package ratfile parses the rat position file: a header giving the node
// count and rat count, followed by one initial node id per rat.
package ratfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ratwalk/internal/simerr"
)

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

// Read parses a rat file. nodeCount is the graph's node count, used to
// validate both the header and every rat's initial position.
func Read(r io.Reader, nodeCount int) (positions []int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	header, ok := nextDataLine(scanner)
	if !ok {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: missing header line")
	}
	var fileNodeCount, ratCount int
	if _, err := fmt.Sscanf(header, "%d %d", &fileNodeCount, &ratCount); err != nil {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: malformed header %q: %v", header, err)
	}
	if fileNodeCount != nodeCount {
		return nil, simerr.Wrap(simerr.ErrMalformedInput,
			"rat file: node count %d does not match graph node count %d", fileNodeCount, nodeCount)
	}
	if ratCount < 0 {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: negative rat count %d", ratCount)
	}

	positions = make([]int, ratCount)
	for i := 0; i < ratCount; i++ {
		line, ok := nextDataLine(scanner)
		if !ok {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: EOF while reading rat %d/%d", i, ratCount)
		}
		var pos int
		if _, err := fmt.Sscanf(line, "%d", &pos); err != nil {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: malformed position line %d: %q", i, line)
		}
		if pos < 0 || pos >= nodeCount {
			return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: rat %d position %d out of range [0,%d)", i, pos, nodeCount)
		}
		positions[i] = pos
	}

	if err := scanner.Err(); err != nil {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "rat file: read error: %v", err)
	}

	return positions, nil
}
