// Command gen-ratwalk-dataset builds a grid graph file and a matching
// initial rat-position file that cmd/ratwalk can run directly, for
// exercising the simulator without hand-authoring test fixtures.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"

	"github.com/akamensky/argparse"
	logger "github.com/sirupsen/logrus"
)

var log *logger.Logger

// gridSpec describes the grid graph to generate: width x height nodes,
// partitioned into horizontal stripes of regionRows rows each (the last
// stripe may be shorter).
type gridSpec struct {
	width, height int
	regionRows    int
}

func (g gridSpec) nodeID(x, y int) int {
	return y*g.width + x
}

func (g gridSpec) numNodes() int {
	return g.width * g.height
}

// buildEdges enumerates every directed half-edge of the 4-neighbor grid,
// sorted by (head, tail) ascending, matching the order ReadGraph requires.
func buildEdges(g gridSpec) [][2]int {
	edges := make([][2]int, 0, 4*g.numNodes())
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			n := g.nodeID(x, y)
			if x+1 < g.width {
				m := g.nodeID(x+1, y)
				edges = append(edges, [2]int{n, m}, [2]int{m, n})
			}
			if y+1 < g.height {
				m := g.nodeID(x, y+1)
				edges = append(edges, [2]int{n, m}, [2]int{m, n})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// buildRegions groups the grid into horizontal row stripes. Region balance
// is AssignZones's job at simulation time, not the generator's.
func buildRegions(g gridSpec) [][4]int {
	var regions [][4]int
	for y := 0; y < g.height; y += g.regionRows {
		h := g.regionRows
		if y+h > g.height {
			h = g.height - y
		}
		regions = append(regions, [4]int{0, y, g.width, h})
	}
	return regions
}

func writeGraph(path string, g gridSpec, edges [][2]int, regions [][4]int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "%d %d %d %d\n", g.width, g.height, len(edges), len(regions))
	for i := 0; i < g.numNodes(); i++ {
		fmt.Fprintln(w, "n 1.0")
	}
	for _, e := range edges {
		fmt.Fprintf(w, "e %d %d\n", e[0], e[1])
	}
	for _, r := range regions {
		fmt.Fprintf(w, "r %d %d %d %d\n", r[0], r[1], r[2], r[3])
	}
	return nil
}

// ratPlacement is one rat's randomly chosen starting node, produced by its
// own goroutine and gathered by the collector below.
type ratPlacement struct {
	ratID int
	node  int
}

// placeRats spawns one goroutine per rat to pick a uniformly random starting
// node and send it to the collector, mirroring how the original dataset
// generator ran one walker per simulated user concurrently.
func placeRats(numRats, numNodes int) []int {
	ch := make(chan ratPlacement)
	done := make(chan []int)

	go func() {
		placements := make([]ratPlacement, 0, numRats)
		for p := range ch {
			placements = append(placements, p)
			log.Debugf("rat %v placed at node %v", p.ratID, p.node)
		}
		sort.Slice(placements, func(i, j int) bool {
			return placements[i].ratID < placements[j].ratID
		})
		positions := make([]int, len(placements))
		for i, p := range placements {
			positions[i] = p.node
		}
		done <- positions
	}()

	var wg sync.WaitGroup
	for r := 0; r < numRats; r++ {
		wg.Add(1)
		go func(ratID int) {
			defer wg.Done()
			ch <- ratPlacement{ratID: ratID, node: rand.Intn(numNodes)}
		}(r)
	}
	wg.Wait()
	close(ch)

	return <-done
}

func writeRats(path string, numNodes int, positions []int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "%d %d\n", numNodes, len(positions))
	for _, p := range positions {
		fmt.Fprintln(w, p)
	}
	return nil
}

func main() {
	log = logger.New()
	log.SetLevel(logger.InfoLevel)

	parser := argparse.NewParser("gen-ratwalk-dataset", "produces a grid graph and initial rat placement for ratwalk")

	graphOut := parser.String("g", "graph-out", &argparse.Options{Help: "graph file to (over)write", Required: true})
	ratOut := parser.String("r", "rat-out", &argparse.Options{Help: "rat position file to (over)write", Required: true})
	width := parser.Int("W", "width", &argparse.Options{Help: "grid width", Required: true})
	height := parser.Int("H", "height", &argparse.Options{Help: "grid height", Required: true})
	numRats := parser.Int("n", "numrats", &argparse.Options{Help: "number of rats to place", Required: true})
	regionRows := parser.Int("s", "region-rows", &argparse.Options{Help: "grid rows per region stripe", Default: 1})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		panic("invalid usage")
	}

	if *width <= 0 || *height <= 0 {
		log.Fatalf("width and height must be positive, got %dx%d", *width, *height)
	}
	if *regionRows <= 0 || *regionRows > *height {
		log.Fatalf("region-rows must be in [1,%d], got %d", *height, *regionRows)
	}
	if *numRats < 0 {
		log.Fatalf("numrats must be non-negative, got %d", *numRats)
	}

	g := gridSpec{width: *width, height: *height, regionRows: *regionRows}
	edges := buildEdges(g)
	regions := buildRegions(g)

	if err := writeGraph(*graphOut, g, edges, regions); err != nil {
		log.Fatal(err)
	}
	log.Infof("wrote %d-node graph with %d regions to %s", g.numNodes(), len(regions), *graphOut)

	positions := placeRats(*numRats, g.numNodes())
	if err := writeRats(*ratOut, g.numNodes(), positions); err != nil {
		log.Fatal(err)
	}
	log.Infof("wrote %d rat placements to %s", len(positions), *ratOut)
}
