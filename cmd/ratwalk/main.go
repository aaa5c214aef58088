// Command ratwalk runs the distributed rat-walk simulation: it reads a
// graph and an initial rat placement, partitions the graph into zones, and
// runs each zone as its own goroutine communicating over an in-process
// transport, exactly as separate worker processes would communicate over a
// real message-passing fabric.
package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/akamensky/argparse"

	"ratwalk/internal/instrument"
	"ratwalk/internal/simerr"
	"ratwalk/pkg/exchange"
	"ratwalk/pkg/graph"
	"ratwalk/pkg/prng"
	"ratwalk/pkg/ratfile"
	"ratwalk/pkg/transport"
	"ratwalk/pkg/zone"
	"ratwalk/pkg/zoning"
)

const displayRoot = 0

func main() {
	parser := argparse.NewParser("ratwalk", "distributed biased-random-walk simulation over a zoned grid graph")

	graphPath := parser.String("g", "graph", &argparse.Options{Help: "graph file", Required: true})
	ratPath := parser.String("r", "rat", &argparse.Options{Help: "initial rat position file"})
	steps := parser.Int("n", "steps", &argparse.Options{Help: "number of simulation steps", Default: 1})
	seed := parser.Int("s", "seed", &argparse.Options{Help: "initial RNG seed", Default: 418})
	dinterval := parser.Int("i", "interval", &argparse.Options{Help: "display update interval", Default: 1})
	quiet := parser.Flag("q", "quiet", &argparse.Options{Help: "suppress per-step display"})
	instrumentFlag := parser.Flag("I", "instrument", &argparse.Options{Help: "report per-activity timing to stderr"})
	zoneCount := parser.Int("z", "zones", &argparse.Options{Help: "number of zones", Default: 1})
	inspectOnly := parser.Flag("Z", "inspect-zones", &argparse.Options{Help: "print the zone partition and exit, without simulating"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(1)
	}

	g, key, err := loadGraph(*graphPath, *zoneCount)
	if err != nil {
		fail(0, err)
	}

	if *inspectOnly {
		runInspectZones(g, *zoneCount, key)
		return
	}

	if *ratPath == "" {
		fail(0, simerr.Wrap(simerr.ErrMalformedInput, "need initial rat position file (-r)"))
	}
	positions, err := loadRats(*ratPath, g.NumNodes)
	if err != nil {
		fail(0, err)
	}

	cfg := runConfig{
		steps:      *steps,
		globalSeed: prng.Seed(*seed),
		dinterval:  *dinterval,
		display:    !*quiet,
		instrument: *instrumentFlag,
	}

	code, err := run(g, positions, *zoneCount, cfg)
	fmt.Println("DONE")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

func loadGraph(path string, nzone int) (*graph.Graph, zoning.WeightKey, error) {
	gf, err := os.Open(path)
	if err != nil {
		return nil, 0, simerr.Wrap(simerr.ErrMalformedInput, "couldn't open graph file %s: %v", path, err)
	}
	defer gf.Close()

	g, err := graph.ReadGraph(gf)
	if err != nil {
		return nil, 0, err
	}
	key, err := graph.AssignZones(g, nzone)
	if err != nil {
		return nil, 0, err
	}
	return g, key, nil
}

func loadRats(path string, nodeCount int) ([]int, error) {
	rf, err := os.Open(path)
	if err != nil {
		return nil, simerr.Wrap(simerr.ErrMalformedInput, "couldn't open rat file %s: %v", path, err)
	}
	defer rf.Close()
	return ratfile.Read(rf, nodeCount)
}

// fail reports err tagged with zoneID to stderr, emits the mandatory
// trailing DONE so a visualizer reading stdout stops cleanly, and exits
// with the status exitCode classifies it to (§7).
func fail(zoneID int, err error) {
	fmt.Fprintf(os.Stderr, "zone %d: %v\n", zoneID, err)
	fmt.Println("DONE")
	os.Exit(exitCode(err))
}

// exitCode maps a fatal error to a process exit status per the error
// taxonomy in §7: malformed input and invariant violations are usage-level
// failures (2), allocation and transport failures are runtime failures
// (3); anything else is a generic failure (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, simerr.ErrMalformedInput), errors.Is(err, simerr.ErrInvariantViolation):
		return 2
	case errors.Is(err, simerr.ErrAllocationFailure), errors.Is(err, simerr.ErrTransportFailure):
		return 3
	default:
		return 1
	}
}

// runConfig collects the simulation parameters every zone worker needs; an
// identical copy reaches every worker.
type runConfig struct {
	steps      int
	globalSeed prng.Seed
	dinterval  int
	display    bool
	instrument bool
}

// run partitions positions across nzone zone workers and runs the
// simulation to completion, returning a process exit code and the first
// error any worker reported, if any.
//
// Zone 0 is the only worker that starts out holding the graph and the
// initial rat table; every worker, including zone 0, gets its working copy
// through a Transport broadcast (§5's "initial broadcast of the graph and
// rat table from zone 0"), so startup genuinely blocks on the Transport the
// rest of the protocol runs over rather than sharing g/positions by
// closure.
func run(g *graph.Graph, positions []int, nzone int, cfg runConfig) (int, error) {
	hub := transport.NewHub(nzone)

	var wg sync.WaitGroup
	results := make([]error, nzone)
	wg.Add(nzone)
	for z := 0; z < nzone; z++ {
		go func(zoneID int) {
			defer wg.Done()
			ep := hub.Endpoint(zoneID)

			var graphPayload, ratPayload any
			if zoneID == displayRoot {
				graphPayload, ratPayload = g, positions
			}
			zoneGraph := ep.Broadcast(displayRoot, transport.TagGraphBroadcast, graphPayload).(*graph.Graph)
			zonePositions := ep.Broadcast(displayRoot, transport.TagRatBroadcast, ratPayload).([]int)

			results[zoneID] = runZone(ep, zoneGraph, zonePositions, zoneID, nzone, cfg)
		}(z)
	}
	wg.Wait()

	for _, err := range results {
		if err != nil {
			return exitCode(err), err
		}
	}
	return 0, nil
}

// runZone is the body of a single zone worker: one goroutine, exactly one
// at a time ever touching this zone's State.
func runZone(ep *transport.Endpoint, g *graph.Graph, positions []int, zoneID, nzone int, cfg runConfig) error {
	log := newLogger(zoneID, cfg.instrument)
	tracker := instrument.NewTracker(cfg.instrument)

	tracker.Start(instrument.ActivityStartup)
	setup := zone.NewSetup(g, zoneID, nzone)
	st := zone.NewState(g, setup, positions, cfg.globalSeed)
	st.TakeCensus()
	exchange.NodeCounts(ep, st)
	st.ComputeAllWeights()
	exchange.NodeWeights(ep, st)
	tracker.Finish(instrument.ActivityStartup)

	if cfg.display {
		exchange.GatherDisplay(ep, st, displayRoot)
		if zoneID == displayRoot {
			printStep(g, st.NRat, st.RatCount)
		}
	}

	for i := 0; i < cfg.steps; i++ {
		for _, b := range zone.BatchRanges(st.NRat, st.BatchSize) {
			tracker.Start(instrument.ActivitySums)
			st.FindAllSums()
			tracker.Finish(instrument.ActivitySums)

			tracker.Start(instrument.ActivityNext)
			st.RunBatch(b[0], b[1])
			tracker.Finish(instrument.ActivityNext)

			tracker.Start(instrument.ActivityComm)
			exchange.Rats(ep, st)
			exchange.NodeCounts(ep, st)
			tracker.Finish(instrument.ActivityComm)

			tracker.Start(instrument.ActivityWeights)
			st.ComputeAllWeights()
			tracker.Finish(instrument.ActivityWeights)

			tracker.Start(instrument.ActivityComm)
			exchange.NodeWeights(ep, st)
			tracker.Finish(instrument.ActivityComm)
		}

		if !cfg.display {
			continue
		}
		showCounts := ((i+1)%cfg.dinterval == 0) || i == cfg.steps-1
		if !showCounts {
			continue
		}
		tracker.Start(instrument.ActivityGlobalComm)
		exchange.GatherDisplay(ep, st, displayRoot)
		if zoneID == displayRoot {
			printStep(g, st.NRat, st.RatCount)
		}
		tracker.Finish(instrument.ActivityGlobalComm)
	}

	tracker.Report(log, zoneID, len(setup.LocalNodeList), setup.LocalEdgeCount)
	return nil
}

// printStep emits one STEP block of the step output stream (§6): header,
// one rat count per node, then END.
func printStep(g *graph.Graph, nrat int, ratCount map[int]int) {
	fmt.Printf("STEP %d %d %d\n", g.Width, g.Height, nrat)
	for n := 0; n < g.NumNodes; n++ {
		fmt.Println(ratCount[n])
	}
	fmt.Println("END")
}

// runInspectZones implements the -Z partition-inspection mode: print each
// zone's boundary topology without running the simulation.
func runInspectZones(g *graph.Graph, nzone int, key zoning.WeightKey) {
	fmt.Printf("zoned by %s\n", key)
	for z := 0; z < nzone; z++ {
		setup := zone.NewSetup(g, z, nzone)
		imports, exports := 0, 0
		for _, p := range setup.Peers {
			imports += len(setup.ImportList[p])
			exports += len(setup.ExportList[p])
		}
		fmt.Printf("zone %d: %d nodes, %d edges, peers %v, imports %d, exports %d\n",
			z, len(setup.LocalNodeList), setup.LocalEdgeCount, setup.Peers, imports, exports)
	}
}
