// Package instrument tracks where a zone worker's wall-clock time goes,
// mirroring the original simulator's activity accounting: a small stack of
// named categories, pushed on start and popped on finish, so nested
// sections attribute time to whichever is innermost.
package instrument

import (
	"time"

	logger "github.com/sirupsen/logrus"
)

// Activity is a category of work a Tracker attributes elapsed time to.
type Activity int

const (
	ActivityNone Activity = iota
	ActivityStartup
	ActivityWeights
	ActivitySums
	ActivityNext
	ActivityComm
	ActivityGlobalComm
	activityCount
)

var activityName = [activityCount]string{
	"unknown", "startup", "compute_weights", "compute_sums", "find_moves", "local_comm", "global_comm",
}

// Tracker accumulates elapsed time per Activity for one zone worker. It is
// not safe for concurrent use; each worker owns its own Tracker.
type Tracker struct {
	enabled bool
	start   time.Time
	current time.Time
	stack   []Activity
	accum   [activityCount]time.Duration
}

// NewTracker returns a Tracker. When enabled is false every method is a
// no-op, matching -I being off.
func NewTracker(enabled bool) *Tracker {
	t := &Tracker{enabled: enabled}
	if enabled {
		t.start = time.Now()
		t.current = t.start
		t.stack = []Activity{ActivityNone}
	}
	return t
}

// Start pushes a onto the activity stack, crediting the time since the
// last transition to whichever activity was running.
func (t *Tracker) Start(a Activity) {
	if !t.enabled {
		return
	}
	now := time.Now()
	old := t.stack[len(t.stack)-1]
	t.accum[old] += now.Sub(t.current)
	t.current = now
	t.stack = append(t.stack, a)
}

// Finish pops a off the activity stack. a must match the innermost
// activity; a mismatch disables the tracker for the rest of the run rather
// than attribute time to the wrong category.
func (t *Tracker) Finish(a Activity) {
	if !t.enabled {
		return
	}
	now := time.Now()
	old := t.stack[len(t.stack)-1]
	if old != a {
		t.enabled = false
		return
	}
	t.accum[old] += now.Sub(t.current)
	t.current = now
	t.stack = t.stack[:len(t.stack)-1]
}

// Report logs a per-activity breakdown for zoneID. Time not attributed to
// any named activity is charged to ActivityNone.
func (t *Tracker) Report(log logger.FieldLogger, zoneID, localNodeCount, localEdgeCount int) {
	if !t.enabled {
		return
	}
	elapsed := time.Since(t.start)
	unknown := elapsed
	for a := 1; a < int(activityCount); a++ {
		unknown -= t.accum[a]
	}
	t.accum[ActivityNone] = unknown

	fields := logger.Fields{
		"zone":        zoneID,
		"local_nodes": localNodeCount,
		"local_edges": localEdgeCount,
		"elapsed_sec": elapsed.Seconds(),
	}
	for a := 0; a < int(activityCount); a++ {
		fields[activityName[a]] = t.accum[Activity(a)].Seconds()
	}
	log.WithFields(fields).Info("activity breakdown")
}
