// Package profiling is a lightweight per-frame CPU profiler for
// tick-level insights. Subsystems wrap coarse operations with
//
//	defer profiling.Track("meshing.MarchingCubes.Build")()
//
// and the frame loop resets and reports the totals. Per-voxel inner
// loops are never instrumented.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the
// given name.
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each
// frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of the current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix returns the summed durations of all entries whose names
// start with any of the given prefixes.
func SumWithPrefix(prefixes ...string) time.Duration {
	var sum time.Duration
	for k, v := range Snapshot() {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				sum += v
				break
			}
		}
	}
	return sum
}

// TopN formats the N largest entries of the current frame, e.g.
// "meshing.MarchingCubes.Build:4.2ms, world.Raycast:0.3ms".
func TopN(n int) string {
	type pair struct {
		name string
		dur  time.Duration
	}

	mu.Lock()
	list := make([]pair, 0, len(frameTotals))
	for k, v := range frameTotals {
		list = append(list, pair{name: k, dur: v})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}

	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms", list[i].name, ms))
	}
	return strings.Join(parts, ", ")
}
