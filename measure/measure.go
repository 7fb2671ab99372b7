// Package measure collects byte counts and timings from protocol runs.
// Instrumented code adds to the global collector; tools snapshot it
// between runs to build reports.
package measure

import (
	"sync"
	"time"
)

// Collector accumulates named counters and timing entries. Safe for
// concurrent use.
type Collector struct {
	mu       sync.Mutex
	counters map[string]uint64
	timings  []Timing
}

// Timing is one recorded duration.
type Timing struct {
	Label string
	Dur   time.Duration
}

// Global is the collector shared by instrumented code.
var Global = &Collector{}

// Add increases the named counter by v.
func (c *Collector) Add(name string, v uint64) {
	c.mu.Lock()
	if c.counters == nil {
		c.counters = make(map[string]uint64)
	}
	c.counters[name] += v
	c.mu.Unlock()
}

// Track records the duration since start under the given label.
// Meant to be deferred at the top of the measured function.
func (c *Collector) Track(start time.Time, label string) {
	elapsed := time.Since(start)
	c.mu.Lock()
	c.timings = append(c.timings, Timing{Label: label, Dur: elapsed})
	c.mu.Unlock()
}

// SnapshotAndReset returns the counter map and clears the collector.
func (c *Collector) SnapshotAndReset() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.counters
	c.counters = nil
	c.timings = nil
	if out == nil {
		out = make(map[string]uint64)
	}
	return out
}

// Timings returns the recorded timing entries without clearing counters.
func (c *Collector) Timings() []Timing {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Timing, len(c.timings))
	copy(out, c.timings)
	return out
}
