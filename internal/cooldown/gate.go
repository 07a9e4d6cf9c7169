// Package cooldown rate-limits publishes per rule name.
package cooldown

import (
	"sync"
	"time"
)

// Gate tracks the last successful publish per rule and rejects alerts
// arriving inside the cooldown window. A cooldown means "we already
// told the audience about this rule recently", so only the Publisher
// records into it — failed attempts must not suppress later alerts.
type Gate struct {
	cooldown time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

// NewGate builds a Gate with the given cooldown window.
func NewGate(cooldown time.Duration) *Gate {
	return &Gate{
		cooldown: cooldown,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// NewGateWithClock builds a Gate with an injected clock for tests.
func NewGateWithClock(cooldown time.Duration, now func() time.Time) *Gate {
	g := NewGate(cooldown)
	g.now = now
	return g
}

// Admit reports whether an alert for the rule may enter the pipeline.
// A rule never published before is always admitted.
func (g *Gate) Admit(ruleName string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	last, ok := g.last[ruleName]
	if !ok {
		return true
	}
	return g.now().Sub(last) >= g.cooldown
}

// Record stores the time of a confirmed successful publish.
func (g *Gate) Record(ruleName string, t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[ruleName] = t
}

// Snapshot returns a copy of the cooldown map for the health endpoint.
func (g *Gate) Snapshot() map[string]time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]time.Time, len(g.last))
	for rule, t := range g.last {
		out[rule] = t
	}
	return out
}
