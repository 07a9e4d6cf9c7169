package cooldown

import (
	"testing"
	"time"
)

func TestAdmitUnknownRule(t *testing.T) {
	g := NewGate(10 * time.Minute)
	if !g.Admit("whale-transfer") {
		t.Fatalf("rule with no history must be admitted")
	}
}

func TestAdmitInsideWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	g := NewGateWithClock(10*time.Minute, func() time.Time { return current })

	g.Record("whale-transfer", base)

	current = base.Add(3 * time.Minute)
	if g.Admit("whale-transfer") {
		t.Fatalf("alert 3m after success must be rejected with 10m cooldown")
	}

	current = base.Add(10 * time.Minute)
	if !g.Admit("whale-transfer") {
		t.Fatalf("alert at exactly the cooldown boundary must be admitted")
	}
}

func TestAdmitIsPerRule(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGateWithClock(30*time.Minute, func() time.Time { return base.Add(time.Minute) })

	g.Record("whale-transfer", base)

	if g.Admit("whale-transfer") {
		t.Fatalf("cooled rule must be rejected")
	}
	if !g.Admit("bridge-deposit") {
		t.Fatalf("other rules must be unaffected")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(time.Minute)
	g.Record("whale-transfer", base)

	snap := g.Snapshot()
	if !snap["whale-transfer"].Equal(base) {
		t.Fatalf("snapshot missing recorded rule")
	}

	snap["whale-transfer"] = base.Add(time.Hour)
	if got := g.Snapshot()["whale-transfer"]; !got.Equal(base) {
		t.Fatalf("mutating a snapshot must not affect the gate")
	}
}
