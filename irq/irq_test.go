package irq

import "testing"

// Invariant 6: Controller.Set(true, p, v); Acknowledge(p) returns v and
// clears the slot; highest equals the new maximum asserted priority.
func TestSetAcknowledgeClearsAndTracksHighest(t *testing.T) {
	c := New()

	c.Set(true, 4, 28)
	c.Set(true, 2, 10)

	asserted, prio, vec := c.Check()
	if !asserted || prio != 4 || vec != 28 {
		t.Fatalf("expected (true, 4, 28), got (%v, %d, %d)", asserted, prio, vec)
	}

	got := c.Acknowledge(4)
	if got != 28 {
		t.Fatalf("expected vector 28, got %d", got)
	}

	asserted, prio, vec = c.Check()
	if !asserted || prio != 2 || vec != 10 {
		t.Fatalf("expected fallback to priority 2, got (%v, %d, %d)", asserted, prio, vec)
	}
}

func TestAcknowledgeWithNoLowerLevelsClearsHighest(t *testing.T) {
	c := New()
	c.Set(true, 7, 1)
	c.Acknowledge(7)

	if asserted, _, _ := c.Check(); asserted {
		t.Fatal("expected no interrupt asserted after acknowledging the only level")
	}
}

func TestHigherPriorityReplacesLower(t *testing.T) {
	c := New()
	c.Set(true, 2, 1)
	c.Set(true, 5, 2)
	_, prio, _ := c.Check()
	if prio != 5 {
		t.Fatalf("expected highest to be 5, got %d", prio)
	}

	// Set only raises highest on assertion; clearing a level without an
	// acknowledge cycle does not by itself lower highest (only Acknowledge
	// walks it down past unasserted levels).
	c.Set(false, 5, 2)
	_, prio, _ = c.Check()
	if prio != 5 {
		t.Fatalf("expected highest to remain 5 until acknowledged, got %d", prio)
	}

	c.Acknowledge(5)
	_, prio, _ = c.Check()
	if prio != 2 {
		t.Fatalf("expected fallback to 2 after acknowledging 5, got %d", prio)
	}
}
