// Package monitoring classifies agent status records and orders them for
// display.
//
// Every record falls into exactly one class, evaluated in priority order:
//  1. Blocked (the worker said so)
//  2. Stale (no update within the stale threshold)
//  3. Active (everything else)
package monitoring

// Class is the derived health of a status record. It is computed at read
// time and never persisted.
type Class string

const (
	ClassBlocked Class = "blocked" // Worker reported it cannot proceed
	ClassActive  Class = "active"  // Recently updated, not blocked
	ClassStale   Class = "stale"   // No update within the stale threshold
)

// NeedsAttention returns true if the orchestrator should look at this agent.
func (c Class) NeedsAttention() bool {
	switch c {
	case ClassBlocked, ClassStale:
		return true
	default:
		return false
	}
}

// Priority returns the display rank of the class; lower sorts first.
func (c Class) Priority() int {
	switch c {
	case ClassBlocked:
		return 0
	case ClassActive:
		return 1
	case ClassStale:
		return 2
	default:
		return 3
	}
}
