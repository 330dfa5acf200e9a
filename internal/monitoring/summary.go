package monitoring

import (
	"sort"
	"time"

	"github.com/groblegark/wtstatus/internal/status"
)

// Entry is a status record together with its derived class.
type Entry struct {
	*status.AgentStatus
	Class Class `json:"class"`
}

// Summary is the machine-readable aggregate of all records.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`
	Total       int       `json:"total"`
	Active      int       `json:"active"`
	Blocked     int       `json:"blocked"`
	Stale       int       `json:"stale"`
	Agents      []Entry   `json:"agents"`
}

// Summarize classifies records, sorts them by display priority and counts
// each class. The input slice is not modified.
func (c *Classifier) Summarize(records []*status.AgentStatus) Summary {
	now := c.now()
	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		entries = append(entries, Entry{AgentStatus: rec, Class: c.ClassifyAt(rec, now)})
	}
	SortEntries(entries)

	s := Summary{
		GeneratedAt: now.UTC(),
		Total:       len(entries),
		Agents:      entries,
	}
	for _, e := range entries {
		switch e.Class {
		case ClassActive:
			s.Active++
		case ClassBlocked:
			s.Blocked++
		case ClassStale:
			s.Stale++
		}
	}
	return s
}

// SortEntries orders entries blocked first, then active, then stale; within a
// class the most recently updated comes first. Ties break on task name so the
// order never depends on directory listing order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if pa, pb := a.Class.Priority(), b.Class.Priority(); pa != pb {
			return pa < pb
		}
		if !a.LastUpdate.Equal(b.LastUpdate) {
			return a.LastUpdate.After(b.LastUpdate)
		}
		return a.TaskName < b.TaskName
	})
}

// Filter returns the entries whose task name matches name.
func (s Summary) Filter(name string) Summary {
	out := Summary{GeneratedAt: s.GeneratedAt, Agents: []Entry{}}
	for _, e := range s.Agents {
		if e.TaskName != name {
			continue
		}
		out.Agents = append(out.Agents, e)
		out.Total++
		switch e.Class {
		case ClassActive:
			out.Active++
		case ClassBlocked:
			out.Blocked++
		case ClassStale:
			out.Stale++
		}
	}
	return out
}

// Find returns the entry for task name.
func (s Summary) Find(name string) (Entry, bool) {
	for _, e := range s.Agents {
		if e.TaskName == name {
			return e, true
		}
	}
	return Entry{}, false
}
