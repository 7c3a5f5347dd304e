package listing

import (
	"sort"
	"time"
)

// Record is anything tracked across runs: a stable key plus the normalized
// date, which is watched for changes.
type Record interface {
	Key() string
	DateValue() string
}

// Entry is what a snapshot remembers about one record.
type Entry struct {
	Date      string    `json:"date"`
	FirstSeen time.Time `json:"first_seen"`
}

// Snapshot represents the records seen for one scope (source, city and
// category) at a point in time.
type Snapshot struct {
	Scope     string            `json:"scope"`
	Entries   map[string]*Entry `json:"entries"` // keyed by Record.Key
	UpdatedAt time.Time         `json:"updated_at"`
	RunID     string            `json:"run_id,omitempty"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot(scope string) *Snapshot {
	return &Snapshot{
		Scope:   scope,
		Entries: make(map[string]*Entry),
	}
}

// Change describes a known record whose date moved between runs.
type Change struct {
	Key      string `json:"key"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DiffResult contains the results of comparing current records against a
// snapshot.
type DiffResult[T Record] struct {
	New         []T
	DateChanged []Change
}

// Diff compares current records against a previous snapshot. Records not in
// the snapshot are new; records whose normalized date differs are reported as
// date changes. A nil snapshot treats everything as new.
func Diff[T Record](previous *Snapshot, current []T) *DiffResult[T] {
	result := &DiffResult[T]{New: make([]T, 0)}

	if previous == nil {
		previous = NewSnapshot("")
	}

	for _, rec := range current {
		entry, exists := previous.Entries[rec.Key()]
		if !exists {
			result.New = append(result.New, rec)
			continue
		}
		if entry.Date != rec.DateValue() {
			result.DateChanged = append(result.DateChanged, Change{
				Key:      rec.Key(),
				OldValue: entry.Date,
				NewValue: rec.DateValue(),
			})
		}
	}

	sort.Slice(result.DateChanged, func(i, j int) bool {
		return result.DateChanged[i].Key < result.DateChanged[j].Key
	})

	return result
}

// CreateSnapshot builds the snapshot for the current records. FirstSeen is
// carried over from previous for records it already knew.
func CreateSnapshot[T Record](scope string, previous *Snapshot, current []T, now time.Time) *Snapshot {
	snap := NewSnapshot(scope)
	snap.UpdatedAt = now.UTC()

	for _, rec := range current {
		firstSeen := now.UTC()
		if previous != nil {
			if old, ok := previous.Entries[rec.Key()]; ok && !old.FirstSeen.IsZero() {
				firstSeen = old.FirstSeen
			}
		}
		snap.Entries[rec.Key()] = &Entry{
			Date:      rec.DateValue(),
			FirstSeen: firstSeen,
		}
	}

	return snap
}
