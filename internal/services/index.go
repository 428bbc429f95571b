package services

import (
	"sync"

	"github.com/art2002-alugu/infimobile-form/internal/models"
)

// RecordIndex is the in-memory, newest-first list of observed submissions.
// It is fed by the store subscription and by local submits, and read by the
// duplicate detector and the export projections. It is not authoritative;
// the document store is.
type RecordIndex struct {
	mu        sync.RWMutex
	records   []*models.Record
	observers []func([]*models.Record)
}

func NewRecordIndex() *RecordIndex {
	return &RecordIndex{}
}

// Observe registers a callback invoked synchronously with the current list,
// first on registration and then after every mutation. Observers run in
// registration order.
func (ix *RecordIndex) Observe(fn func(records []*models.Record)) {
	if fn == nil {
		return
	}
	ix.mu.Lock()
	ix.observers = append(ix.observers, fn)
	ix.mu.Unlock()

	fn(ix.Snapshot())
}

// Replace swaps in a fresh snapshot from the store subscription.
func (ix *RecordIndex) Replace(snapshot []*models.Record) {
	ix.mu.Lock()
	ix.records = append([]*models.Record(nil), snapshot...)
	ix.mu.Unlock()
	ix.notify()
}

// Prepend adds a locally submitted record at the head of the list. Any
// record already carrying the same document ID is superseded, so a store
// snapshot delivered during the same submit cannot leave the submission
// listed twice.
func (ix *RecordIndex) Prepend(rec *models.Record) {
	if rec == nil {
		return
	}
	ix.mu.Lock()
	merged := make([]*models.Record, 0, len(ix.records)+1)
	merged = append(merged, rec)
	for _, r := range ix.records {
		if r.ID != rec.ID {
			merged = append(merged, r)
		}
	}
	ix.records = merged
	ix.mu.Unlock()
	ix.notify()
}

// Snapshot returns a copy of the current list, newest first.
func (ix *RecordIndex) Snapshot() []*models.Record {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]*models.Record(nil), ix.records...)
}

func (ix *RecordIndex) notify() {
	ix.mu.RLock()
	var observers []func([]*models.Record)
	observers = append(observers, ix.observers...)
	ix.mu.RUnlock()

	snapshot := ix.Snapshot()
	for _, fn := range observers {
		fn(snapshot)
	}
}
