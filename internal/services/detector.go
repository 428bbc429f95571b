package services

import (
	"sync"

	"github.com/art2002-alugu/infimobile-form/internal/models"
)

// DuplicateDetector matches the draft's natural keys against the record
// index. It recomputes on every key change and on every index refresh, and
// exposes the current candidate for the form to warn about.
type DuplicateDetector struct {
	mu             sync.Mutex
	mdn            string
	conversationID string
	candidate      *models.Record
	records        []*models.Record
}

// NewDuplicateDetector registers the detector on the index. Registration
// order relative to other observers is fixed by construction order.
func NewDuplicateDetector(index *RecordIndex) *DuplicateDetector {
	d := &DuplicateDetector{}
	index.Observe(d.onIndexChanged)
	return d
}

// SetKeys updates the draft's natural keys and recomputes the candidate.
func (d *DuplicateDetector) SetKeys(mdn, conversationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mdn = mdn
	d.conversationID = conversationID
	d.recompute()
}

// Candidate returns the currently matched record, or nil.
func (d *DuplicateDetector) Candidate() *models.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.candidate
}

func (d *DuplicateDetector) onIndexChanged(records []*models.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = records
	d.recompute()
}

// recompute scans newest-first and keeps the first match; ties are not
// surfaced. Callers hold d.mu.
func (d *DuplicateDetector) recompute() {
	if d.mdn == "" && d.conversationID == "" {
		d.candidate = nil
		return
	}

	for _, rec := range d.records {
		if (d.mdn != "" && rec.MDN == d.mdn) ||
			(d.conversationID != "" && rec.ConversationID == d.conversationID) {
			d.candidate = rec
			return
		}
	}
	d.candidate = nil
}
