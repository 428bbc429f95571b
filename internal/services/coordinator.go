package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/art2002-alugu/infimobile-form/internal/db"
	"github.com/art2002-alugu/infimobile-form/internal/draft"
	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/pkg/logger"

	"go.uber.org/zap"
)

// SubmitState tracks where a submit action is in its lifecycle.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateValidating
	StateForwarding
	StateReconciling
	StateAwaitingConfirmation
	StateAppending
	StateCreating
	StateDone
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateForwarding:
		return "forwarding"
	case StateReconciling:
		return "reconciling"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateAppending:
		return "appending"
	case StateCreating:
		return "creating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Outcome reports how a submit action completed.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeAppended  Outcome = "appended"
	OutcomeAborted   Outcome = "aborted"
)

// SubmitResult is the caller-visible result of a submit, confirm or abort.
type SubmitResult struct {
	Outcome Outcome `json:"outcome"`
	DocID   string  `json:"id"`
}

var (
	// ErrInvalidMDN rejects a submit before any network activity happens.
	ErrInvalidMDN = errors.New("MDN must be 10 digits")
	// ErrConfirmationPending blocks a new submit while a duplicate decision
	// is outstanding.
	ErrConfirmationPending = errors.New("a duplicate confirmation is pending")
	// ErrNoPendingConfirmation rejects confirm/abort with nothing pending.
	ErrNoPendingConfirmation = errors.New("no pending duplicate confirmation")
)

var mdnPattern = regexp.MustCompile(`^\d{10}$`)

// DocumentStore is the store surface the coordinator needs.
type DocumentStore interface {
	Get(id string) (*models.Record, bool, error)
	Create(id string, sub *models.Submission) (*models.Record, error)
	AppendUpdate(id string, notes, agent string) (*models.UpdateEntry, error)
}

// JSONSink forwards the full draft to the spreadsheet endpoint.
type JSONSink interface {
	PostJSON(ctx context.Context, payload interface{}) error
}

type pendingAppend struct {
	docID   string
	payload *models.Submission
}

// Coordinator owns the intake draft and orchestrates a submit across the two
// sinks. The spreadsheet post is best effort; the document store decides
// create-vs-append, and an append requires an explicit confirmation step.
type Coordinator struct {
	mu       sync.Mutex
	store    DocumentStore
	sheet    JSONSink
	drafts   *draft.Store
	index    *RecordIndex
	detector *DuplicateDetector
	draft    *models.Submission
	pending  *pendingAppend
	state    SubmitState
	now      func() time.Time
}

// NewCoordinator restores the persisted draft and primes the detector with
// its natural keys.
func NewCoordinator(store DocumentStore, sheet JSONSink, drafts *draft.Store, index *RecordIndex, detector *DuplicateDetector) *Coordinator {
	c := &Coordinator{
		store:    store,
		sheet:    sheet,
		drafts:   drafts,
		index:    index,
		detector: detector,
		draft:    drafts.Load(),
		state:    StateIdle,
		now:      time.Now,
	}
	detector.SetKeys(c.draft.MDN, c.draft.ConversationID)
	return c
}

// Draft returns a copy of the current draft.
func (c *Coordinator) Draft() *models.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// SetDraft replaces the draft, persists it, and refreshes the duplicate
// candidate. Autosave failures are logged, not surfaced.
func (c *Coordinator) SetDraft(sub *models.Submission) error {
	if sub == nil {
		return errors.New("draft cannot be nil")
	}

	c.mu.Lock()
	c.draft = sub.Clone()
	if err := c.drafts.Save(c.draft); err != nil {
		logger.Warn("Draft autosave failed", zap.Error(err))
	}
	mdn, convID := c.draft.MDN, c.draft.ConversationID
	c.mu.Unlock()

	c.detector.SetKeys(mdn, convID)
	return nil
}

// AddExtraField appends a new ad-hoc field to the draft and persists it.
func (c *Coordinator) AddExtraField(label string) models.ExtraField {
	if label == "" {
		label = "Note"
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	field := models.NewExtraField(label)
	c.draft.ExtraFields = append(c.draft.ExtraFields, field)
	if err := c.drafts.Save(c.draft); err != nil {
		logger.Warn("Draft autosave failed", zap.Error(err))
	}
	return field
}

// Reset discards the draft, stored and in-memory, and returns to defaults.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if err := c.drafts.Clear(); err != nil {
		logger.Warn("Failed to clear stored draft", zap.Error(err))
	}
	c.draft = models.DefaultSubmission()
	c.pending = nil
	c.state = StateIdle
	c.mu.Unlock()

	c.detector.SetKeys("", "")
}

// Candidate returns the current duplicate candidate, or nil.
func (c *Coordinator) Candidate() *models.Record {
	return c.detector.Candidate()
}

// Records returns the locally observed submission list, newest first.
func (c *Coordinator) Records() []*models.Record {
	return c.index.Snapshot()
}

// State returns the current submit state.
func (c *Coordinator) State() SubmitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one submit action: validate, forward to the sheet, then
// reconcile against the document store. A duplicate leaves the flow parked
// in AwaitingConfirmation with no store write; Confirm or Abort resolves it.
func (c *Coordinator) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		return nil, ErrConfirmationPending
	}

	c.state = StateValidating
	if c.draft.MDN != "" && !mdnPattern.MatchString(c.draft.MDN) {
		c.state = StateIdle
		return nil, ErrInvalidMDN
	}

	payload := c.draft.Clone()

	// Forward to the sheet first; this sink is non-critical and never
	// aborts the flow.
	c.state = StateForwarding
	if err := c.sheet.PostJSON(ctx, payload); err != nil {
		logger.Warn("Sheet post failed", zap.Error(err))
	}

	c.state = StateReconciling
	docID := db.DocID(payload, c.now())

	_, found, err := c.store.Get(docID)
	if err != nil {
		logger.Error("Document store read failed",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
		// Sinks are independent: the draft still completes locally.
		c.finalizeLocked(docID, payload)
		return &SubmitResult{Outcome: OutcomeCreated, DocID: docID}, nil
	}

	if found {
		c.pending = &pendingAppend{docID: docID, payload: payload}
		c.state = StateAwaitingConfirmation
		logger.Info("Duplicate submission detected",
			zap.String("doc_id", docID),
			zap.String("mdn", payload.MDN),
			zap.String("conversation_id", payload.ConversationID),
		)
		return &SubmitResult{Outcome: OutcomeDuplicate, DocID: docID}, nil
	}

	c.state = StateCreating
	if _, err := c.store.Create(docID, payload); err != nil {
		logger.Error("Document store write failed",
			zap.String("doc_id", docID),
			zap.Error(err),
		)
	}

	c.finalizeLocked(docID, payload)
	return &SubmitResult{Outcome: OutcomeCreated, DocID: docID}, nil
}

// Confirm resolves a pending duplicate by appending an update entry under
// the existing document, then completes the submit.
func (c *Coordinator) Confirm(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return nil, ErrNoPendingConfirmation
	}

	p := c.pending
	c.pending = nil
	c.state = StateAppending

	if _, err := c.store.AppendUpdate(p.docID, p.payload.TSUpdate, p.payload.AgentName); err != nil {
		logger.Error("Failed to append update entry",
			zap.String("doc_id", p.docID),
			zap.Error(err),
		)
	}

	c.finalizeLocked(p.docID, p.payload)
	return &SubmitResult{Outcome: OutcomeAppended, DocID: p.docID}, nil
}

// Abort declines a pending duplicate. No write occurs and the draft is kept.
func (c *Coordinator) Abort() (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		return nil, ErrNoPendingConfirmation
	}

	docID := c.pending.docID
	c.pending = nil
	c.state = StateIdle
	return &SubmitResult{Outcome: OutcomeAborted, DocID: docID}, nil
}

// finalizeLocked clears the draft everywhere, records the submission locally
// with a client-side timestamp, and returns to idle. Callers hold c.mu.
func (c *Coordinator) finalizeLocked(docID string, payload *models.Submission) {
	c.state = StateDone

	if err := c.drafts.Clear(); err != nil {
		logger.Warn("Failed to clear stored draft", zap.Error(err))
	}
	c.draft = models.DefaultSubmission()
	c.detector.SetKeys("", "")

	c.index.Prepend(&models.Record{
		ID:          docID,
		Submission:  *payload,
		SubmittedAt: c.now(),
	})

	c.state = StateIdle
}
