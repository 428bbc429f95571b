package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/art2002-alugu/infimobile-form/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SnapshotListener receives the full submission list, newest first, when the
// submissions collection changes.
type SnapshotListener func(records []*models.Record)

// StoreInterface is the document-store contract used by the coordinator and
// the server wiring.
type StoreInterface interface {
	Close() error
	Get(id string) (*models.Record, bool, error)
	Create(id string, sub *models.Submission) (*models.Record, error)
	AppendUpdate(id string, notes, agent string) (*models.UpdateEntry, error)
	List() ([]*models.Record, error)
	ListUpdates(id string) ([]*models.UpdateEntry, error)
	Subscribe(listener SnapshotListener) (cancel func(), err error)
}

// DocID derives the deterministic document identifier for a submission:
// the phone number when present, otherwise the conversation ID, otherwise a
// time-based fallback. Determinism per natural key is what makes repeated
// submits land on the same document.
func DocID(sub *models.Submission, now time.Time) string {
	if sub.MDN != "" {
		return "mdn_" + sub.MDN
	}
	if sub.ConversationID != "" {
		return "conv_" + sub.ConversationID
	}
	return fmt.Sprintf("auto_%d", now.UnixMilli())
}

// Store persists submission documents and their update entries in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time

	mu         sync.Mutex
	listeners  map[int]SnapshotListener
	nextListen int
}

func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Verify we can actually connect to the database
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("ping failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	if err := createTables(db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("create tables failed: %w, close failed: %v", err, closeErr)
		}
		return nil, err
	}

	return &Store{
		db:        db,
		now:       time.Now,
		listeners: make(map[int]SnapshotListener),
	}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS updates (
			id TEXT PRIMARY KEY,
			submission_id TEXT NOT NULL REFERENCES submissions(id),
			notes TEXT,
			agent TEXT,
			updated_at INTEGER NOT NULL
		)
	`)
	return err
}

func (s *Store) Close() error {
	if s == nil {
		return errors.New("store is nil")
	}

	if s.db == nil {
		return errors.New("store already closed")
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// Get fetches the document at id. The second return value reports existence.
func (s *Store) Get(id string) (*models.Record, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, errors.New("store is closed")
	}

	if id == "" {
		return nil, false, errors.New("document ID is required")
	}

	var payload string
	var createdAt int64
	err := s.db.QueryRow(
		"SELECT payload, created_at FROM submissions WHERE id = ?", id,
	).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rec, err := decodeRecord(id, payload, createdAt)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Create persists a new document at id with a server-assigned creation
// timestamp, then notifies subscribers.
func (s *Store) Create(id string, sub *models.Submission) (*models.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}

	if id == "" {
		return nil, errors.New("document ID is required")
	}

	if sub == nil {
		return nil, errors.New("submission cannot be nil")
	}

	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	_, err = s.db.Exec(
		"INSERT INTO submissions (id, payload, created_at) VALUES (?, ?, ?)",
		id, string(payload), createdAt.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}

	rec := &models.Record{ID: id, Submission: *sub.Clone(), CreatedAt: createdAt}
	s.notify()
	return rec, nil
}

// AppendUpdate adds an update entry under an existing document. The entry is
// strictly additive: the document payload itself is never touched. Update
// rows do not change the submissions collection, so subscribers are not
// renotified.
func (s *Store) AppendUpdate(id string, notes, agent string) (*models.UpdateEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}

	if id == "" {
		return nil, errors.New("document ID is required")
	}

	var exists int
	err := s.db.QueryRow("SELECT COUNT(1) FROM submissions WHERE id = ?", id).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("no submission with ID %s", id)
	}

	updatedAt := s.now()
	entry := &models.UpdateEntry{
		ID:        fmt.Sprintf("u_%d", updatedAt.UnixMilli()),
		Notes:     notes,
		Agent:     agent,
		UpdatedAt: updatedAt,
	}

	_, err = s.db.Exec(
		"INSERT INTO updates (id, submission_id, notes, agent, updated_at) VALUES (?, ?, ?, ?, ?)",
		entry.ID, id, entry.Notes, entry.Agent, updatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// List returns all documents ordered by creation time, newest first.
func (s *Store) List() ([]*models.Record, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}

	rows, err := s.db.Query(
		"SELECT id, payload, created_at FROM submissions ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		var id, payload string
		var createdAt int64
		if err := rows.Scan(&id, &payload, &createdAt); err != nil {
			return nil, err
		}
		rec, err := decodeRecord(id, payload, createdAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ListUpdates returns the update entries under a document, oldest first.
func (s *Store) ListUpdates(id string) ([]*models.UpdateEntry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}

	if id == "" {
		return nil, errors.New("document ID is required")
	}

	rows, err := s.db.Query(
		"SELECT id, notes, agent, updated_at FROM updates WHERE submission_id = ? ORDER BY updated_at ASC",
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.UpdateEntry
	for rows.Next() {
		entry := &models.UpdateEntry{}
		var updatedAt int64
		if err := rows.Scan(&entry.ID, &entry.Notes, &entry.Agent, &updatedAt); err != nil {
			return nil, err
		}
		entry.UpdatedAt = time.UnixMilli(updatedAt)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// Subscribe registers a listener for the submissions collection. The current
// snapshot is delivered immediately, then again after every document
// creation. The returned cancel func releases the subscription.
func (s *Store) Subscribe(listener SnapshotListener) (func(), error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is closed")
	}

	if listener == nil {
		return nil, errors.New("listener cannot be nil")
	}

	s.mu.Lock()
	key := s.nextListen
	s.nextListen++
	s.listeners[key] = listener
	s.mu.Unlock()

	records, err := s.List()
	if err != nil {
		return nil, err
	}
	listener(records)

	cancel := func() {
		s.mu.Lock()
		delete(s.listeners, key)
		s.mu.Unlock()
	}
	return cancel, nil
}

func (s *Store) notify() {
	records, err := s.List()
	if err != nil {
		return
	}

	s.mu.Lock()
	listeners := make([]SnapshotListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(records)
	}
}

func decodeRecord(id, payload string, createdAt int64) (*models.Record, error) {
	rec := &models.Record{ID: id, CreatedAt: time.UnixMilli(createdAt)}
	if err := json.Unmarshal([]byte(payload), &rec.Submission); err != nil {
		return nil, fmt.Errorf("corrupt payload for %s: %w", id, err)
	}
	return rec, nil
}
