package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MatthewNewland/rcvplus/report"
)

var ErrNotFound = errors.New("outcome not found")

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry summarises one archived run.
type Entry struct {
	RunID      string    `json:"run_id"`
	Method     string    `json:"method"`
	Seats      int       `json:"seats"`
	InputsHash string    `json:"inputs_hash"`
	Winners    []string  `json:"winners"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store keeps tabulation outcomes in a sqlite database. The full report
// document is stored as deterministic CBOR next to indexed summary columns.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the archive at path. ":memory:" gives a private
// in-memory archive.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	if err := createSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives doc under its run ID.
func (s *Store) Save(ctx context.Context, doc *report.Document) error {
	if doc.RunID == "" {
		return fmt.Errorf("save outcome: missing run id")
	}
	payload, err := report.MarshalCBOR(doc)
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", doc.RunID, err)
	}
	winners, err := json.Marshal(doc.Winners)
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", doc.RunID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO outcome (run_id, method, seats, inputs_hash, winners, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.RunID, doc.Method, doc.Seats, doc.Fingerprint, string(winners), payload,
		s.now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("save outcome %s: %w", doc.RunID, err)
	}
	return nil
}

// Get returns the archived document for runID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, runID string) (*report.Document, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM outcome WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get outcome %s: %w", runID, err)
	}
	return report.DecodeCBOR(payload)
}

// ListByHash returns every run over the input with fingerprint hash, oldest first.
func (s *Store) ListByHash(ctx context.Context, hash string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, method, seats, inputs_hash, winners, created_at
		FROM outcome
		WHERE inputs_hash = ?
		ORDER BY created_at, run_id
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var winners, createdAt string
		if err := rows.Scan(&e.RunID, &e.Method, &e.Seats, &e.InputsHash, &winners, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if err := json.Unmarshal([]byte(winners), &e.Winners); err != nil {
			return nil, fmt.Errorf("decode winners of %s: %w", e.RunID, err)
		}
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("decode created_at of %s: %w", e.RunID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	return entries, nil
}
