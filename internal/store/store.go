// Package store persists response documents in SQLite.
//
// It is the persistence collaborator of the session core: it receives whole
// response snapshots (hidden-but-answered items included) at checkpoint or
// completion time and never interprets enablement. Answers are also
// flattened into their own table so saved responses can be queried by item.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/HendryAvila/surveyor/internal/response"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ErrNotFound is returned when a response id is unknown.
var ErrNotFound = errors.New("response not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Record is a stored response document with its bookkeeping columns.
type Record struct {
	ID            string            `json:"id"`
	Questionnaire string            `json:"questionnaire"`
	Status        response.Status   `json:"status"`
	Answered      int               `json:"answered"`
	Document      response.Document `json:"document"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

// Summary is a Record without its document body.
type Summary struct {
	ID            string          `json:"id"`
	Questionnaire string          `json:"questionnaire"`
	Status        response.Status `json:"status"`
	Answered      int             `json:"answered"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ListOptions filters List.
type ListOptions struct {
	Questionnaire string
	Status        response.Status
	Limit         int
}

// Answer is one flattened answer row.
type Answer struct {
	ResponseID string `json:"response_id"`
	LinkID     string `json:"link_id"`
	Value      string `json:"value"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	DataDir  string
	MaxList  int
	FileName string
}

// DefaultConfig returns the default configuration rooted at dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:  dataDir,
		MaxList:  50,
		FileName: "responses.db",
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the SQLite-backed response archive.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates the data directory if needed, opens SQLite in WAL mode and
// runs migrations.
func New(cfg Config) (*Store, error) {
	if cfg.FileName == "" {
		cfg.FileName = "responses.db"
	}
	if cfg.MaxList <= 0 {
		cfg.MaxList = 50
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, cfg.FileName)
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS responses (
			id            TEXT PRIMARY KEY,
			questionnaire TEXT    NOT NULL,
			status        TEXT    NOT NULL,
			answered      INTEGER NOT NULL DEFAULT 0,
			body          TEXT    NOT NULL,
			created_at    TEXT    NOT NULL,
			updated_at    TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_resp_questionnaire ON responses(questionnaire);
		CREATE INDEX IF NOT EXISTS idx_resp_status        ON responses(status);
		CREATE INDEX IF NOT EXISTS idx_resp_updated       ON responses(updated_at DESC);

		CREATE TABLE IF NOT EXISTS answers (
			response_id TEXT    NOT NULL,
			position    INTEGER NOT NULL,
			link_id     TEXT    NOT NULL,
			value       TEXT    NOT NULL,
			PRIMARY KEY (response_id, link_id),
			FOREIGN KEY (response_id) REFERENCES responses(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_answers_link ON answers(link_id, value);
	`)
	return err
}

// ─── Responses ───────────────────────────────────────────────────────────────

// Save upserts a response document and replaces its flattened answers.
// created_at is kept from the first save.
func (s *Store) Save(doc response.Document) error {
	if doc.ID == "" {
		return errors.New("store: response id is required")
	}
	if err := response.ValidateStatus(doc.Status); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshaling response: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := Now()
	if _, err := tx.Exec(`
		INSERT INTO responses (id, questionnaire, status, answered, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			questionnaire = excluded.questionnaire,
			status        = excluded.status,
			answered      = excluded.answered,
			body          = excluded.body,
			updated_at    = excluded.updated_at`,
		doc.ID, doc.Questionnaire, string(doc.Status), doc.Answered(), string(body), now, now,
	); err != nil {
		return fmt.Errorf("store: saving response: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM answers WHERE response_id = ?`, doc.ID); err != nil {
		return fmt.Errorf("store: clearing answers: %w", err)
	}
	pos := 0
	var insert func([]response.DocumentItem) error
	insert = func(items []response.DocumentItem) error {
		for _, it := range items {
			if it.Answer != nil {
				if _, err := tx.Exec(
					`INSERT INTO answers (response_id, position, link_id, value) VALUES (?, ?, ?, ?)`,
					doc.ID, pos, it.LinkID, it.Answer.String(),
				); err != nil {
					return err
				}
			}
			pos++
			if err := insert(it.Items); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(doc.Items); err != nil {
		return fmt.Errorf("store: saving answers: %w", err)
	}

	return tx.Commit()
}

// Get loads a stored response by id.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, questionnaire, status, answered, body, created_at, updated_at FROM responses WHERE id = ?`, id,
	)
	var (
		rec    Record
		status string
		body   string
	)
	if err := row.Scan(&rec.ID, &rec.Questionnaire, &status, &rec.Answered, &body, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, fmt.Errorf("store: loading response: %w", err)
	}
	rec.Status = response.Status(status)
	if err := json.Unmarshal([]byte(body), &rec.Document); err != nil {
		return nil, fmt.Errorf("store: parsing response %q: %w", id, err)
	}
	return &rec, nil
}

// List returns stored responses, most recently updated first.
func (s *Store) List(opts ListOptions) ([]Summary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > s.cfg.MaxList {
		limit = s.cfg.MaxList
	}

	query := `SELECT id, questionnaire, status, answered, created_at, updated_at FROM responses WHERE 1=1`
	args := []any{}
	if opts.Questionnaire != "" {
		query += " AND questionnaire = ?"
		args = append(args, opts.Questionnaire)
	}
	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, string(opts.Status))
	}
	query += " ORDER BY updated_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: listing responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Summary
	for rows.Next() {
		var (
			sum    Summary
			status string
		)
		if err := rows.Scan(&sum.ID, &sum.Questionnaire, &status, &sum.Answered, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, err
		}
		sum.Status = response.Status(status)
		results = append(results, sum)
	}
	return results, rows.Err()
}

// Answers returns the flattened answers of one response in document order.
func (s *Store) Answers(responseID string) ([]Answer, error) {
	rows, err := s.db.Query(
		`SELECT response_id, link_id, value FROM answers WHERE response_id = ? ORDER BY position`, responseID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: loading answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.ResponseID, &a.LinkID, &a.Value); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// Delete removes a stored response and its answers. foreign_keys is a
// per-connection pragma, so answers are deleted explicitly rather than
// relying on the cascade.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM answers WHERE response_id = ?`, id); err != nil {
		return fmt.Errorf("store: deleting answers: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM responses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: deleting response: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: deleting response: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return tx.Commit()
}

// Now returns the current time formatted for SQLite.
func Now() string {
	return timeNow().UTC().Format("2006-01-02 15:04:05")
}

// timeNow is replaced in tests.
var timeNow = time.Now
