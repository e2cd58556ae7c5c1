package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matsen/affil/internal/reference"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `id, conference, url, title, fingerprint, source,
	authors_json, author_order_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			conference TEXT NOT NULL,
			id TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			fingerprint TEXT,
			source TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			author_order_json TEXT,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (conference, id)
		);

		-- Per-paper failures, grouped by message on export
		CREATE TABLE IF NOT EXISTS failures (
			conference TEXT NOT NULL,
			paper_id TEXT NOT NULL,
			message TEXT NOT NULL,
			PRIMARY KEY (conference, paper_id)
		);

		-- One row per (author, affiliation) for full-text lookup
		CREATE VIRTUAL TABLE IF NOT EXISTS affiliations_fts USING fts5(
			conference UNINDEXED,
			paper_id UNINDEXED,
			author,
			affiliation
		);
	`

	_, err := db.Exec(schema)
	return err
}

// SavePaper inserts or replaces a paper record and clears any failure
// recorded for it.
func (d *DB) SavePaper(p reference.Paper) error {
	authorsJSON, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
	}
	var orderJSON []byte
	if len(p.AuthorOrder) > 0 {
		if orderJSON, err = json.Marshal(p.AuthorOrder); err != nil {
			return fmt.Errorf("marshaling author order for %s: %w", p.ID, err)
		}
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO papers (
			conference, id, url, title, fingerprint, source,
			authors_json, author_order_json, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Conference, p.ID, p.URL, p.Title, nullableStringValue(p.Fingerprint), p.Source,
		string(authorsJSON), nullableString(orderJSON), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID, err)
	}

	if _, err := tx.Exec(`DELETE FROM affiliations_fts WHERE conference = ? AND paper_id = ?`, p.Conference, p.ID); err != nil {
		return fmt.Errorf("clearing affiliations for %s: %w", p.ID, err)
	}
	stmt, err := tx.Prepare(`INSERT INTO affiliations_fts (conference, paper_id, author, affiliation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing affiliation insert: %w", err)
	}
	defer stmt.Close()
	for _, name := range p.Names() {
		for _, aff := range p.Authors[name] {
			if _, err := stmt.Exec(p.Conference, p.ID, name, aff); err != nil {
				return fmt.Errorf("inserting affiliation for %s: %w", p.ID, err)
			}
		}
	}

	if _, err := tx.Exec(`DELETE FROM failures WHERE conference = ? AND paper_id = ?`, p.Conference, p.ID); err != nil {
		return fmt.Errorf("clearing failure for %s: %w", p.ID, err)
	}

	return tx.Commit()
}

// GetPaper retrieves a paper by conference and ID. Returns nil if absent.
func (d *DB) GetPaper(conference, id string) (*reference.Paper, error) {
	row := d.db.QueryRow(`SELECT `+selectPaperFields+` FROM papers WHERE conference = ? AND id = ?`, conference, id)
	return scanPaper(row)
}

// ListPapers returns every paper of a conference, ordered by ID.
func (d *DB) ListPapers(conference string) ([]reference.Paper, error) {
	rows, err := d.db.Query(`SELECT `+selectPaperFields+` FROM papers WHERE conference = ? ORDER BY id`, conference)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []reference.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

// Count returns the number of papers stored for a conference.
func (d *DB) Count(conference string) (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM papers WHERE conference = ?`, conference).Scan(&count)
	return count, err
}

// Fingerprint returns the stored PDF fingerprint of a paper, or "" if the
// paper is absent or has none.
func (d *DB) Fingerprint(conference, id string) (string, error) {
	var fp sql.NullString
	err := d.db.QueryRow(`SELECT fingerprint FROM papers WHERE conference = ? AND id = ?`, conference, id).Scan(&fp)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading fingerprint of %s: %w", id, err)
	}
	return fp.String, nil
}

// RecordFailure stores why a paper failed, replacing any earlier failure.
func (d *DB) RecordFailure(f reference.Failure) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO failures (conference, paper_id, message)
		VALUES (?, ?, ?)`, f.Conference, f.PaperID, f.Message)
	if err != nil {
		return fmt.Errorf("recording failure of %s: %w", f.PaperID, err)
	}
	return nil
}

// ListFailures returns the failures of a conference, ordered by paper ID.
func (d *DB) ListFailures(conference string) ([]reference.Failure, error) {
	rows, err := d.db.Query(`
		SELECT conference, paper_id, message FROM failures
		WHERE conference = ? ORDER BY paper_id`, conference)
	if err != nil {
		return nil, fmt.Errorf("listing failures: %w", err)
	}
	defer rows.Close()

	var out []reference.Failure
	for rows.Next() {
		var f reference.Failure
		if err := rows.Scan(&f.Conference, &f.PaperID, &f.Message); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AffiliationHit is one author affiliation matching a search.
type AffiliationHit struct {
	Conference  string `json:"conference"`
	PaperID     string `json:"paper_id"`
	Author      string `json:"author"`
	Affiliation string `json:"affiliation"`
}

// SearchAffiliations performs a full-text search over affiliation strings.
func (d *DB) SearchAffiliations(query string, limit int) ([]AffiliationHit, error) {
	ftsQuery := "affiliation:" + prepareFTSQuery(query)
	rows, err := d.db.Query(`
		SELECT conference, paper_id, author, affiliation
		FROM affiliations_fts
		WHERE affiliations_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching affiliations: %w", err)
	}
	defer rows.Close()

	var hits []AffiliationHit
	for rows.Next() {
		var h AffiliationHit
		if err := rows.Scan(&h.Conference, &h.PaperID, &h.Author, &h.Affiliation); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// RebuildFromJSONL replaces a conference's papers with those in a JSONL file.
func (d *DB) RebuildFromJSONL(conference, jsonlPath string) (int, error) {
	papers, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec(`DELETE FROM papers WHERE conference = ?`, conference); err != nil {
		return 0, fmt.Errorf("clearing papers: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM affiliations_fts WHERE conference = ?`, conference); err != nil {
		return 0, fmt.Errorf("clearing affiliations: %w", err)
	}

	for _, p := range papers {
		p.Conference = conference
		if err := d.SavePaper(p); err != nil {
			return 0, err
		}
	}
	return len(papers), nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(s scanner) (*reference.Paper, error) {
	var p reference.Paper
	var fingerprint, orderJSON sql.NullString
	var authorsJSON string

	err := s.Scan(&p.ID, &p.Conference, &p.URL, &p.Title, &fingerprint, &p.Source, &authorsJSON, &orderJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Fingerprint = fingerprint.String

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", p.ID, err)
	}
	if orderJSON.Valid && orderJSON.String != "" {
		if err := json.Unmarshal([]byte(orderJSON.String), &p.AuthorOrder); err != nil {
			return nil, fmt.Errorf("parsing author order JSON for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery quotes a user query as one FTS5 phrase.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}
