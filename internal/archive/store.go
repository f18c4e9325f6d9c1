// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps every collection run and its papers in a SQLite
// database so reports can be regenerated and exported later without
// querying PubMed again.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-pipeline/pkg/types"
)

// DefaultPath is the database location when none is configured.
const DefaultPath = "archive/papers.db"

// ErrRunNotFound is returned when a run ID does not exist or the archive
// holds no runs yet.
var ErrRunNotFound = errors.New("run not found")

// Run describes one archived collection run.
type Run struct {
	ID             int64           `json:"id" yaml:"id"`
	Range          types.DateRange `json:"range" yaml:"range"`
	Keywords       string          `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	CollectedAt    time.Time       `json:"collected_at" yaml:"collected_at"`
	PaperCount     int             `json:"paper_count" yaml:"paper_count"`
	FailedJournals []string        `json:"failed_journals,omitempty" yaml:"failed_journals,omitempty"`
	ReportPath     string          `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// Store is the SQLite-backed run archive.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			keywords TEXT,
			collected_at TEXT NOT NULL,
			paper_count INTEGER NOT NULL,
			failed_journals TEXT,
			report_path TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			pmid TEXT,
			title TEXT,
			journal TEXT,
			published_date TEXT,
			authors TEXT,
			abstract TEXT,
			url TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_run_id ON papers(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_pmid ON papers(pmid)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// SaveRun stores run and its papers in one transaction and returns the new
// run ID. PaperCount is taken from papers.
func (s *Store) SaveRun(ctx context.Context, run Run, papers []types.Paper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	failedJSON, _ := json.Marshal(run.FailedJournals)
	if run.CollectedAt.IsZero() {
		run.CollectedAt = time.Now()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (start_date, end_date, keywords, collected_at, paper_count, failed_journals, report_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Range.Start.Format(dateLayout), run.Range.End.Format(dateLayout), run.Keywords,
		run.CollectedAt.UTC().Format(time.RFC3339Nano), len(papers), string(failedJSON), run.ReportPath,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (run_id, pmid, title, journal, published_date, authors, abstract, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range papers {
		if _, err := stmt.ExecContext(ctx, id, p.PMID, p.Title, p.Journal, p.PublishedDate, p.Authors, p.Abstract, p.URL); err != nil {
			return 0, fmt.Errorf("inserting paper %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// SetReportPath records where the workbook of a run was written.
func (s *Store) SetReportPath(ctx context.Context, id int64, path string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET report_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("updating run %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return nil
}

const runColumns = `id, start_date, end_date, keywords, collected_at, paper_count, failed_journals, report_path`

// Runs lists all runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns the run with the given ID.
func (s *Store) Run(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("archive is empty: %w", ErrRunNotFound)
	}
	return r, err
}

// Papers returns the papers of a run in the order they were collected.
func (s *Store) Papers(ctx context.Context, runID int64) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pmid, title, journal, published_date, authors, abstract, url
		 FROM papers WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	papers := []types.Paper{}
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.PMID, &p.Title, &p.Journal, &p.PublishedDate, &p.Authors, &p.Abstract, &p.URL); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                     Run
		start, end, collected string
		keywords, failed, rep sql.NullString
	)
	if err := sc.Scan(&r.ID, &start, &end, &keywords, &collected, &r.PaperCount, &failed, &rep); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}

	var err error
	if r.Range.Start, err = time.Parse(dateLayout, start); err != nil {
		return Run{}, fmt.Errorf("run %d: bad start date %q: %w", r.ID, start, err)
	}
	if r.Range.End, err = time.Parse(dateLayout, end); err != nil {
		return Run{}, fmt.Errorf("run %d: bad end date %q: %w", r.ID, end, err)
	}
	if r.CollectedAt, err = time.Parse(time.RFC3339Nano, collected); err != nil {
		return Run{}, fmt.Errorf("run %d: bad timestamp %q: %w", r.ID, collected, err)
	}
	r.Keywords = keywords.String
	r.ReportPath = rep.String
	if failed.Valid && failed.String != "" && failed.String != "null" {
		if err := json.Unmarshal([]byte(failed.String), &r.FailedJournals); err != nil {
			return Run{}, fmt.Errorf("run %d: bad failed journals: %w", r.ID, err)
		}
	}
	return r, nil
}
