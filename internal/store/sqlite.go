package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS opportunities (
	id               TEXT NOT NULL,
	date             TEXT NOT NULL DEFAULT '',
	site_name        TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL UNIQUE,
	email            TEXT NOT NULL DEFAULT '',
	contact_method   TEXT NOT NULL DEFAULT '',
	form_url         TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT '',
	email_status     TEXT NOT NULL DEFAULT '',
	email_sent_at    TEXT NOT NULL DEFAULT '',
	guidelines       TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	follow_up_date   TEXT NOT NULL DEFAULT '',
	response_summary TEXT NOT NULL DEFAULT ''
);
`

const sqliteColumns = `date, site_name, url, email, contact_method, form_url,
	status, email_status, email_sent_at, guidelines, notes, follow_up_date,
	response_summary`

// SQLiteStore persists opportunities in a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// The sqlite driver serializes access through a single connection;
	// more would just contend on the file lock.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Available reports durable persistence.
func (s *SQLiteStore) Available() bool {
	return true
}

// Upsert inserts a new row or merge-updates the existing one by URL.
func (s *SQLiteStore) Upsert(ctx context.Context, opp opportunity.Opportunity) error {
	existing, err := s.FindByURL(ctx, opp.URL)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.insert(ctx, opportunity.Clamp(opp))
	case err != nil:
		return err
	}
	return s.update(ctx, opportunity.Merge(*existing, opp))
}

func (s *SQLiteStore) insert(ctx context.Context, opp opportunity.Opportunity) error {
	row := rowFor(opp)
	args := []any{opp.ID}
	for _, v := range row {
		args = append(args, v)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO opportunities (id, `+sqliteColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to insert opportunity %s: %w", opp.URL, err)
	}
	return nil
}

// update rewrites every column; the caller already merged old and new.
// An UPDATE keeps the original rowid so insertion order survives.
func (s *SQLiteStore) update(ctx context.Context, opp opportunity.Opportunity) error {
	row := rowFor(opp)
	_, err := s.db.ExecContext(ctx,
		`UPDATE opportunities SET date=?, site_name=?, email=?, contact_method=?,
			form_url=?, status=?, email_status=?, email_sent_at=?, guidelines=?,
			notes=?, follow_up_date=?, response_summary=? WHERE url=?`,
		row[0], row[1], row[3], row[4], row[5], row[6], row[7], row[8],
		row[9], row[10], row[11], row[12], opp.URL)
	if err != nil {
		return fmt.Errorf("failed to update opportunity %s: %w", opp.URL, err)
	}
	return nil
}

// GetAll returns every opportunity in insertion order.
func (s *SQLiteStore) GetAll(ctx context.Context) ([]opportunity.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+sqliteColumns+` FROM opportunities ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query opportunities: %w", err)
	}
	defer rows.Close()

	var out []opportunity.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, opp)
	}
	return out, rows.Err()
}

// FindByURL returns the stored opportunity, or ErrNotFound.
func (s *SQLiteStore) FindByURL(ctx context.Context, url string) (*opportunity.Opportunity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, `+sqliteColumns+` FROM opportunities WHERE url = ?`, url)

	opp, err := scanOpportunity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

// MarkReplied records the response summary and clears the follow-up.
func (s *SQLiteStore) MarkReplied(ctx context.Context, url, summary string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE opportunities SET response_summary = ?, follow_up_date = '' WHERE url = ?`,
		opportunity.Truncate(summary, opportunity.MaxTextLen), url)
	if err != nil {
		return fmt.Errorf("failed to record reply for %s: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DueForFollowup applies the shared selection rule over all rows. The
// date arithmetic lives in Go so every backend agrees on it exactly.
func (s *SQLiteStore) DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var due []opportunity.Opportunity
	for _, opp := range all {
		if dueForFollowup(opp, today) {
			due = append(due, opp)
		}
	}
	return due, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanOpportunity(scan func(...any) error) (opportunity.Opportunity, error) {
	var id string
	row := make([]string, len(Columns))
	dest := []any{&id}
	for i := range row {
		dest = append(dest, &row[i])
	}
	if err := scan(dest...); err != nil {
		return opportunity.Opportunity{}, err
	}
	opp := fromRow(row)
	opp.ID = id
	return opp, nil
}

var _ Store = (*SQLiteStore)(nil)
