package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/config"
	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore persists opportunities as rows of a Google Sheet, one
// opportunity per row with a fixed header in row 1. The sheet is the
// source of truth; every operation re-reads it rather than trusting a
// local cache, since humans edit these sheets by hand.
type SheetsStore struct {
	svc       *sheets.Service
	sheetID   string
	sheetName string
}

// NewSheetsStore connects to the configured spreadsheet and writes the
// header row if the sheet is empty.
func NewSheetsStore(ctx context.Context, cfg config.StoreConfig) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	s := &SheetsStore{
		svc:       svc,
		sheetID:   cfg.SheetID,
		sheetName: cfg.SheetName,
	}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Available reports durable persistence.
func (s *SheetsStore) Available() bool {
	return true
}

// ensureHeader writes the column header into row 1 when missing.
func (s *SheetsStore) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.sheetID, s.sheetName+"!1:1").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet header: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.sheetID, s.sheetName+"!1:1", &sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}
	return nil
}

// readRows fetches all data rows. The returned slice index i maps to
// sheet row i+2 (row 1 holds the header).
func (s *SheetsStore) readRows(ctx context.Context) ([]opportunity.Opportunity, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.sheetID, s.sheetName+"!A2:M").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}

	out := make([]opportunity.Opportunity, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		out = append(out, fromRow(row))
	}
	return out, nil
}

// writeRow rewrites one data row in place. idx is the readRows index.
func (s *SheetsStore) writeRow(ctx context.Context, idx int, opp opportunity.Opportunity) error {
	row := rowFor(opp)
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	rng := fmt.Sprintf("%s!A%d:M%d", s.sheetName, idx+2, idx+2)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.sheetID, rng, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet row for %s: %w", opp.URL, err)
	}
	return nil
}

// Upsert appends a new row or merge-updates the row holding the URL.
func (s *SheetsStore) Upsert(ctx context.Context, opp opportunity.Opportunity) error {
	existing, err := s.readRows(ctx)
	if err != nil {
		return err
	}

	for i, row := range existing {
		if row.URL == opp.URL {
			return s.writeRow(ctx, i, opportunity.Merge(row, opp))
		}
	}

	row := rowFor(opportunity.Clamp(opp))
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	_, err = s.svc.Spreadsheets.Values.
		Append(s.sheetID, s.sheetName+"!A:M", &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append sheet row for %s: %w", opp.URL, err)
	}
	return nil
}

// GetAll returns every opportunity in sheet order.
func (s *SheetsStore) GetAll(ctx context.Context) ([]opportunity.Opportunity, error) {
	return s.readRows(ctx)
}

// FindByURL returns the opportunity for a URL, or ErrNotFound.
func (s *SheetsStore) FindByURL(ctx context.Context, url string) (*opportunity.Opportunity, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.URL == url {
			opp := row
			return &opp, nil
		}
	}
	return nil, ErrNotFound
}

// MarkReplied records the response summary and clears the follow-up.
func (s *SheetsStore) MarkReplied(ctx context.Context, url, summary string) error {
	rows, err := s.readRows(ctx)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if row.URL == url {
			row.ResponseSum = opportunity.Truncate(summary, opportunity.MaxTextLen)
			row.FollowUpDate = nil
			return s.writeRow(ctx, i, row)
		}
	}
	return ErrNotFound
}

// DueForFollowup applies the shared selection rule over all rows.
func (s *SheetsStore) DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}
	var due []opportunity.Opportunity
	for _, opp := range rows {
		if dueForFollowup(opp, today) {
			due = append(due, opp)
		}
	}
	return due, nil
}

// Close is a no-op; the sheets client holds no persistent connection.
func (s *SheetsStore) Close() error {
	return nil
}

// errSheetMisconfigured guards provider selection.
var errSheetMisconfigured = errors.New("sheets store requires sheet_id and credentials_file")

var _ Store = (*SheetsStore)(nil)
