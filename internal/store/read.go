package store

import (
	"context"
	"fmt"
)

const selectReport = `
	SELECT id, seq, plan, plan_hash, node_count, body, engine_version, report_version
	FROM reports`

// ReadReport retrieves a single report by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadReport(ctx context.Context, id string) (Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx, selectReport+` WHERE id = ?`, id))
}

// ListReports returns every report for plan, or all reports when plan is
// empty. Ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListReports(ctx context.Context, plan string) ([]Record, error) {
	query := selectReport + ` WHERE (? = '' OR plan = ?) ORDER BY seq ASC, id COLLATE BINARY ASC`
	rows, err := s.db.QueryContext(ctx, query, plan, plan)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return records, nil
}

// Latest returns the most recent report for plan.
// Returns sql.ErrNoRows if the plan has none.
func (s *Store) Latest(ctx context.Context, plan string) (Record, error) {
	return scanRecord(s.db.QueryRowContext(ctx,
		selectReport+` WHERE plan = ? ORDER BY seq DESC LIMIT 1`, plan))
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord returns scan errors unwrapped so callers can match
// sql.ErrNoRows directly.
func scanRecord(row rowScanner) (Record, error) {
	var (
		rec  Record
		body string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Seq,
		&rec.Plan,
		&rec.PlanHash,
		&rec.NodeCount,
		&body,
		&rec.EngineVersion,
		&rec.ReportVersion,
	); err != nil {
		return Record{}, err
	}
	rec.Body = []byte(body)
	return rec, nil
}
