package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/prodnet/internal/ir"
)

// Record is one stored report.
type Record struct {
	ID            string
	Seq           int64
	Plan          string
	PlanHash      string
	NodeCount     int
	Body          []byte // canonical JSON
	EngineVersion string
	ReportVersion string
}

// NewRecord builds a record for a rendered report body.
// The id is derived from the plan name and body; Seq is assigned on append.
func NewRecord(plan, planHash string, nodeCount int, body []byte) Record {
	return Record{
		ID:            ir.ReportID(plan, body),
		Plan:          plan,
		PlanHash:      planHash,
		NodeCount:     nodeCount,
		Body:          body,
		EngineVersion: ir.EngineVersion,
		ReportVersion: ir.ReportVersion,
	}
}

// WriteReport inserts a report record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// A different id reusing an existing seq is a constraint violation.
func (s *Store) WriteReport(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("write report: id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports
		(id, seq, plan, plan_hash, node_count, body, engine_version, report_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.Plan,
		rec.PlanHash,
		rec.NodeCount,
		string(rec.Body),
		rec.EngineVersion,
		rec.ReportVersion,
	)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// NextSeq returns the seq the next appended report will receive.
func (s *Store) NextSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM reports`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

// Append assigns the next seq to rec and writes it.
//
// If a report with the same id already exists the stored record is returned
// unchanged and created is false.
func (s *Store) Append(ctx context.Context, rec Record) (stored Record, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("append report: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	existing, err := scanRecord(tx.QueryRowContext(ctx, selectReport+` WHERE id = ?`, rec.ID))
	switch {
	case err == nil:
		if err = tx.Commit(); err != nil {
			return Record{}, false, fmt.Errorf("append report: %w", err)
		}
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Record{}, false, fmt.Errorf("append report: %w", err)
	}

	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM reports`).Scan(&rec.Seq); err != nil {
		return Record{}, false, fmt.Errorf("append report: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO reports
		(id, seq, plan, plan_hash, node_count, body, engine_version, report_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.Seq, rec.Plan, rec.PlanHash, rec.NodeCount,
		string(rec.Body), rec.EngineVersion, rec.ReportVersion,
	); err != nil {
		return Record{}, false, fmt.Errorf("append report: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("append report: %w", err)
	}
	return rec, true, nil
}
