package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/declaradash/declaradash/internal/domain"
	"github.com/declaradash/declaradash/internal/pkg/constants"
)

var reportColumns = []string{"id", "subject_name", "institution", "reason", "created_at", "user_id", "user_email", "upvotes"}

// reportTimeLayout is fixed-width so lexicographic ORDER BY matches
// chronological order.
const reportTimeLayout = "2006-01-02 15:04:05.000000000"

// EnsureReportsTable declares the session-scoped reports table. Idempotent:
// safe to run on every session start.
func (s *store) EnsureReportsTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	subject_name TEXT NOT NULL,
	institution TEXT NOT NULL,
	reason TEXT NOT NULL,
	created_at TEXT NOT NULL,
	user_id TEXT NOT NULL,
	user_email TEXT NOT NULL,
	upvotes INTEGER NOT NULL DEFAULT 0
)`, tableReports)

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reports table: %w", err)
	}

	return nil
}

func (s *store) InsertReport(ctx context.Context, report *domain.CitizenReport) error {
	query := builder().Insert(tableReports).
		Columns(reportColumns...).
		Values(
			report.ID,
			report.SubjectName,
			report.Institution,
			report.Reason,
			report.CreatedAt.UTC().Format(reportTimeLayout),
			report.UserID,
			report.UserEmail,
			report.Upvotes,
		)

	if _, err := s.db.execx(ctx, query); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// ReplayReport mirrors a durable-log report into the engine table, skipping
// ids the table already holds so replay never duplicates rows. Reports
// whether a row was actually written.
func (s *store) ReplayReport(ctx context.Context, report *domain.CitizenReport) (bool, error) {
	query := builder().Insert(tableReports).
		Columns(reportColumns...).
		Values(
			report.ID,
			report.SubjectName,
			report.Institution,
			report.Reason,
			report.CreatedAt.UTC().Format(reportTimeLayout),
			report.UserID,
			report.UserEmail,
			report.Upvotes,
		).
		Suffix("ON CONFLICT (id) DO NOTHING")

	res, err := s.db.execx(ctx, query)
	if err != nil {
		return false, fmt.Errorf("replay report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	return affected > 0, nil
}

func (s *store) ListReports(ctx context.Context) ([]*domain.CitizenReport, error) {
	query := builder().Select(reportColumns...).
		From(tableReports).
		OrderBy("upvotes DESC", "created_at DESC")

	rows, err := s.db.queryx(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	var selected []*domain.CitizenReport
	for rows.Next() {
		var (
			report    domain.CitizenReport
			createdAt string
		)
		err := rows.Scan(
			&report.ID,
			&report.SubjectName,
			&report.Institution,
			&report.Reason,
			&createdAt,
			&report.UserID,
			&report.UserEmail,
			&report.Upvotes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		report.CreatedAt, err = time.Parse(reportTimeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse report created_at: %w", err)
		}
		selected = append(selected, &report)
	}

	return selected, rows.Err()
}

func (s *store) UpvoteReport(ctx context.Context, id string) error {
	query := builder().Update(tableReports).
		Set("upvotes", sq.Expr("upvotes + 1")).
		Where(sq.Eq{"id": id})

	res, err := s.db.execx(ctx, query)
	if err != nil {
		return fmt.Errorf("upvote report: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return constants.ErrDBNotFound
	}

	return nil
}

func (s *store) CountReports(ctx context.Context) (int64, error) {
	query := builder().Select("COUNT(*)").From(tableReports)

	row, err := s.db.queryRowx(ctx, query)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, wrapErr(err)
	}

	return total, nil
}
