package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/export"
)

type exportRepository struct {
	db *sqlx.DB
}

var _ export.Repository = (*exportRepository)(nil) // interface compliance check

func NewExportRepository(db *sqlx.DB) *exportRepository {
	return &exportRepository{db: db}
}

func (repo exportRepository) QueryAttendanceRows(ctx context.Context, filter export.AttendanceFilter) ([]export.AttendanceRow, error) {
	query := `
SELECT u.name AS student_name,
       u.student_id,
       a.date,
       a.status,
       c.class_name || ' - ' || c.section AS class_name
FROM attendance a
JOIN users u ON a.student_id = u.id
JOIN classes c ON a.class_id = c.id
WHERE 1=1`
	args := make([]interface{}, 0, 3)

	if filter.ClassID > 0 {
		query += ` AND a.class_id = ?`
		args = append(args, filter.ClassID)
	}
	if filter.StartDate != "" {
		query += ` AND a.date >= ?`
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += ` AND a.date <= ?`
		args = append(args, filter.EndDate)
	}
	query += ` ORDER BY a.date DESC, u.name`

	rows := make([]export.AttendanceRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying attendance export")
	}
	return rows, nil
}

func (repo exportRepository) QueryMarksRows(ctx context.Context, filter export.MarksFilter) ([]export.MarksRow, error) {
	query := `
SELECT u.name AS student_name,
       u.student_id,
       m.subject,
       m.internal_marks,
       m.external_marks,
       (m.internal_marks + m.external_marks) AS total_marks,
       c.class_name || ' - ' || c.section AS class_name
FROM marks m
JOIN users u ON m.student_id = u.id
JOIN classes c ON m.class_id = c.id
WHERE 1=1`
	args := make([]interface{}, 0, 2)

	if filter.ClassID > 0 {
		query += ` AND m.class_id = ?`
		args = append(args, filter.ClassID)
	}
	if filter.Subject != "" {
		query += ` AND m.subject = ?`
		args = append(args, filter.Subject)
	}
	query += ` ORDER BY u.name, m.subject`

	rows := make([]export.MarksRow, 0)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying marks export")
	}
	return rows, nil
}
