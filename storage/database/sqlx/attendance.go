package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo attendanceRepository) UpsertRecords(ctx context.Context, records []attendance.Record) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// a re-mark replaces the previous row entirely, class and marker included
	query := tx.Rebind(`
INSERT INTO attendance (student_id, class_id, date, status, marked_by)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (student_id, date) DO UPDATE SET
    class_id = excluded.class_id,
    status = excluded.status,
    marked_by = excluded.marked_by`)

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, query, rec.StudentID, rec.ClassID, rec.Date, rec.Status, rec.MarkedBy)
		if err != nil {
			return errors.Wrap(err, "upserting attendance")
		}
	}
	return errors.Wrap(tx.Commit(), "committing attendance")
}

func (repo attendanceRepository) QueryByClassDate(ctx context.Context, classID int, date string, withStudentName bool) ([]attendance.Record, error) {
	query := `
SELECT a.*
FROM attendance a
WHERE a.date = ? AND a.class_id = ?
ORDER BY a.student_id`
	if withStudentName {
		query = `
SELECT a.*, u.name AS student_name
FROM attendance a
JOIN users u ON a.student_id = u.id
WHERE a.date = ? AND a.class_id = ?
ORDER BY u.name`
	}

	records := make([]attendance.Record, 0)
	if err := repo.db.SelectContext(ctx, &records, repo.db.Rebind(query), date, classID); err != nil {
		return nil, errors.Wrap(err, "querying class attendance")
	}
	return records, nil
}

func (repo attendanceRepository) QueryByStudent(ctx context.Context, studentID int) ([]attendance.Record, error) {
	records := make([]attendance.Record, 0)
	query := repo.db.Rebind(`
SELECT a.*
FROM attendance a
WHERE a.student_id = ?
ORDER BY a.date DESC`)
	if err := repo.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student attendance")
	}
	return records, nil
}
