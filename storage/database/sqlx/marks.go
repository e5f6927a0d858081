package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/marks"
)

type marksRepository struct {
	db *sqlx.DB
}

var _ marks.Repository = (*marksRepository)(nil) // interface compliance check

func NewMarksRepository(db *sqlx.DB) *marksRepository {
	return &marksRepository{db: db}
}

func (repo marksRepository) CreateMark(ctx context.Context, m marks.Mark) (marks.Mark, error) {
	query := repo.db.Rebind(`
INSERT INTO marks (student_id, class_id, subject, internal_marks, external_marks, uploaded_by)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(
		ctx, query,
		m.StudentID, m.ClassID, m.Subject, m.InternalMarks, m.ExternalMarks, m.UploadedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return marks.Mark{}, errors.Wrap(err, "creating mark")
	}
	return m, nil
}

func (repo marksRepository) BulkCreateMarks(ctx context.Context, uploads []marks.NewMark, uploadedBy int) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	classQuery := tx.Rebind(`SELECT class_id FROM users WHERE id = ?`)
	insertQuery := tx.Rebind(`
INSERT INTO marks (student_id, class_id, subject, internal_marks, external_marks, uploaded_by)
VALUES (?, ?, ?, ?, ?, ?)`)

	for _, up := range uploads {
		// each row lands in the student's own class; classless students are skipped
		var classID null.Int
		if err = tx.GetContext(ctx, &classID, classQuery, up.StudentID); err != nil {
			if errors.Cause(err) == sql.ErrNoRows {
				continue
			}
			return errors.Wrap(err, "resolving student class")
		}
		if !classID.Valid {
			continue
		}

		var internal, external null.Float64
		if up.Internal != 0 {
			internal = null.Float64From(up.Internal)
		}
		if up.External != 0 {
			external = null.Float64From(up.External)
		}
		_, err = tx.ExecContext(ctx, insertQuery, up.StudentID, classID.Int, up.Subject, internal, external, uploadedBy)
		if err != nil {
			return errors.Wrap(err, "creating mark")
		}
	}
	return errors.Wrap(tx.Commit(), "committing marks")
}

func (repo marksRepository) QueryByStudent(ctx context.Context, studentID int) ([]marks.Mark, error) {
	records := make([]marks.Mark, 0)
	query := repo.db.Rebind(`
SELECT m.*
FROM marks m
WHERE m.student_id = ?
ORDER BY m.subject, m.created_at DESC`)
	if err := repo.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student marks")
	}
	return records, nil
}

func (repo marksRepository) StudentInClass(ctx context.Context, studentID, classID int) (bool, error) {
	var count int
	query := repo.db.Rebind(`SELECT COUNT(*) FROM users WHERE id = ? AND class_id = ?`)
	if err := repo.db.GetContext(ctx, &count, query, studentID, classID); err != nil {
		return false, errors.Wrap(err, "checking student class")
	}
	return count > 0, nil
}
