package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/exam"
)

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) *examRepository {
	return &examRepository{db: db}
}

func (repo examRepository) CreateExam(ctx context.Context, e exam.Exam) (exam.Exam, error) {
	query := repo.db.Rebind(`
INSERT INTO exams (name, exam_type, class_id, subject_id, exam_date, start_time, end_time, room_id, total_marks, created_by)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, created_at`)
	err := repo.db.QueryRowxContext(
		ctx, query,
		e.Name, e.ExamType, e.ClassID, e.SubjectID, e.ExamDate,
		e.StartTime, e.EndTime, e.RoomID, e.TotalMarks, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "creating exam")
	}
	return e, nil
}

func (repo examRepository) CreateSeats(ctx context.Context, seats []exam.Seat) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`
INSERT INTO exam_seats (exam_id, student_id, seat_number, room_id)
VALUES (?, ?, ?, ?)`)

	for _, seat := range seats {
		_, err = tx.ExecContext(ctx, query, seat.ExamID, seat.StudentID, seat.SeatNumber, seat.RoomID)
		if err != nil {
			return errors.Wrap(err, "creating exam seat")
		}
	}
	return errors.Wrap(tx.Commit(), "committing exam seats")
}

const examSelect = `
SELECT e.*,
       c.class_name || ' - ' || c.section AS class_name,
       s.name AS subject_name,
       r.room_number,
       r.capacity
FROM exams e
JOIN classes c ON e.class_id = c.id
JOIN subjects s ON e.subject_id = s.id
LEFT JOIN rooms r ON e.room_id = r.id`

func (repo examRepository) FilterExams(ctx context.Context, classID int) ([]exam.Exam, error) {
	query := examSelect + ` WHERE 1=1`
	args := make([]interface{}, 0, 1)
	if classID > 0 {
		query += ` AND e.class_id = ?`
		args = append(args, classID)
	}
	query += ` ORDER BY e.exam_date, e.start_time`

	exams := make([]exam.Exam, 0)
	if err := repo.db.SelectContext(ctx, &exams, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}
	return exams, nil
}

func (repo examRepository) GetExamByID(ctx context.Context, id int) (exam.Exam, error) {
	var e exam.Exam
	query := repo.db.Rebind(examSelect + ` WHERE e.id = ?`)
	if err := repo.db.GetContext(ctx, &e, query, id); err != nil {
		return exam.Exam{}, trapNoRowsErr(err, exam.ErrHallTicketNotFound)
	}
	return e, nil
}

func (repo examRepository) GetSeat(ctx context.Context, examID, studentID int) (exam.Seat, error) {
	var seat exam.Seat
	query := repo.db.Rebind(`SELECT * FROM exam_seats WHERE exam_id = ? AND student_id = ?`)
	if err := repo.db.GetContext(ctx, &seat, query, examID, studentID); err != nil {
		return exam.Seat{}, trapNoRowsErr(err, exam.ErrSeatNotFound)
	}
	return seat, nil
}
