package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrOutsideEditWindow rejects teacher markings older than the edit window.
var ErrOutsideEditWindow = errors.New("You can only mark attendance for the last 3 days")

type (
	Repository interface {
		// UpsertRecords writes all records in one transaction; a record for an
		// already-marked (student, date) replaces the previous row entirely,
		// class and marker included.
		UpsertRecords(ctx context.Context, records []Record) error
		QueryByClassDate(ctx context.Context, classID int, date string, withStudentName bool) ([]Record, error)
		QueryByStudent(ctx context.Context, studentID int) ([]Record, error)
	}

	Service struct {
		repo Repository

		// nowFn is swapped in tests.
		nowFn func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFn: time.Now}
}

// Mark writes a batch of attendance records for one class and date.
// enforceWindow applies the teacher edit window; admins pass false.
func (svc *Service) Mark(ctx context.Context, bm BatchMark, classID, markedBy int, enforceWindow bool) error {
	if enforceWindow && !WithinEditWindow(bm.Date, svc.nowFn()) {
		return ErrOutsideEditWindow
	}

	records := make([]Record, 0, len(bm.Attendance))
	for _, entry := range bm.Attendance {
		records = append(records, Record{
			StudentID: entry.StudentID,
			ClassID:   classID,
			Date:      bm.Date,
			Status:    entry.Status,
			MarkedBy:  markedBy,
		})
	}
	return svc.repo.UpsertRecords(ctx, records)
}

// ClassDay lists a class's records for one date. withStudentName joins the
// student's name and orders by it; otherwise rows come back by student id.
func (svc *Service) ClassDay(ctx context.Context, classID int, date string, withStudentName bool) ([]Record, error) {
	return svc.repo.QueryByClassDate(ctx, classID, date, withStudentName)
}

// StudentHistory lists a student's full attendance, newest first.
func (svc *Service) StudentHistory(ctx context.Context, studentID int) ([]Record, error) {
	return svc.repo.QueryByStudent(ctx, studentID)
}
