package marks

import (
	"context"

	"github.com/pkg/errors"
)

// ErrStudentNotInClass rejects single uploads for students outside the
// teacher's class.
var ErrStudentNotInClass = errors.New("Student not found in your class")

type (
	Repository interface {
		CreateMark(ctx context.Context, m Mark) (Mark, error)
		// BulkCreateMarks inserts all marks in one transaction, resolving each
		// student's own class as it goes; students without a class are
		// silently skipped.
		BulkCreateMarks(ctx context.Context, uploads []NewMark, uploadedBy int) error
		QueryByStudent(ctx context.Context, studentID int) ([]Mark, error)
		// StudentInClass reports whether the student belongs to the class.
		StudentInClass(ctx context.Context, studentID, classID int) (bool, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upload records one mark row for a student of the teacher's class.
func (svc *Service) Upload(ctx context.Context, nm NewMark, classID, uploadedBy int) (Mark, error) {
	ok, err := svc.repo.StudentInClass(ctx, nm.StudentID, classID)
	if err != nil {
		return Mark{}, err
	}
	if !ok {
		return Mark{}, ErrStudentNotInClass
	}
	return svc.repo.CreateMark(ctx, nm.record(classID, uploadedBy))
}

// BulkUpload records many marks at once. Each row lands in the student's own
// class; DistinctStudentIDs of the batch feed the notification fan-out.
func (svc *Service) BulkUpload(ctx context.Context, uploads []NewMark, uploadedBy int) error {
	return svc.repo.BulkCreateMarks(ctx, uploads, uploadedBy)
}

// StudentHistory lists a student's marks grouped by subject, newest first
// within a subject.
func (svc *Service) StudentHistory(ctx context.Context, studentID int) ([]Mark, error) {
	return svc.repo.QueryByStudent(ctx, studentID)
}

// DistinctStudentIDs returns the unique student ids of a batch, in first-seen
// order.
func DistinctStudentIDs(uploads []NewMark) []int {
	seen := make(map[int]struct{}, len(uploads))
	ids := make([]int, 0, len(uploads))
	for _, u := range uploads {
		if _, ok := seen[u.StudentID]; ok {
			continue
		}
		seen[u.StudentID] = struct{}{}
		ids = append(ids, u.StudentID)
	}
	return ids
}
