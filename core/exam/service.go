package exam

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// ErrHallTicketNotFound covers a missing exam, student or seat allocation.
var ErrHallTicketNotFound = errors.New("Exam or seat not found")

type (
	Repository interface {
		CreateExam(ctx context.Context, e Exam) (Exam, error)
		// CreateSeats inserts all seats in one transaction.
		CreateSeats(ctx context.Context, seats []Seat) error
		FilterExams(ctx context.Context, classID int) ([]Exam, error)
		GetExamByID(ctx context.Context, id int) (Exam, error)
		GetSeat(ctx context.Context, examID, studentID int) (Seat, error)
	}

	Service struct {
		repo Repository
	}
)

var ErrSeatNotFound = errors.New("seat not found")

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create inserts the exam, then allocates one seat per student of the class
// in roster order: S001, S002, ... The roster is the class's students ordered
// by id. Seat capacity of the room is not enforced.
func (svc *Service) Create(ctx context.Context, ne NewExam, createdBy int, roster []int) (Exam, error) {
	e := Exam{
		Name:      ne.Name,
		ClassID:   ne.ClassID,
		SubjectID: ne.SubjectID,
		ExamDate:  ne.ExamDate,
		StartTime: ne.StartTime,
		EndTime:   ne.EndTime,
		CreatedBy: createdBy,
	}
	if ne.ExamType != "" {
		e.ExamType = null.StringFrom(ne.ExamType)
	}
	if ne.RoomID > 0 {
		e.RoomID = null.IntFrom(ne.RoomID)
	}
	if ne.TotalMarks > 0 {
		e.TotalMarks = null.IntFrom(ne.TotalMarks)
	}

	e, err := svc.repo.CreateExam(ctx, e)
	if err != nil {
		return Exam{}, err
	}

	seats := make([]Seat, 0, len(roster))
	for i, studentID := range roster {
		seat := Seat{
			ExamID:     e.ID,
			StudentID:  studentID,
			SeatNumber: null.StringFrom(fmt.Sprintf("S%03d", i+1)),
		}
		if ne.RoomID > 0 {
			seat.RoomID = null.IntFrom(ne.RoomID)
		}
		seats = append(seats, seat)
	}
	if err := svc.repo.CreateSeats(ctx, seats); err != nil {
		return Exam{}, err
	}
	return e, nil
}

// Filter lists exams, optionally restricted to a class. When f.StudentID is
// set, each exam carries that student's seat (nil when unallocated).
func (svc *Service) Filter(ctx context.Context, f Filter) ([]Exam, error) {
	exams, err := svc.repo.FilterExams(ctx, f.ClassID)
	if err != nil {
		return nil, err
	}
	if f.StudentID > 0 {
		for i := range exams {
			seat, err := svc.repo.GetSeat(ctx, exams[i].ID, f.StudentID)
			if err != nil {
				if errors.Cause(err) == ErrSeatNotFound {
					continue
				}
				return nil, err
			}
			exams[i].Seat = &seat
		}
	}
	return exams, nil
}

// HallTicket composes the printable hall ticket for one student and exam.
type HallTicketStudentInfo struct {
	Name      string
	StudentID null.String
}

func (svc *Service) HallTicket(ctx context.Context, examID int, student HallTicketStudentInfo, studentID int) (HallTicket, error) {
	e, err := svc.repo.GetExamByID(ctx, examID)
	if err != nil {
		return HallTicket{}, ErrHallTicketNotFound
	}
	seat, err := svc.repo.GetSeat(ctx, examID, studentID)
	if err != nil {
		return HallTicket{}, ErrHallTicketNotFound
	}
	return HallTicket{
		Exam: HallTicketExam{
			Name:      e.Name,
			Type:      e.ExamType,
			Subject:   e.SubjectName,
			Date:      e.ExamDate,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		},
		Student: HallTicketStudent{
			Name:      student.Name,
			StudentID: student.StudentID,
			Class:     e.ClassName,
		},
		Seat: HallTicketSeat{
			SeatNumber: seat.SeatNumber,
			Room:       e.RoomNumber,
		},
	}, nil
}
