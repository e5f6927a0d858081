package exam

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

type fakeRepository struct {
	Repository

	createExamFunc  func(ctx context.Context, e Exam) (Exam, error)
	createSeatsFunc func(ctx context.Context, seats []Seat) error
	filterExamsFunc func(ctx context.Context, classID int) ([]Exam, error)
	getExamFunc     func(ctx context.Context, id int) (Exam, error)
	getSeatFunc     func(ctx context.Context, examID, studentID int) (Seat, error)
}

func (f fakeRepository) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	return f.createExamFunc(ctx, e)
}
func (f fakeRepository) CreateSeats(ctx context.Context, seats []Seat) error {
	return f.createSeatsFunc(ctx, seats)
}
func (f fakeRepository) FilterExams(ctx context.Context, classID int) ([]Exam, error) {
	return f.filterExamsFunc(ctx, classID)
}
func (f fakeRepository) GetExamByID(ctx context.Context, id int) (Exam, error) {
	return f.getExamFunc(ctx, id)
}
func (f fakeRepository) GetSeat(ctx context.Context, examID, studentID int) (Seat, error) {
	return f.getSeatFunc(ctx, examID, studentID)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	var created Exam
	var seats []Seat
	svc := NewService(fakeRepository{
		createExamFunc: func(ctx context.Context, e Exam) (Exam, error) {
			created = e
			created.ID = 42
			return created, nil
		},
		createSeatsFunc: func(ctx context.Context, ss []Seat) error {
			seats = ss
			return nil
		},
	})

	e, err := svc.Create(ctx, NewExam{
		Name:      "Midterm",
		ExamType:  "midterm",
		ClassID:   1,
		SubjectID: 2,
		ExamDate:  "2026-09-15",
		StartTime: "09:00",
		EndTime:   "11:00",
		RoomID:    5,
	}, 9, []int{31, 7, 12})
	require.NoError(t, err)
	assert.Equal(t, 42, e.ID)
	assert.Equal(t, 9, created.CreatedBy)
	assert.Equal(t, "midterm", created.ExamType.String)
	assert.Equal(t, 5, created.RoomID.Int)
	assert.False(t, created.TotalMarks.Valid)

	// seats follow roster order, not sorted ids
	require.Len(t, seats, 3)
	for i, want := range []struct {
		studentID int
		seat      string
	}{{31, "S001"}, {7, "S002"}, {12, "S003"}} {
		assert.Equal(t, 42, seats[i].ExamID)
		assert.Equal(t, want.studentID, seats[i].StudentID)
		assert.Equal(t, want.seat, seats[i].SeatNumber.String)
		assert.Equal(t, 5, seats[i].RoomID.Int)
	}
}

func TestService_Create_withoutRoom(t *testing.T) {
	ctx := context.Background()

	var seats []Seat
	svc := NewService(fakeRepository{
		createExamFunc: func(ctx context.Context, e Exam) (Exam, error) {
			e.ID = 1
			return e, nil
		},
		createSeatsFunc: func(ctx context.Context, ss []Seat) error {
			seats = ss
			return nil
		},
	})

	_, err := svc.Create(ctx, NewExam{Name: "Quiz", ClassID: 1, SubjectID: 2, ExamDate: "2026-09-15"}, 9, []int{3})
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.False(t, seats[0].RoomID.Valid)
}

func TestService_Filter(t *testing.T) {
	ctx := context.Background()

	exams := []Exam{{ID: 1, Name: "Midterm"}, {ID: 2, Name: "Final"}}
	svc := NewService(fakeRepository{
		filterExamsFunc: func(ctx context.Context, classID int) ([]Exam, error) {
			return exams, nil
		},
		getSeatFunc: func(ctx context.Context, examID, studentID int) (Seat, error) {
			if examID == 1 {
				return Seat{ExamID: 1, StudentID: studentID, SeatNumber: null.StringFrom("S007")}, nil
			}
			return Seat{}, ErrSeatNotFound
		},
	})

	t.Run("without student", func(t *testing.T) {
		got, err := svc.Filter(ctx, Filter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Nil(t, got[0].Seat)
		assert.Nil(t, got[1].Seat)
	})

	t.Run("with student", func(t *testing.T) {
		got, err := svc.Filter(ctx, Filter{StudentID: 3})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NotNil(t, got[0].Seat)
		assert.Equal(t, "S007", got[0].Seat.SeatNumber.String)
		assert.Nil(t, got[1].Seat) // no allocation for the final
	})
}

func TestService_HallTicket(t *testing.T) {
	ctx := context.Background()

	e := Exam{
		ID:          1,
		Name:        "Final",
		ExamDate:    "2026-12-01",
		StartTime:   "09:00",
		EndTime:     "12:00",
		SubjectName: null.StringFrom("Math"),
		ClassName:   null.StringFrom("Grade 5 - A"),
		RoomNumber:  null.StringFrom("R101"),
	}
	student := HallTicketStudentInfo{Name: "Amy", StudentID: null.StringFrom("STU001")}

	svc := NewService(fakeRepository{
		getExamFunc: func(ctx context.Context, id int) (Exam, error) {
			if id != e.ID {
				return Exam{}, errors.New("exam not found")
			}
			return e, nil
		},
		getSeatFunc: func(ctx context.Context, examID, studentID int) (Seat, error) {
			if studentID != 3 {
				return Seat{}, ErrSeatNotFound
			}
			return Seat{ExamID: examID, StudentID: studentID, SeatNumber: null.StringFrom("S001")}, nil
		},
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, err := svc.HallTicket(ctx, 999, student, 3)
		assert.Equal(t, ErrHallTicketNotFound, err)
	})

	t.Run("no seat", func(t *testing.T) {
		_, err := svc.HallTicket(ctx, 1, student, 4)
		assert.Equal(t, ErrHallTicketNotFound, err)
	})

	t.Run("ok", func(t *testing.T) {
		ht, err := svc.HallTicket(ctx, 1, student, 3)
		require.NoError(t, err)
		assert.Equal(t, "Final", ht.Exam.Name)
		assert.Equal(t, "Math", ht.Exam.Subject.String)
		assert.Equal(t, "2026-12-01", ht.Exam.Date)
		assert.Equal(t, "Amy", ht.Student.Name)
		assert.Equal(t, "STU001", ht.Student.StudentID.String)
		assert.Equal(t, "Grade 5 - A", ht.Student.Class.String)
		assert.Equal(t, "S001", ht.Seat.SeatNumber.String)
		assert.Equal(t, "R101", ht.Seat.Room.String)
	})
}
