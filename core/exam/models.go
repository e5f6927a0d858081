package exam

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type Exam struct {
	ID         int         `json:"id" db:"id"`
	Name       string      `json:"name" db:"name"`
	ExamType   null.String `json:"exam_type" db:"exam_type"`
	ClassID    int         `json:"class_id" db:"class_id"`
	SubjectID  int         `json:"subject_id" db:"subject_id"`
	ExamDate   string      `json:"exam_date" db:"exam_date"` // YYYY-MM-DD
	StartTime  string      `json:"start_time" db:"start_time"`
	EndTime    string      `json:"end_time" db:"end_time"`
	RoomID     null.Int    `json:"room_id" db:"room_id"`
	TotalMarks null.Int    `json:"total_marks" db:"total_marks"`
	CreatedBy  int         `json:"created_by" db:"created_by"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`

	// joined display columns
	ClassName    null.String `json:"class_name" db:"class_name"`
	SubjectName  null.String `json:"subject_name" db:"subject_name"`
	RoomNumber   null.String `json:"room_number" db:"room_number"`
	RoomCapacity null.Int    `json:"capacity" db:"capacity"`

	// Seat is the requesting student's allocation, when asked for.
	Seat *Seat `json:"seat,omitempty" db:"-"`
}

type Seat struct {
	ID         int         `json:"id" db:"id"`
	ExamID     int         `json:"exam_id" db:"exam_id"`
	StudentID  int         `json:"student_id" db:"student_id"`
	SeatNumber null.String `json:"seat_number" db:"seat_number"`
	RoomID     null.Int    `json:"room_id" db:"room_id"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type NewExam struct {
	Name       string `json:"name" validate:"required"`
	ExamType   string `json:"examType"`
	ClassID    int    `json:"classId" validate:"required"`
	SubjectID  int    `json:"subjectId" validate:"required"`
	ExamDate   string `json:"examDate" validate:"required,date_"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
	RoomID     int    `json:"roomId"`
	TotalMarks int    `json:"totalMarks"`
}

func (ne *NewExam) Validate() error {
	ne.Name = core.CleanString(ne.Name)
	return core.Validate.Struct(ne)
}

// Filter narrows the exam listing; StudentID additionally attaches that
// student's seat to each exam.
type Filter struct {
	ClassID   int `query:"classId"`
	StudentID int `query:"studentId"`
}

// HallTicket composes an exam, a student and their seat allocation.
type HallTicket struct {
	Exam    HallTicketExam    `json:"exam"`
	Student HallTicketStudent `json:"student"`
	Seat    HallTicketSeat    `json:"seat"`
}

type HallTicketExam struct {
	Name      string      `json:"name"`
	Type      null.String `json:"type"`
	Subject   null.String `json:"subject"`
	Date      string      `json:"date"`
	StartTime string      `json:"startTime"`
	EndTime   string      `json:"endTime"`
}

type HallTicketStudent struct {
	Name      string      `json:"name"`
	StudentID null.String `json:"studentId"`
	Class     null.String `json:"class"`
}

type HallTicketSeat struct {
	SeatNumber null.String `json:"seatNumber"`
	Room       null.String `json:"room"`
}
