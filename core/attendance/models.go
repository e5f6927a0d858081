package attendance

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

type Record struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	ClassID   int       `json:"class_id" db:"class_id"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD
	Status    string    `json:"status" db:"status"`
	MarkedBy  int       `json:"marked_by" db:"marked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// joined student name (teacher's day view)
	StudentName null.String `json:"student_name,omitempty" db:"student_name"`
}

// Entry is one student's status within a batch marking request.
type Entry struct {
	StudentID int    `json:"studentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent"`
}

// BatchMark marks a whole class for one date.
type BatchMark struct {
	Date       string  `json:"date" validate:"required,date_"`
	ClassID    int     `json:"classId"`
	Attendance []Entry `json:"attendance" validate:"required,min=1,dive"`
}

func (bm *BatchMark) Validate() error { return core.Validate.Struct(bm) }

// EditWindowDays is how far back (in calendar days) teachers may mark.
const EditWindowDays = 3

// WithinEditWindow reports whether date falls in [today-3d, today],
// comparing calendar days. Future dates are out.
func WithinEditWindow(date string, now time.Time) bool {
	d, err := core.ParseDate(date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	diff := int(today.Sub(d).Hours() / 24)
	return diff >= 0 && diff <= EditWindowDays
}
