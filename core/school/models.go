package school

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type Class struct {
	ID        int         `json:"id" db:"id"`
	ClassName string      `json:"class_name" db:"class_name"`
	Section   string      `json:"section" db:"section"`
	TeacherID null.Int    `json:"teacher_id" db:"teacher_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	// joined teacher columns (admin listing)
	TeacherName       null.String `json:"teacher_name" db:"teacher_name"`
	TeacherEmployeeID null.String `json:"teacher_employee_id" db:"teacher_employee_id"`
}

// Label renders the display name used across listings and exports.
func (c Class) Label() string {
	return c.ClassName + " - " + c.Section
}

type Subject struct {
	ID        int         `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Code      null.String `json:"code" db:"code"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

type NewSubject struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	return core.Validate.Struct(ns)
}

type Room struct {
	ID         int         `json:"id" db:"id"`
	RoomNumber string      `json:"room_number" db:"room_number"`
	RoomType   null.String `json:"room_type" db:"room_type"`
	Capacity   null.Int    `json:"capacity" db:"capacity"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

type NewRoom struct {
	RoomNumber string `json:"roomNumber" validate:"required"`
	RoomType   string `json:"roomType"`
	Capacity   int    `json:"capacity"`
}

func (nr *NewRoom) Validate() error {
	nr.RoomNumber = core.CleanString(nr.RoomNumber)
	return core.Validate.Struct(nr)
}

type Timetable struct {
	ID        int       `json:"id" db:"id"`
	ClassID   int       `json:"class_id" db:"class_id"`
	SubjectID int       `json:"subject_id" db:"subject_id"`
	TeacherID int       `json:"teacher_id" db:"teacher_id"`
	RoomID    null.Int  `json:"room_id" db:"room_id"`
	DayOfWeek int       `json:"day_of_week" db:"day_of_week"` // 0 - 6
	StartTime string    `json:"start_time" db:"start_time"`   // HH:MM
	EndTime   string    `json:"end_time" db:"end_time"`       // HH:MM
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// joined display columns
	ClassName   null.String `json:"class_name" db:"class_name"`
	SubjectName null.String `json:"subject_name" db:"subject_name"`
	TeacherName null.String `json:"teacher_name" db:"teacher_name"`
	RoomNumber  null.String `json:"room_number" db:"room_number"`
}

type NewTimetable struct {
	ClassID   int    `json:"classId" validate:"required"`
	SubjectID int    `json:"subjectId" validate:"required"`
	TeacherID int    `json:"teacherId" validate:"required"`
	RoomID    int    `json:"roomId"`
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

func (nt *NewTimetable) Validate() error { return core.Validate.Struct(nt) }

// TimetableFilter narrows the timetable listing.
type TimetableFilter struct {
	ClassID   int `query:"classId"`
	TeacherID int `query:"teacherId"`
}
