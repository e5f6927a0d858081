package export

import "github.com/volatiletech/null/v8"

// AttendanceRow is one exported attendance record.
type AttendanceRow struct {
	StudentName string      `db:"student_name"`
	StudentID   null.String `db:"student_id"`
	Date        string      `db:"date"`
	Status      string      `db:"status"`
	ClassName   string      `db:"class_name"`
}

// MarksRow is one exported mark record.
type MarksRow struct {
	StudentName   string       `db:"student_name"`
	StudentID     null.String  `db:"student_id"`
	Subject       string       `db:"subject"`
	InternalMarks null.Float64 `db:"internal_marks"`
	ExternalMarks null.Float64 `db:"external_marks"`
	TotalMarks    null.Float64 `db:"total_marks"`
	ClassName     string       `db:"class_name"`
}

// AttendanceFilter narrows the attendance export.
type AttendanceFilter struct {
	ClassID   int
	StartDate string
	EndDate   string
}

// MarksFilter narrows the marks export.
type MarksFilter struct {
	ClassID int
	Subject string
}
