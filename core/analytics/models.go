package analytics

import "github.com/volatiletech/null/v8"

// Trends
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// trendBand is the percentage-point band around the previous week within
// which attendance counts as stable.
const trendBand = 5

type AttendanceStats struct {
	TotalDays            int     `json:"totalDays"`
	PresentDays          int     `json:"presentDays"`
	AbsentDays           int     `json:"absentDays"`
	AttendancePercentage float64 `json:"attendancePercentage"`
	Trend                string  `json:"trend,omitempty"`
}

type ClassPerformance struct {
	ClassID           int     `json:"classId"`
	ClassName         string  `json:"className"`
	AverageAttendance float64 `json:"averageAttendance"`
	TotalStudents     int     `json:"totalStudents"`
	AverageMarks      float64 `json:"averageMarks"`
}

type AtRiskStudent struct {
	ID                   int          `json:"id" db:"id"`
	Name                 string       `json:"name" db:"name"`
	StudentID            null.String  `json:"student_id" db:"student_id"`
	TotalDays            int          `json:"totalDays" db:"total_days"`
	PresentDays          null.Int     `json:"presentDays" db:"present_days"`
	AttendancePercentage null.Float64 `json:"attendancePercentage" db:"attendance_pct"`
}

type TrendPoint struct {
	Date                 string  `json:"date" db:"date"`
	TotalStudents        int     `json:"totalStudents" db:"total_students"`
	PresentCount         int     `json:"presentCount" db:"present_count"`
	AttendancePercentage float64 `json:"attendancePercentage" db:"attendance_pct"`
}

type GradeBucket struct {
	Grade string `json:"grade" db:"grade"`
	Count int    `json:"count" db:"count"`
}

type ClassComparison struct {
	ID                int          `json:"id" db:"id"`
	ClassName         string       `json:"className" db:"class_name"`
	TotalDays         int          `json:"totalDays" db:"total_days"`
	AverageAttendance null.Float64 `json:"avgAttendance" db:"avg_attendance"`
	AverageMarks      null.Float64 `json:"avgMarks" db:"avg_marks"`
}

type StudentPerformance struct {
	ID                   int         `json:"id" db:"id"`
	Name                 string      `json:"name" db:"name"`
	StudentID            null.String `json:"student_id" db:"student_id"`
	TotalDays            int         `json:"totalDays" db:"total_days"`
	PresentDays          null.Int    `json:"presentDays" db:"present_days"`
	AttendancePercentage float64     `json:"attendancePercentage" db:"attendance_pct"`
	AverageMarks         float64     `json:"avgMarks" db:"avg_marks"`
	SubjectsCount        int         `json:"subjectsCount,omitempty" db:"subjects_count"`
}

type ClassRef struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type TeacherPerformance struct {
	TeacherID          int                  `json:"teacherId"`
	Classes            []ClassRef           `json:"classes"`
	TotalStudents      int                  `json:"totalStudents"`
	AverageAttendance  float64              `json:"averageAttendance"`
	AverageMarks       float64              `json:"averageMarks"`
	StudentPerformance []StudentPerformance `json:"studentPerformance"`
}

type TeacherSummary struct {
	TeacherID         int         `json:"teacherId"`
	TeacherName       string      `json:"teacherName"`
	EmployeeID        null.String `json:"employeeId"`
	Classes           []ClassRef  `json:"classes"`
	TotalStudents     int         `json:"totalStudents"`
	AverageAttendance float64     `json:"averageAttendance"`
	AverageMarks      float64     `json:"averageMarks"`
}

type ClassStats struct {
	TotalStudents     int     `json:"totalStudents"`
	AverageAttendance float64 `json:"averageAttendance"`
	AverageMarks      float64 `json:"averageMarks"`
	SubjectsCount     int     `json:"subjectsCount"`
}
