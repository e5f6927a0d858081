package export

import "context"

var (
	attendanceHeaders = []string{"Student Name", "Student ID", "Date", "Status", "Class"}
	marksHeaders      = []string{"Student Name", "Student ID", "Subject", "Internal Marks", "External Marks", "Total Marks", "Class"}
)

type (
	Repository interface {
		// QueryAttendanceRows lists attendance joined with student and class,
		// newest date first then student name.
		QueryAttendanceRows(ctx context.Context, filter AttendanceFilter) ([]AttendanceRow, error)
		// QueryMarksRows lists marks joined with student and class, by
		// student name then subject.
		QueryMarksRows(ctx context.Context, filter MarksFilter) ([]MarksRow, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) AttendanceCSV(ctx context.Context, filter AttendanceFilter) (string, error) {
	records, err := svc.repo.QueryAttendanceRows(ctx, filter)
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.StudentName, nullStr(r.StudentID), r.Date, r.Status, r.ClassName})
	}
	return RenderCSV(attendanceHeaders, rows), nil
}

func (svc *Service) MarksCSV(ctx context.Context, filter MarksFilter) (string, error) {
	records, err := svc.repo.QueryMarksRows(ctx, filter)
	if err != nil {
		return "", err
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.StudentName,
			nullStr(r.StudentID),
			r.Subject,
			nullFloat(r.InternalMarks),
			nullFloat(r.ExternalMarks),
			nullFloat(r.TotalMarks),
			r.ClassName,
		})
	}
	return RenderCSV(marksHeaders, rows), nil
}
