package analytics

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core"
)

type (
	// AttendanceCounts aggregates one student's raw attendance counters.
	AttendanceCounts struct {
		TotalDays   int
		PresentDays int
		AbsentDays  int
	}

	// ClassAggregate is the attendance/marks rollup behind class performance.
	ClassAggregate struct {
		TotalDays         int
		AverageAttendance null.Float64
		AverageMarks      null.Float64
	}

	// TeacherAggregate rolls up all students of a teacher's classes.
	TeacherAggregate struct {
		TotalStudents     int
		AverageAttendance null.Float64
		AverageMarks      null.Float64
		SubjectsCount     int
	}

	// TeacherRow is a teacher with their (possibly absent) assigned class.
	TeacherRow struct {
		ID         int         `db:"id"`
		Name       string      `db:"name"`
		EmployeeID null.String `db:"employee_id"`
		ClassID    null.Int    `db:"class_id"`
		ClassName  null.String `db:"class_name"`
	}

	Repository interface {
		CountAttendance(ctx context.Context, studentID int, startDate, endDate string) (AttendanceCounts, error)
		ClassAttendanceAggregate(ctx context.Context, classID int) (ClassAggregate, error)
		ClassStudentCount(ctx context.Context, classID int) (int, error)
		ClassMarksAverage(ctx context.Context, classID int) (null.Float64, error)
		ClassLabel(ctx context.Context, classID int) (string, error)
		QueryAtRiskStudents(ctx context.Context, threshold float64) ([]AtRiskStudent, error)
		QueryAttendanceTrend(ctx context.Context, classID int, startDate, endDate string) ([]TrendPoint, error)
		QueryMarksDistribution(ctx context.Context, classID int, subject string) ([]GradeBucket, error)
		CompareClasses(ctx context.Context, classIDs []int) ([]ClassComparison, error)
		QueryTeacherClasses(ctx context.Context, teacherID int) ([]ClassRef, error)
		TeacherAggregate(ctx context.Context, classIDs []int) (TeacherAggregate, error)
		QueryTeacherStudentPerformance(ctx context.Context, classIDs []int) ([]StudentPerformance, error)
		QueryTeachersWithClass(ctx context.Context) ([]TeacherRow, error)
		QueryClassStudentPerformance(ctx context.Context, classID int) ([]StudentPerformance, error)
		ClassStatsAggregate(ctx context.Context, classID int) (TeacherAggregate, error)
	}

	Service struct {
		repo Repository

		// NowFunc feeds the trend windows; swapped in tests.
		NowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, NowFunc: time.Now}
}

func percentage(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

// StudentStats aggregates one student's attendance, with a trend comparing
// the last 7 days against the 7 before ([today-7d, today] vs
// [today-14d, today-7d], a 5-point band counting as stable).
func (svc *Service) StudentStats(ctx context.Context, studentID int, startDate, endDate string) (AttendanceStats, error) {
	counts, err := svc.repo.CountAttendance(ctx, studentID, startDate, endDate)
	if err != nil {
		return AttendanceStats{}, err
	}

	now := svc.NowFunc()
	today := core.FormatDate(now)
	lastWeekEnd := core.FormatDate(now.AddDate(0, 0, -7))
	lastWeekStart := core.FormatDate(now.AddDate(0, 0, -14))

	lastWeek, err := svc.repo.CountAttendance(ctx, studentID, lastWeekEnd, today)
	if err != nil {
		return AttendanceStats{}, err
	}
	prevWeek, err := svc.repo.CountAttendance(ctx, studentID, lastWeekStart, lastWeekEnd)
	if err != nil {
		return AttendanceStats{}, err
	}

	lastPct := percentage(lastWeek.PresentDays, lastWeek.TotalDays)
	prevPct := percentage(prevWeek.PresentDays, prevWeek.TotalDays)

	trend := TrendStable
	switch {
	case lastPct > prevPct+trendBand:
		trend = TrendImproving
	case lastPct < prevPct-trendBand:
		trend = TrendDeclining
	}

	return AttendanceStats{
		TotalDays:            counts.TotalDays,
		PresentDays:          counts.PresentDays,
		AbsentDays:           counts.AbsentDays,
		AttendancePercentage: core.Round2(percentage(counts.PresentDays, counts.TotalDays)),
		Trend:                trend,
	}, nil
}

func (svc *Service) ClassPerformance(ctx context.Context, classID int) (ClassPerformance, error) {
	label, err := svc.repo.ClassLabel(ctx, classID)
	if err != nil {
		return ClassPerformance{}, err
	}
	agg, err := svc.repo.ClassAttendanceAggregate(ctx, classID)
	if err != nil {
		return ClassPerformance{}, err
	}
	count, err := svc.repo.ClassStudentCount(ctx, classID)
	if err != nil {
		return ClassPerformance{}, err
	}
	avgMarks, err := svc.repo.ClassMarksAverage(ctx, classID)
	if err != nil {
		return ClassPerformance{}, err
	}
	return ClassPerformance{
		ClassID:           classID,
		ClassName:         label,
		AverageAttendance: core.Round2(agg.AverageAttendance.Float64),
		TotalStudents:     count,
		AverageMarks:      core.Round2(avgMarks.Float64),
	}, nil
}

// AtRiskStudents lists students under the attendance threshold, worst first.
// Students with no attendance at all are included.
func (svc *Service) AtRiskStudents(ctx context.Context, threshold float64) ([]AtRiskStudent, error) {
	return svc.repo.QueryAtRiskStudents(ctx, threshold)
}

// AttendanceTrend is the per-date series for the last `days` days.
func (svc *Service) AttendanceTrend(ctx context.Context, classID, days int) ([]TrendPoint, error) {
	now := svc.NowFunc()
	return svc.repo.QueryAttendanceTrend(ctx, classID, core.FormatDate(now.AddDate(0, 0, -days)), core.FormatDate(now))
}

// MarksDistribution buckets internal+external totals into letter grades.
func (svc *Service) MarksDistribution(ctx context.Context, classID int, subject string) ([]GradeBucket, error) {
	return svc.repo.QueryMarksDistribution(ctx, classID, subject)
}

func (svc *Service) CompareClasses(ctx context.Context, classIDs []int) ([]ClassComparison, error) {
	comps, err := svc.repo.CompareClasses(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	for i := range comps {
		if comps[i].AverageAttendance.Valid {
			comps[i].AverageAttendance = null.Float64From(core.Round2(comps[i].AverageAttendance.Float64))
		}
		if comps[i].AverageMarks.Valid {
			comps[i].AverageMarks = null.Float64From(core.Round2(comps[i].AverageMarks.Float64))
		}
	}
	return comps, nil
}

func (svc *Service) TeacherPerformance(ctx context.Context, teacherID int) (TeacherPerformance, error) {
	classes, err := svc.repo.QueryTeacherClasses(ctx, teacherID)
	if err != nil {
		return TeacherPerformance{}, err
	}
	if len(classes) == 0 {
		return TeacherPerformance{
			TeacherID:          teacherID,
			Classes:            []ClassRef{},
			StudentPerformance: []StudentPerformance{},
		}, nil
	}

	classIDs := make([]int, len(classes))
	for i, c := range classes {
		classIDs[i] = c.ID
	}

	agg, err := svc.repo.TeacherAggregate(ctx, classIDs)
	if err != nil {
		return TeacherPerformance{}, err
	}
	students, err := svc.repo.QueryTeacherStudentPerformance(ctx, classIDs)
	if err != nil {
		return TeacherPerformance{}, err
	}
	for i := range students {
		students[i].AttendancePercentage = core.Round2(students[i].AttendancePercentage)
		students[i].AverageMarks = core.Round2(students[i].AverageMarks)
	}

	return TeacherPerformance{
		TeacherID:          teacherID,
		Classes:            classes,
		TotalStudents:      agg.TotalStudents,
		AverageAttendance:  core.Round2(agg.AverageAttendance.Float64),
		AverageMarks:       core.Round2(agg.AverageMarks.Float64),
		StudentPerformance: students,
	}, nil
}

func (svc *Service) AllTeachersPerformance(ctx context.Context) ([]TeacherSummary, error) {
	teachers, err := svc.repo.QueryTeachersWithClass(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]TeacherSummary, 0, len(teachers))
	for _, t := range teachers {
		summary := TeacherSummary{
			TeacherID:   t.ID,
			TeacherName: t.Name,
			EmployeeID:  t.EmployeeID,
			Classes:     []ClassRef{},
		}
		if t.ClassID.Valid {
			perf, err := svc.TeacherPerformance(ctx, t.ID)
			if err != nil {
				return nil, err
			}
			summary.Classes = perf.Classes
			summary.TotalStudents = perf.TotalStudents
			summary.AverageAttendance = perf.AverageAttendance
			summary.AverageMarks = perf.AverageMarks
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (svc *Service) ClassStudentPerformance(ctx context.Context, classID int) ([]StudentPerformance, error) {
	students, err := svc.repo.QueryClassStudentPerformance(ctx, classID)
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].AttendancePercentage = core.Round2(students[i].AttendancePercentage)
		students[i].AverageMarks = core.Round2(students[i].AverageMarks)
	}
	return students, nil
}

func (svc *Service) ClassStats(ctx context.Context, classID int) (ClassStats, error) {
	agg, err := svc.repo.ClassStatsAggregate(ctx, classID)
	if err != nil {
		return ClassStats{}, err
	}
	return ClassStats{
		TotalStudents:     agg.TotalStudents,
		AverageAttendance: core.Round2(agg.AverageAttendance.Float64),
		AverageMarks:      core.Round2(agg.AverageMarks.Float64),
		SubjectsCount:     agg.SubjectsCount,
	}, nil
}
