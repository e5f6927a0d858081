package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/analytics"
)

type analyticsRepository struct {
	db *sqlx.DB
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(db *sqlx.DB) *analyticsRepository {
	return &analyticsRepository{db: db}
}

func (repo analyticsRepository) CountAttendance(ctx context.Context, studentID int, startDate, endDate string) (analytics.AttendanceCounts, error) {
	query := `
SELECT COUNT(*) AS total_days,
       COALESCE(SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END), 0) AS present_days,
       COALESCE(SUM(CASE WHEN status = 'absent' THEN 1 ELSE 0 END), 0) AS absent_days
FROM attendance
WHERE student_id = ?`
	args := []interface{}{studentID}

	if startDate != "" {
		query += ` AND date >= ?`
		args = append(args, startDate)
	}
	if endDate != "" {
		query += ` AND date <= ?`
		args = append(args, endDate)
	}

	var counts struct {
		TotalDays   int `db:"total_days"`
		PresentDays int `db:"present_days"`
		AbsentDays  int `db:"absent_days"`
	}
	if err := repo.db.GetContext(ctx, &counts, repo.db.Rebind(query), args...); err != nil {
		return analytics.AttendanceCounts{}, errors.Wrap(err, "counting attendance")
	}
	return analytics.AttendanceCounts(counts), nil
}

func (repo analyticsRepository) ClassAttendanceAggregate(ctx context.Context, classID int) (analytics.ClassAggregate, error) {
	var agg struct {
		TotalDays         int          `db:"total_days"`
		AverageAttendance null.Float64 `db:"avg_attendance"`
	}
	query := repo.db.Rebind(`
SELECT COUNT(DISTINCT date) AS total_days,
       AVG(CASE WHEN status = 'present' THEN 1.0 ELSE 0.0 END) * 100 AS avg_attendance
FROM attendance
WHERE class_id = ?`)
	if err := repo.db.GetContext(ctx, &agg, query, classID); err != nil {
		return analytics.ClassAggregate{}, errors.Wrap(err, "aggregating class attendance")
	}
	return analytics.ClassAggregate{TotalDays: agg.TotalDays, AverageAttendance: agg.AverageAttendance}, nil
}

func (repo analyticsRepository) ClassStudentCount(ctx context.Context, classID int) (int, error) {
	var count int
	query := repo.db.Rebind(`SELECT COUNT(*) FROM users WHERE class_id = ? AND role = 'student'`)
	if err := repo.db.GetContext(ctx, &count, query, classID); err != nil {
		return 0, errors.Wrap(err, "counting class students")
	}
	return count, nil
}

func (repo analyticsRepository) ClassMarksAverage(ctx context.Context, classID int) (null.Float64, error) {
	var avg null.Float64
	query := repo.db.Rebind(`SELECT AVG(internal_marks + external_marks) FROM marks WHERE class_id = ?`)
	if err := repo.db.GetContext(ctx, &avg, query, classID); err != nil {
		return null.Float64{}, errors.Wrap(err, "averaging class marks")
	}
	return avg, nil
}

func (repo analyticsRepository) ClassLabel(ctx context.Context, classID int) (string, error) {
	var label string
	query := repo.db.Rebind(`SELECT class_name || ' - ' || section FROM classes WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &label, query, classID); err != nil {
		return "", errors.Wrap(err, "getting class label")
	}
	return label, nil
}

func (repo analyticsRepository) QueryAtRiskStudents(ctx context.Context, threshold float64) ([]analytics.AtRiskStudent, error) {
	students := make([]analytics.AtRiskStudent, 0)
	query := repo.db.Rebind(`
SELECT u.id,
       u.name,
       u.student_id,
       COUNT(a.id) AS total_days,
       SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) AS present_days,
       SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(a.id), 0) AS attendance_pct
FROM users u
LEFT JOIN attendance a ON u.id = a.student_id
WHERE u.role = 'student'
GROUP BY u.id, u.name, u.student_id
HAVING SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(a.id), 0) < ?
    OR SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(a.id), 0) IS NULL
ORDER BY attendance_pct ASC`)
	if err := repo.db.SelectContext(ctx, &students, query, threshold); err != nil {
		return nil, errors.Wrap(err, "querying at-risk students")
	}
	return students, nil
}

func (repo analyticsRepository) QueryAttendanceTrend(ctx context.Context, classID int, startDate, endDate string) ([]analytics.TrendPoint, error) {
	points := make([]analytics.TrendPoint, 0)
	query := repo.db.Rebind(`
SELECT date,
       COUNT(*) AS total_students,
       SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS present_count,
       SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) * 100.0 / COUNT(*) AS attendance_pct
FROM attendance
WHERE class_id = ? AND date >= ? AND date <= ?
GROUP BY date
ORDER BY date ASC`)
	if err := repo.db.SelectContext(ctx, &points, query, classID, startDate, endDate); err != nil {
		return nil, errors.Wrap(err, "querying attendance trend")
	}
	return points, nil
}

func (repo analyticsRepository) QueryMarksDistribution(ctx context.Context, classID int, subject string) ([]analytics.GradeBucket, error) {
	query := `
SELECT CASE
           WHEN (internal_marks + external_marks) >= 90 THEN 'A+ (90-100)'
           WHEN (internal_marks + external_marks) >= 80 THEN 'A (80-89)'
           WHEN (internal_marks + external_marks) >= 70 THEN 'B (70-79)'
           WHEN (internal_marks + external_marks) >= 60 THEN 'C (60-69)'
           WHEN (internal_marks + external_marks) >= 50 THEN 'D (50-59)'
           ELSE 'F (<50)'
       END AS grade,
       COUNT(*) AS count
FROM marks
WHERE class_id = ?`
	args := []interface{}{classID}

	if subject != "" {
		query += ` AND subject = ?`
		args = append(args, subject)
	}
	query += ` GROUP BY grade ORDER BY grade`

	buckets := make([]analytics.GradeBucket, 0)
	if err := repo.db.SelectContext(ctx, &buckets, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying marks distribution")
	}
	return buckets, nil
}

func (repo analyticsRepository) CompareClasses(ctx context.Context, classIDs []int) ([]analytics.ClassComparison, error) {
	query, args, err := sqlx.In(`
SELECT c.id,
       c.class_name || ' - ' || c.section AS class_name,
       COUNT(DISTINCT a.date) AS total_days,
       AVG(CASE WHEN a.status = 'present' THEN 1.0 ELSE 0.0 END) * 100 AS avg_attendance,
       AVG(m.internal_marks + m.external_marks) AS avg_marks
FROM classes c
LEFT JOIN attendance a ON c.id = a.class_id
LEFT JOIN marks m ON c.id = m.class_id
WHERE c.id IN (?)
GROUP BY c.id, c.class_name, c.section`, classIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building class comparison query")
	}

	comps := make([]analytics.ClassComparison, 0)
	if err := repo.db.SelectContext(ctx, &comps, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "comparing classes")
	}
	return comps, nil
}

func (repo analyticsRepository) QueryTeacherClasses(ctx context.Context, teacherID int) ([]analytics.ClassRef, error) {
	classes := make([]analytics.ClassRef, 0)
	query := repo.db.Rebind(`
SELECT id, class_name || ' - ' || section AS name
FROM classes
WHERE teacher_id = ?
ORDER BY id`)
	if err := repo.db.SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying teacher classes")
	}
	return classes, nil
}

func (repo analyticsRepository) TeacherAggregate(ctx context.Context, classIDs []int) (analytics.TeacherAggregate, error) {
	query, args, err := sqlx.In(`
SELECT COUNT(DISTINCT u.id) AS total_students,
       AVG(CASE WHEN a.status = 'present' THEN 1.0 ELSE 0.0 END) * 100 AS avg_attendance,
       AVG(m.internal_marks + m.external_marks) AS avg_marks
FROM users u
LEFT JOIN attendance a ON u.id = a.student_id AND a.class_id IN (?)
LEFT JOIN marks m ON u.id = m.student_id AND m.class_id IN (?)
WHERE u.class_id IN (?) AND u.role = 'student'`, classIDs, classIDs, classIDs)
	if err != nil {
		return analytics.TeacherAggregate{}, errors.Wrap(err, "building teacher aggregate query")
	}

	var agg struct {
		TotalStudents     int          `db:"total_students"`
		AverageAttendance null.Float64 `db:"avg_attendance"`
		AverageMarks      null.Float64 `db:"avg_marks"`
	}
	if err := repo.db.GetContext(ctx, &agg, repo.db.Rebind(query), args...); err != nil {
		return analytics.TeacherAggregate{}, errors.Wrap(err, "aggregating teacher stats")
	}
	return analytics.TeacherAggregate{
		TotalStudents:     agg.TotalStudents,
		AverageAttendance: agg.AverageAttendance,
		AverageMarks:      agg.AverageMarks,
	}, nil
}

func (repo analyticsRepository) QueryTeacherStudentPerformance(ctx context.Context, classIDs []int) ([]analytics.StudentPerformance, error) {
	query, args, err := sqlx.In(`
SELECT u.id,
       u.name,
       u.student_id,
       COUNT(DISTINCT a.date) AS total_days,
       SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) AS present_days,
       COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(DISTINCT a.date), 0), 0) AS attendance_pct,
       COALESCE(AVG(m.internal_marks + m.external_marks), 0) AS avg_marks
FROM users u
LEFT JOIN attendance a ON u.id = a.student_id AND a.class_id IN (?)
LEFT JOIN marks m ON u.id = m.student_id AND m.class_id IN (?)
WHERE u.class_id IN (?) AND u.role = 'student'
GROUP BY u.id, u.name, u.student_id
ORDER BY avg_marks DESC, attendance_pct DESC`, classIDs, classIDs, classIDs)
	if err != nil {
		return nil, errors.Wrap(err, "building student performance query")
	}

	students := make([]analytics.StudentPerformance, 0)
	if err := repo.db.SelectContext(ctx, &students, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying student performance")
	}
	return students, nil
}

func (repo analyticsRepository) QueryTeachersWithClass(ctx context.Context) ([]analytics.TeacherRow, error) {
	teachers := make([]analytics.TeacherRow, 0)
	query := `
SELECT u.id, u.name, u.employee_id, c.id AS class_id, c.class_name || ' - ' || c.section AS class_name
FROM users u
LEFT JOIN classes c ON u.id = c.teacher_id
WHERE u.role = 'teacher'
ORDER BY u.name`
	if err := repo.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo analyticsRepository) QueryClassStudentPerformance(ctx context.Context, classID int) ([]analytics.StudentPerformance, error) {
	students := make([]analytics.StudentPerformance, 0)
	query := repo.db.Rebind(`
SELECT u.id,
       u.name,
       u.student_id,
       COUNT(DISTINCT a.date) AS total_days,
       SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) AS present_days,
       COALESCE(SUM(CASE WHEN a.status = 'present' THEN 1 ELSE 0 END) * 100.0 / NULLIF(COUNT(DISTINCT a.date), 0), 0) AS attendance_pct,
       COALESCE(AVG(m.internal_marks + m.external_marks), 0) AS avg_marks,
       COUNT(DISTINCT m.subject) AS subjects_count
FROM users u
LEFT JOIN attendance a ON u.id = a.student_id
LEFT JOIN marks m ON u.id = m.student_id
WHERE u.class_id = ? AND u.role = 'student'
GROUP BY u.id, u.name, u.student_id
ORDER BY avg_marks DESC, attendance_pct DESC`)
	if err := repo.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, errors.Wrap(err, "querying class student performance")
	}
	return students, nil
}

func (repo analyticsRepository) ClassStatsAggregate(ctx context.Context, classID int) (analytics.TeacherAggregate, error) {
	var agg struct {
		TotalStudents     int          `db:"total_students"`
		AverageAttendance null.Float64 `db:"avg_attendance"`
		AverageMarks      null.Float64 `db:"avg_marks"`
		SubjectsCount     int          `db:"subjects_count"`
	}
	query := repo.db.Rebind(`
SELECT COUNT(DISTINCT u.id) AS total_students,
       AVG(CASE WHEN a.status = 'present' THEN 1.0 ELSE 0.0 END) * 100 AS avg_attendance,
       AVG(m.internal_marks + m.external_marks) AS avg_marks,
       COUNT(DISTINCT m.subject) AS subjects_count
FROM users u
LEFT JOIN attendance a ON u.id = a.student_id AND a.class_id = ?
LEFT JOIN marks m ON u.id = m.student_id AND m.class_id = ?
WHERE u.class_id = ? AND u.role = 'student'`)
	if err := repo.db.GetContext(ctx, &agg, query, classID, classID, classID); err != nil {
		return analytics.TeacherAggregate{}, errors.Wrap(err, "aggregating class stats")
	}
	return analytics.TeacherAggregate{
		TotalStudents:     agg.TotalStudents,
		AverageAttendance: agg.AverageAttendance,
		AverageMarks:      agg.AverageMarks,
		SubjectsCount:     agg.SubjectsCount,
	}, nil
}
