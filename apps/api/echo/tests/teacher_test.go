package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func Test_teacherApi_attendance(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	unassigned := testutil.CreateTeacher(t, env.usrRepo, "Mr Free", "free", "teach123", "EMP002")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	require.NoError(t, env.schoolRepo.AssignTeacher(ctx, class.ID, teacher.ID))
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)
	s2 := testutil.CreateStudent(t, env.usrRepo, "Zed", "zed", "STU002", class.ID)
	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)

	teacherToken := getToken(t, teacher)
	unassignedToken := getToken(t, unassigned)

	today := core.FormatDate(time.Now())
	oldDate := core.FormatDate(time.Now().AddDate(0, 0, -attendance.EditWindowDays-2))

	mark := func(date string, entries ...attendance.Entry) []byte {
		return marchallObj(t, attendance.BatchMark{Date: date, Attendance: entries})
	}

	tests := []httpTest{
		{
			name: "teacher required", path: "/api/teacher/attendance?date=" + today, token: getToken(t, admin),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "Unauthorized"}),
		},
		{
			name: "date required", path: "/api/teacher/attendance", token: teacherToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Date is required"}),
		},
		{
			name: "not assigned to a class", path: "/api/teacher/attendance?date=" + today, token: unassignedToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Teacher not assigned to a class"}),
		},
		{
			name: "mark: invalid request data", method: http.MethodPost, path: "/api/teacher/attendance",
			body: mark(""), token: teacherToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid request data"}),
		},
		// the 3-day edit window applies to teachers
		{
			name: "mark: outside edit window", method: http.MethodPost, path: "/api/teacher/attendance",
			body: mark(oldDate, attendance.Entry{StudentID: s1.ID, Status: attendance.StatusPresent}), token: teacherToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "You can only mark attendance for the last 3 days"}),
		},
		{
			name: "mark today", method: http.MethodPost, path: "/api/teacher/attendance",
			body: mark(today,
				attendance.Entry{StudentID: s1.ID, Status: attendance.StatusPresent},
				attendance.Entry{StudentID: s2.ID, Status: attendance.StatusPresent},
			),
			token:    teacherToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Attendance marked successfully")),
		},
		// remarking a student replaces the previous row
		{
			name: "remark today", method: http.MethodPost, path: "/api/teacher/attendance",
			body: mark(today, attendance.Entry{StudentID: s2.ID, Status: attendance.StatusAbsent}), token: teacherToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Attendance marked successfully")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("query day with student names", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/teacher/attendance?date="+today, teacherToken)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Attendance []attendance.Record `json:"attendance"`
		}
		unmarchallObj(t, rec, &resp)
		require.Len(t, resp.Attendance, 2)
		// ordered by student name
		assert.Equal(t, "Amy", resp.Attendance[0].StudentName.String)
		assert.Equal(t, attendance.StatusPresent, resp.Attendance[0].Status)
		assert.Equal(t, "Zed", resp.Attendance[1].StudentName.String)
		assert.Equal(t, attendance.StatusAbsent, resp.Attendance[1].Status)
	})
}

func Test_teacherApi_students(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	require.NoError(t, env.schoolRepo.AssignTeacher(ctx, class.ID, teacher.ID))
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)
	testutil.CreateStudent(t, env.usrRepo, "Out", "out", "STU099", 0)

	req, rec := newAuthRequest(http.MethodGet, "/api/teacher/students", getToken(t, teacher))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Students []user.ClassStudent `json:"students"`
	}
	unmarchallObj(t, rec, &resp)
	require.Len(t, resp.Students, 1)
	assert.Equal(t, s1.ID, resp.Students[0].ID)
	assert.Equal(t, "STU001", resp.Students[0].StudentID.String)
}

func Test_teacherApi_uploadMarks(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	other := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "B")
	require.NoError(t, env.schoolRepo.AssignTeacher(ctx, class.ID, teacher.ID))
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)
	outsider := testutil.CreateStudent(t, env.usrRepo, "Out", "out", "STU099", other.ID)

	teacherToken := getToken(t, teacher)

	upload := func(studentID int, subject string, internal, external float64) []byte {
		return marchallObj(t, marks.NewMark{StudentID: studentID, Subject: subject, Internal: internal, External: external})
	}

	tests := []httpTest{
		{
			name: "student id and subject required", body: upload(0, "Math", 40, 35),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Student ID and subject are required"}),
		},
		{
			name: "student not in class", body: upload(outsider.ID, "Math", 40, 35),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Student not found in your class"}),
		},
		{
			name: "ok", body: upload(s1.ID, "Math", 40, 35),
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Marks uploaded successfully")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/teacher/marks", teacherToken, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	recs, err := env.marksRepo.QueryByStudent(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, class.ID, recs[0].ClassID)
	assert.Equal(t, 40.0, recs[0].InternalMarks.Float64)
	assert.Equal(t, 35.0, recs[0].ExternalMarks.Float64)
	assert.Equal(t, teacher.ID, recs[0].UploadedBy)
}

func Test_teacherApi_analytics(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	require.NoError(t, env.schoolRepo.AssignTeacher(ctx, class.ID, teacher.ID))
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)

	today := core.FormatDate(time.Now())
	testutil.MarkAttendance(t, env.attRepo, s1.ID, class.ID, today, attendance.StatusPresent, teacher.ID)
	testutil.CreateMark(t, env.marksRepo, s1.ID, class.ID, "Math", 40, 35, teacher.ID)

	teacherToken := getToken(t, teacher)

	tests := []httpTest{
		{name: "student performance", path: "/api/teacher/analytics?type=student-performance", wantCode: http.StatusOK},
		{name: "attendance trend", path: "/api/teacher/analytics?type=attendance-trend&days=7", wantCode: http.StatusOK},
		{name: "marks distribution", path: "/api/teacher/analytics?type=marks-distribution&subject=Math", wantCode: http.StatusOK},
		{name: "class stats", path: "/api/teacher/analytics?type=class-stats", wantCode: http.StatusOK},
		{
			name: "invalid type", path: "/api/teacher/analytics?type=lol",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid type"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, teacherToken)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("class stats payload", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/teacher/analytics?type=class-stats", teacherToken)
		env.app.ServeHTTP(rec, req)
		var resp struct {
			Stats struct {
				TotalStudents     int     `json:"totalStudents"`
				AverageAttendance float64 `json:"averageAttendance"`
				SubjectsCount     int     `json:"subjectsCount"`
			} `json:"stats"`
		}
		unmarchallObj(t, rec, &resp)
		assert.Equal(t, 1, resp.Stats.TotalStudents)
		assert.Equal(t, 100.0, resp.Stats.AverageAttendance)
		assert.Equal(t, 1, resp.Stats.SubjectsCount)
	})
}
