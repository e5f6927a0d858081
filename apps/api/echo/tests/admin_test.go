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
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func Test_adminApi_listings(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)
	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)
	s2 := testutil.CreateStudent(t, env.usrRepo, "Zed", "zed", "STU002", class.ID)
	testutil.CreateStudent(t, env.usrRepo, "Eve", "eve", "STU003", 0) // no class

	adminToken := getToken(t, admin)
	studentToken := getToken(t, s1)

	tests := []httpTest{
		{name: "auth required", path: "/api/admin/teachers", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/api/admin/teachers", token: studentToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "Unauthorized"}),
		},
		{name: "teachers", path: "/api/admin/teachers", token: adminToken, wantCode: http.StatusOK},
		{name: "students", path: "/api/admin/students", token: adminToken, wantCode: http.StatusOK},
		{name: "classes", path: "/api/admin/classes", token: adminToken, wantCode: http.StatusOK},
		{
			name: "class students: class id required", path: "/api/admin/class-students", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Class ID is required"}),
		},
		{name: "class students", path: "/api/admin/class-students?classId=1", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("teachers payload", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/teachers", adminToken)
		env.app.ServeHTTP(rec, req)
		var resp struct {
			Teachers []user.Teacher `json:"teachers"`
		}
		unmarchallObj(t, rec, &resp)
		require.Len(t, resp.Teachers, 1)
		assert.Equal(t, teacher.ID, resp.Teachers[0].ID)
		assert.Equal(t, "EMP001", resp.Teachers[0].EmployeeID.String)
	})

	t.Run("students payload joins class name", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/students", adminToken)
		env.app.ServeHTTP(rec, req)
		var resp struct {
			Students []user.Student `json:"students"`
		}
		unmarchallObj(t, rec, &resp)
		require.Len(t, resp.Students, 3)
		// ordered by name
		assert.Equal(t, "Amy", resp.Students[0].Name)
		assert.Equal(t, "Grade 5 - A", resp.Students[0].ClassName.String)
		assert.False(t, resp.Students[1].ClassName.Valid) // Eve has no class
	})

	t.Run("class students payload", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/class-students?classId=1", adminToken)
		env.app.ServeHTTP(rec, req)
		var resp struct {
			Students []user.ClassStudent `json:"students"`
		}
		unmarchallObj(t, rec, &resp)
		require.Len(t, resp.Students, 2)
		assert.Equal(t, s1.ID, resp.Students[0].ID)
		assert.Equal(t, s2.ID, resp.Students[1].ID)
	})
}

func Test_adminApi_attendance(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	s1 := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)

	adminToken := getToken(t, admin)
	oldDate := core.FormatDate(time.Now().AddDate(0, 0, -30))

	mark := func(date string, classID int, entries ...attendance.Entry) []byte {
		return marchallObj(t, attendance.BatchMark{Date: date, ClassID: classID, Attendance: entries})
	}

	tests := []httpTest{
		{
			name: "invalid request data", method: http.MethodPost, path: "/api/admin/attendance",
			body: mark("", class.ID), token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid request data"}),
		},
		// admins are not bound to the teacher edit window
		{
			name: "mark old date", method: http.MethodPost, path: "/api/admin/attendance",
			body: mark(oldDate, class.ID, attendance.Entry{StudentID: s1.ID, Status: attendance.StatusPresent}), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Attendance marked successfully")),
		},
		// remarking replaces the previous row
		{
			name: "remark old date", method: http.MethodPost, path: "/api/admin/attendance",
			body: mark(oldDate, class.ID, attendance.Entry{StudentID: s1.ID, Status: attendance.StatusAbsent}), token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Attendance marked successfully")),
		},
		{
			name: "query: date and class id required", path: "/api/admin/attendance?date=" + oldDate, token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Date and Class ID are required"}),
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

	t.Run("query marked day", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/admin/attendance?date="+oldDate+"&classId=1", adminToken)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Attendance []attendance.Record `json:"attendance"`
		}
		unmarchallObj(t, rec, &resp)
		require.Len(t, resp.Attendance, 1)
		assert.Equal(t, attendance.StatusAbsent, resp.Attendance[0].Status)
		assert.Equal(t, admin.ID, resp.Attendance[0].MarkedBy)
	})
}

func Test_adminApi_assignTeacher(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)
	teacher := testutil.CreateTeacher(t, env.usrRepo, "Ms Smith", "smith", "teach123", "EMP001")
	class := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	student := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", class.ID)

	adminToken := getToken(t, admin)

	body := func(classID, teacherID int) []byte {
		return marchallObj(t, map[string]int{"classId": classID, "teacherId": teacherID})
	}

	tests := []httpTest{
		{
			name: "ids required", body: body(0, teacher.ID),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Class ID and Teacher ID are required"}),
		},
		{
			name: "class not found", body: body(999, teacher.ID),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Class not found"}),
		},
		{
			name: "teacher not found", body: body(class.ID, 999),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Teacher not found"}),
		},
		// a student id is not a teacher
		{
			name: "student is not a teacher", body: body(class.ID, student.ID),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Teacher not found"}),
		},
		{
			name: "ok", body: body(class.ID, teacher.ID),
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Teacher assigned successfully")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/assign-teacher", adminToken, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	assigned, err := env.schoolRepo.GetClassByTeacher(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, class.ID, assigned.ID)
}

func Test_adminApi_changeStudentClass(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)
	c1 := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "A")
	c2 := testutil.CreateClass(t, env.schoolRepo, "Grade 5", "B")
	student := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", c1.ID)

	adminToken := getToken(t, admin)

	body := func(studentID, classID int) []byte {
		return marchallObj(t, map[string]int{"studentId": studentID, "newClassId": classID})
	}

	tests := []httpTest{
		{
			name: "ids required", body: body(student.ID, 0),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Student ID and New Class ID are required"}),
		},
		{
			name: "student not found", body: body(999, c2.ID),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Student not found"}),
		},
		{
			name: "admin is not a student", body: body(admin.ID, c2.ID),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Student not found"}),
		},
		{
			name: "class not found", body: body(student.ID, 999),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Class not found"}),
		},
		{
			name: "ok", body: body(student.ID, c2.ID),
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Student class changed successfully")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/admin/change-student-class", adminToken, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	moved, err := env.usrRepo.GetUserByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, c2.ID, moved.ClassID.Int)
}
