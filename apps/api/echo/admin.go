package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

type adminApi struct {
	userSvc       *user.Service
	schoolSvc     *school.Service
	attendanceSvc *attendance.Service
	analyticsSvc  *analytics.Service
}

func registerAdminAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	userSvc *user.Service,
	schoolSvc *school.Service,
	attendanceSvc *attendance.Service,
	analyticsSvc *analytics.Service,
) {
	api := adminApi{
		userSvc:       userSvc,
		schoolSvc:     schoolSvc,
		attendanceSvc: attendanceSvc,
		analyticsSvc:  analyticsSvc,
	}

	ag := g.Group("/admin", jwt, roleMiddleware(user.RoleAdmin))
	ag.GET("/teachers", api.queryTeachers)
	ag.GET("/students", api.queryStudents)
	ag.GET("/classes", api.queryClasses)
	ag.GET("/class-students", api.queryClassStudents)
	ag.GET("/attendance", api.queryAttendance)
	ag.POST("/attendance", api.markAttendance)
	ag.POST("/assign-teacher", api.assignTeacher)
	ag.POST("/change-student-class", api.changeStudentClass)
	ag.GET("/teacher-performance", api.teacherPerformance)
}

// Handlers

func (api *adminApi) queryTeachers(ctx echo.Context) error {
	teachers, err := api.userSvc.QueryTeachers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teachers": teachers})
}

func (api *adminApi) queryStudents(ctx echo.Context) error {
	students, err := api.userSvc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api *adminApi) queryClasses(ctx echo.Context) error {
	classes, err := api.schoolSvc.QueryClasses(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"classes": classes})
}

func (api *adminApi) queryClassStudents(ctx echo.Context) error {
	classID, _ := strconv.Atoi(ctx.QueryParam("classId"))
	if classID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Class ID is required")
	}

	students, err := api.userSvc.QueryClassStudents(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api *adminApi) queryAttendance(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	classID, _ := strconv.Atoi(ctx.QueryParam("classId"))
	if date == "" || classID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Date and Class ID are required")
	}

	records, err := api.attendanceSvc.ClassDay(ctx.Request().Context(), classID, date, false /* withStudentName */)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *adminApi) markAttendance(ctx echo.Context) error {
	var data attendance.BatchMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BatchMark")
	}
	if data.Date == "" || data.ClassID == 0 || len(data.Attendance) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// admins may (re)mark any date
	if err := api.attendanceSvc.Mark(ctx.Request().Context(), data, data.ClassID, claims.UserID, false /* enforceWindow */); err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Attendance marked successfully"})
}

func (api *adminApi) assignTeacher(ctx echo.Context) error {
	var data struct {
		ClassID   int `json:"classId"`
		TeacherID int `json:"teacherId"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding assign request")
	}
	if data.ClassID == 0 || data.TeacherID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Class ID and Teacher ID are required")
	}

	reqCtx := ctx.Request().Context()

	if _, err := api.schoolSvc.GetClass(reqCtx, data.ClassID); err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return echo.NewHTTPError(http.StatusNotFound, school.ErrClassNotFound.Error())
		}
		return errors.Wrap(err, "finding class")
	}

	teacher, err := api.userSvc.GetByID(reqCtx, data.TeacherID)
	if err != nil || !teacher.IsTeacher() {
		if err == nil || errors.Cause(err) == user.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, school.ErrTeacherNotFound.Error())
		}
		return errors.Wrap(err, "finding teacher")
	}

	if err := api.schoolSvc.AssignTeacher(reqCtx, data.ClassID, data.TeacherID); err != nil {
		return errors.Wrap(err, "assigning teacher")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Teacher assigned successfully"})
}

func (api *adminApi) changeStudentClass(ctx echo.Context) error {
	var data struct {
		StudentID  int `json:"studentId"`
		NewClassID int `json:"newClassId"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding change-class request")
	}
	if data.StudentID == 0 || data.NewClassID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Student ID and New Class ID are required")
	}

	reqCtx := ctx.Request().Context()

	student, err := api.userSvc.GetByID(reqCtx, data.StudentID)
	if err != nil || !student.IsStudent() {
		if err == nil || errors.Cause(err) == user.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Student not found")
		}
		return errors.Wrap(err, "finding student")
	}

	if _, err := api.schoolSvc.GetClass(reqCtx, data.NewClassID); err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return echo.NewHTTPError(http.StatusNotFound, school.ErrClassNotFound.Error())
		}
		return errors.Wrap(err, "finding class")
	}

	if err := api.userSvc.ChangeStudentClass(reqCtx, data.StudentID, data.NewClassID); err != nil {
		return errors.Wrap(err, "changing student class")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Student class changed successfully"})
}

func (api *adminApi) teacherPerformance(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if teacherID, _ := strconv.Atoi(ctx.QueryParam("teacherId")); teacherID > 0 {
		perf, err := api.analyticsSvc.TeacherPerformance(reqCtx, teacherID)
		if err != nil {
			return errors.Wrap(err, "querying teacher performance")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"performance": perf})
	}

	teachers, err := api.analyticsSvc.AllTeachersPerformance(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying teachers performance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"teachers": teachers})
}
