package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

var (
	errTeacherNotFound    = echo.NewHTTPError(http.StatusNotFound, school.ErrTeacherNotFound.Error())
	errTeacherNotAssigned = echo.NewHTTPError(http.StatusBadRequest, "Teacher not assigned to a class")
)

type teacherApi struct {
	userSvc       *user.Service
	schoolSvc     *school.Service
	attendanceSvc *attendance.Service
	marksSvc      *marks.Service
	analyticsSvc  *analytics.Service
}

func registerTeacherAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	userSvc *user.Service,
	schoolSvc *school.Service,
	attendanceSvc *attendance.Service,
	marksSvc *marks.Service,
	analyticsSvc *analytics.Service,
) {
	api := teacherApi{
		userSvc:       userSvc,
		schoolSvc:     schoolSvc,
		attendanceSvc: attendanceSvc,
		marksSvc:      marksSvc,
		analyticsSvc:  analyticsSvc,
	}

	tg := g.Group("/teacher", jwt, roleMiddleware(user.RoleTeacher))
	tg.GET("/attendance", api.queryAttendance)
	tg.POST("/attendance", api.markAttendance)
	tg.GET("/students", api.queryStudents)
	tg.POST("/marks", api.uploadMarks)
	tg.GET("/analytics", api.analytics)
}

// teacherClass resolves the requesting teacher and their assigned class.
func (api *teacherApi) teacherClass(ctx echo.Context) (user.User, school.Class, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, school.Class{}, errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	teacher, err := api.userSvc.GetByID(reqCtx, claims.UserID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, school.Class{}, errTeacherNotFound
		}
		return user.User{}, school.Class{}, errors.Wrap(err, "finding teacher")
	}

	class, err := api.schoolSvc.GetTeacherClass(reqCtx, teacher.ID)
	if err != nil {
		if errors.Cause(err) == school.ErrClassNotFound {
			return user.User{}, school.Class{}, errTeacherNotAssigned
		}
		return user.User{}, school.Class{}, errors.Wrap(err, "finding teacher class")
	}
	return teacher, class, nil
}

// Handlers

func (api *teacherApi) queryAttendance(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Date is required")
	}

	_, class, err := api.teacherClass(ctx)
	if err != nil {
		return err
	}

	records, err := api.attendanceSvc.ClassDay(ctx.Request().Context(), class.ID, date, true /* withStudentName */)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *teacherApi) markAttendance(ctx echo.Context) error {
	var data attendance.BatchMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BatchMark")
	}
	if data.Date == "" || len(data.Attendance) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	teacher, class, err := api.teacherClass(ctx)
	if err != nil {
		return err
	}

	err = api.attendanceSvc.Mark(ctx.Request().Context(), data, class.ID, teacher.ID, true /* enforceWindow */)
	if err != nil {
		if errors.Cause(err) == attendance.ErrOutsideEditWindow {
			return echo.NewHTTPError(http.StatusForbidden, attendance.ErrOutsideEditWindow.Error())
		}
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Attendance marked successfully"})
}

func (api *teacherApi) queryStudents(ctx echo.Context) error {
	_, class, err := api.teacherClass(ctx)
	if err != nil {
		return err
	}

	students, err := api.userSvc.QueryClassStudents(ctx.Request().Context(), class.ID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"students": students})
}

func (api *teacherApi) uploadMarks(ctx echo.Context) error {
	var data marks.NewMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMark")
	}
	if data.StudentID == 0 || data.Subject == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Student ID and subject are required")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	teacher, class, err := api.teacherClass(ctx)
	if err != nil {
		return err
	}

	if _, err := api.marksSvc.Upload(ctx.Request().Context(), data, class.ID, teacher.ID); err != nil {
		if errors.Cause(err) == marks.ErrStudentNotInClass {
			return echo.NewHTTPError(http.StatusNotFound, marks.ErrStudentNotInClass.Error())
		}
		return errors.Wrap(err, "uploading marks")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Marks uploaded successfully"})
}

func (api *teacherApi) analytics(ctx echo.Context) error {
	_, class, err := api.teacherClass(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()

	switch ctx.QueryParam("type") {
	case "student-performance":
		perf, err := api.analyticsSvc.ClassStudentPerformance(reqCtx, class.ID)
		if err != nil {
			return errors.Wrap(err, "querying student performance")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"performance": perf})

	case "attendance-trend":
		days, _ := strconv.Atoi(ctx.QueryParam("days"))
		if days <= 0 {
			days = 30
		}
		trend, err := api.analyticsSvc.AttendanceTrend(reqCtx, class.ID, days)
		if err != nil {
			return errors.Wrap(err, "querying attendance trend")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"trend": trend})

	case "marks-distribution":
		dist, err := api.analyticsSvc.MarksDistribution(reqCtx, class.ID, ctx.QueryParam("subject"))
		if err != nil {
			return errors.Wrap(err, "querying marks distribution")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"distribution": dist})

	case "class-stats":
		stats, err := api.analyticsSvc.ClassStats(reqCtx, class.ID)
		if err != nil {
			return errors.Wrap(err, "querying class stats")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"stats": stats})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid type")
}
