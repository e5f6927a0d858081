package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/notification"
	"github.com/trezcool/shule/core/user"
)

type bulkApi struct {
	userSvc       *user.Service
	attendanceSvc *attendance.Service
	marksSvc      *marks.Service
	notifSvc      *notification.Service
	auditSvc      *audit.Service
}

func registerBulkAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	userSvc *user.Service,
	attendanceSvc *attendance.Service,
	marksSvc *marks.Service,
	notifSvc *notification.Service,
	auditSvc *audit.Service,
) {
	api := bulkApi{
		userSvc:       userSvc,
		attendanceSvc: attendanceSvc,
		marksSvc:      marksSvc,
		notifSvc:      notifSvc,
		auditSvc:      auditSvc,
	}

	bg := g.Group("/bulk", jwt)
	bg.POST("/students", api.createStudents, roleMiddleware(user.RoleAdmin))
	bg.POST("/attendance", api.markAttendance)
	bg.POST("/marks", api.uploadMarks, roleMiddleware(user.RoleTeacher))
}

// Handlers

func (api *bulkApi) createStudents(ctx echo.Context) error {
	var data struct {
		Students []user.NewStudent `json:"students"`
		ClassID  int               `json:"classId"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding bulk students request")
	}
	if len(data.Students) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Students array required")
	}
	for i := range data.Students {
		if err := data.Students[i].Validate(); err != nil {
			return err
		}
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if err := api.userSvc.CreateStudents(reqCtx, data.Students, data.ClassID); err != nil {
		return errors.Wrap(err, "creating students")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "bulk_student_create",
		EntityType: "users",
		NewValues:  echo.Map{"count": len(data.Students), "classId": data.ClassID},
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d students created successfully", len(data.Students))})
}

func (api *bulkApi) markAttendance(ctx echo.Context) error {
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

	reqCtx := ctx.Request().Context()

	if _, err := api.userSvc.GetByID(reqCtx, claims.UserID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return errors.Wrap(err, "finding user")
	}

	if err := api.attendanceSvc.Mark(reqCtx, data, data.ClassID, claims.UserID, false /* enforceWindow */); err != nil {
		return errors.Wrap(err, "marking attendance")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "bulk_attendance_mark",
		EntityType: "attendance",
		NewValues:  echo.Map{"date": data.Date, "classId": data.ClassID, "count": len(data.Attendance)},
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})

	// every student of the class gets a heads-up, marked or not
	students, err := api.userSvc.QueryClassStudents(reqCtx, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "querying class students")
	}
	notifs := make([]notification.New, 0, len(students))
	for _, s := range students {
		notifs = append(notifs, notification.New{
			UserID:      s.ID,
			Title:       "Attendance Updated",
			Message:     fmt.Sprintf("Your attendance for %s has been marked.", data.Date),
			Type:        notification.TypeAttendance,
			RelatedID:   data.ClassID,
			RelatedType: "class",
		})
	}
	api.notifSvc.NotifyBulk(reqCtx, notifs)

	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Bulk attendance marked successfully"})
}

func (api *bulkApi) uploadMarks(ctx echo.Context) error {
	var data struct {
		Marks []marks.NewMark `json:"marks"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding bulk marks request")
	}
	if len(data.Marks) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Marks array required")
	}
	for i := range data.Marks {
		if err := data.Marks[i].Validate(); err != nil {
			return err
		}
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if _, err := api.userSvc.GetByID(reqCtx, claims.UserID); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errTeacherNotFound
		}
		return errors.Wrap(err, "finding teacher")
	}

	if err := api.marksSvc.BulkUpload(reqCtx, data.Marks, claims.UserID); err != nil {
		return errors.Wrap(err, "uploading marks")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "bulk_marks_upload",
		EntityType: "marks",
		NewValues:  echo.Map{"count": len(data.Marks)},
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})

	notifs := make([]notification.New, 0, len(data.Marks))
	for _, studentID := range marks.DistinctStudentIDs(data.Marks) {
		notifs = append(notifs, notification.New{
			UserID:      studentID,
			Title:       "New Marks Uploaded",
			Message:     "Your marks have been updated.",
			Type:        notification.TypeMarks,
			RelatedID:   studentID,
			RelatedType: "student",
		})
	}
	api.notifSvc.NotifyBulk(reqCtx, notifs)

	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%d marks uploaded successfully", len(data.Marks))})
}
