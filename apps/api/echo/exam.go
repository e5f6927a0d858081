package echoapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/exam"
	"github.com/trezcool/shule/core/notification"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

type examApi struct {
	examSvc   *exam.Service
	userSvc   *user.Service
	schoolSvc *school.Service
	notifSvc  *notification.Service
	auditSvc  *audit.Service
}

func registerExamAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	examSvc *exam.Service,
	userSvc *user.Service,
	schoolSvc *school.Service,
	notifSvc *notification.Service,
	auditSvc *audit.Service,
) {
	api := examApi{
		examSvc:   examSvc,
		userSvc:   userSvc,
		schoolSvc: schoolSvc,
		notifSvc:  notifSvc,
		auditSvc:  auditSvc,
	}

	g.GET("/exams", api.query, jwt)
	g.POST("/exams", api.create, jwt, roleMiddleware(user.RoleAdmin))
	g.GET("/exams/hall-ticket", api.hallTicket, jwt)
}

// Handlers

func (api *examApi) query(ctx echo.Context) error {
	var filter exam.Filter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}

	exams, err := api.examSvc.Filter(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying exams")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"exams": exams})
}

func (api *examApi) create(ctx echo.Context) error {
	var data exam.NewExam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewExam")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	// seats go to the class roster in id order
	students, err := api.userSvc.QueryClassStudents(reqCtx, data.ClassID)
	if err != nil {
		return errors.Wrap(err, "querying class roster")
	}
	roster := make([]int, 0, len(students))
	for _, s := range students {
		roster = append(roster, s.ID)
	}
	sort.Ints(roster)

	e, err := api.examSvc.Create(reqCtx, data, claims.UserID, roster)
	if err != nil {
		return errors.Wrap(err, "creating exam")
	}

	roomNumber := "TBA"
	if data.RoomID > 0 {
		if room, err := api.schoolSvc.GetRoom(reqCtx, data.RoomID); err == nil {
			roomNumber = room.RoomNumber
		} else if errors.Cause(err) != school.ErrRoomNotFound {
			return errors.Wrap(err, "finding room")
		}
	}

	notifs := make([]notification.New, 0, len(roster))
	for i, studentID := range roster {
		notifs = append(notifs, notification.New{
			UserID:      studentID,
			Title:       fmt.Sprintf("Upcoming Exam: %s", data.Name),
			Message:     fmt.Sprintf("You have an exam on %s at %s. Room: %s. Seat: %d", data.ExamDate, data.StartTime, roomNumber, i+1),
			Type:        notification.TypeExam,
			RelatedID:   e.ID,
			RelatedType: "exam",
		})
	}
	api.notifSvc.NotifyBulk(reqCtx, notifs)

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "create_exam",
		EntityType: "exam",
		NewValues: echo.Map{
			"examId":   e.ID,
			"name":     data.Name,
			"classId":  data.ClassID,
			"examDate": data.ExamDate,
		},
		IPAddress: ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	})

	return ctx.JSON(http.StatusOK, echo.Map{"message": "Exam created successfully", "examId": e.ID})
}

func (api *examApi) hallTicket(ctx echo.Context) error {
	examID, _ := strconv.Atoi(ctx.QueryParam("examId"))
	studentID, _ := strconv.Atoi(ctx.QueryParam("studentId"))
	if examID == 0 || studentID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Exam ID and Student ID required")
	}

	reqCtx := ctx.Request().Context()

	student, err := api.userSvc.GetByID(reqCtx, studentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, exam.ErrHallTicketNotFound.Error())
		}
		return errors.Wrap(err, "finding student")
	}

	ticket, err := api.examSvc.HallTicket(reqCtx, examID, exam.HallTicketStudentInfo{
		Name:      student.Name,
		StudentID: student.StudentID,
	}, studentID)
	if err != nil {
		if errors.Cause(err) == exam.ErrHallTicketNotFound {
			return echo.NewHTTPError(http.StatusNotFound, exam.ErrHallTicketNotFound.Error())
		}
		return errors.Wrap(err, "composing hall ticket")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"hallTicket": ticket})
}
