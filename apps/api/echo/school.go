package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

type schoolApi struct {
	schoolSvc *school.Service
	auditSvc  *audit.Service
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, schoolSvc *school.Service, auditSvc *audit.Service) {
	api := schoolApi{schoolSvc: schoolSvc, auditSvc: auditSvc}

	admin := roleMiddleware(user.RoleAdmin)

	g.GET("/subjects", api.querySubjects, jwt)
	g.POST("/subjects", api.createSubject, jwt, admin)
	g.GET("/rooms", api.queryRooms, jwt)
	g.POST("/rooms", api.createRoom, jwt, admin)
	g.GET("/timetables", api.queryTimetables, jwt)
	g.POST("/timetables", api.createTimetable, jwt, admin)
	g.DELETE("/timetables", api.deleteTimetable, jwt, admin)
}

// Handlers

func (api *schoolApi) querySubjects(ctx echo.Context) error {
	subjects, err := api.schoolSvc.QuerySubjects(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying subjects")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"subjects": subjects})
}

func (api *schoolApi) createSubject(ctx echo.Context) error {
	var data school.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if data.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Subject name required")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if _, err := api.schoolSvc.CreateSubject(reqCtx, data); err != nil {
		return errors.Wrap(err, "creating subject")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "create_subject",
		EntityType: "subject",
		NewValues:  echo.Map{"name": data.Name, "code": data.Code},
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Subject created successfully"})
}

func (api *schoolApi) queryRooms(ctx echo.Context) error {
	rooms, err := api.schoolSvc.QueryRooms(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

func (api *schoolApi) createRoom(ctx echo.Context) error {
	var data school.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	if data.RoomNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Room number required")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if _, err := api.schoolSvc.CreateRoom(reqCtx, data); err != nil {
		return errors.Wrap(err, "creating room")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "create_room",
		EntityType: "room",
		NewValues:  echo.Map{"roomNumber": data.RoomNumber, "roomType": data.RoomType, "capacity": data.Capacity},
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Room created successfully"})
}

func (api *schoolApi) queryTimetables(ctx echo.Context) error {
	var filter school.TimetableFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to TimetableFilter")
	}

	timetables, err := api.schoolSvc.FilterTimetables(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying timetables")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"timetables": timetables})
}

func (api *schoolApi) createTimetable(ctx echo.Context) error {
	var data school.NewTimetable
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTimetable")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if _, err := api.schoolSvc.CreateTimetable(reqCtx, data); err != nil {
		if errors.Cause(err) == school.ErrSlotConflict {
			return echo.NewHTTPError(http.StatusBadRequest, school.ErrSlotConflict.Error())
		}
		return errors.Wrap(err, "creating timetable")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "create_timetable",
		EntityType: "timetable",
		NewValues: echo.Map{
			"classId":   data.ClassID,
			"subjectId": data.SubjectID,
			"teacherId": data.TeacherID,
			"dayOfWeek": data.DayOfWeek,
		},
		IPAddress: ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	})
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Timetable entry created successfully"})
}

func (api *schoolApi) deleteTimetable(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.QueryParam("id"))
	if id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Timetable ID required")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	if err := api.schoolSvc.DeleteTimetable(reqCtx, id); err != nil {
		return errors.Wrap(err, "deleting timetable")
	}

	api.auditSvc.Record(reqCtx, audit.Event{
		UserID:     claims.UserID,
		Action:     "delete_timetable",
		EntityType: "timetable",
		EntityID:   id,
		IPAddress:  ctx.RealIP(),
		UserAgent:  ctx.Request().UserAgent(),
	})
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Timetable entry deleted successfully"})
}
