package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/user"
)

type studentApi struct {
	attendanceSvc *attendance.Service
	marksSvc      *marks.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, attendanceSvc *attendance.Service, marksSvc *marks.Service) {
	api := studentApi{attendanceSvc: attendanceSvc, marksSvc: marksSvc}

	sg := g.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	sg.GET("/attendance", api.queryAttendance)
	sg.GET("/marks", api.queryMarks)
}

// Handlers

func (api *studentApi) queryAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	records, err := api.attendanceSvc.StudentHistory(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"attendance": records})
}

func (api *studentApi) queryMarks(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	records, err := api.marksSvc.StudentHistory(ctx.Request().Context(), claims.UserID)
	if err != nil {
		return errors.Wrap(err, "querying marks")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"marks": records})
}
