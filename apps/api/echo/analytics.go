package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/user"
)

type analyticsApi struct {
	analyticsSvc *analytics.Service
}

func registerAnalyticsAPI(g *echo.Group, jwt echo.MiddlewareFunc, analyticsSvc *analytics.Service) {
	api := analyticsApi{analyticsSvc: analyticsSvc}

	g.GET("/analytics/attendance-stats", api.attendanceStats, jwt)
	g.POST("/analytics/compare-classes", api.compareClasses, jwt, roleMiddleware(user.RoleAdmin))
}

// Handlers

func (api *analyticsApi) attendanceStats(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	switch ctx.QueryParam("type") {
	case "student":
		studentID, _ := strconv.Atoi(ctx.QueryParam("studentId"))
		if studentID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Student ID required")
		}
		stats, err := api.analyticsSvc.StudentStats(reqCtx, studentID, ctx.QueryParam("startDate"), ctx.QueryParam("endDate"))
		if err != nil {
			return errors.Wrap(err, "querying student stats")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"stats": stats})

	case "class":
		classID, _ := strconv.Atoi(ctx.QueryParam("classId"))
		if classID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Class ID required")
		}
		perf, err := api.analyticsSvc.ClassPerformance(reqCtx, classID)
		if err != nil {
			return errors.Wrap(err, "querying class performance")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"performance": perf})

	case "trend":
		classID, _ := strconv.Atoi(ctx.QueryParam("classId"))
		if classID == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Class ID required")
		}
		days, _ := strconv.Atoi(ctx.QueryParam("days"))
		if days <= 0 {
			days = 30
		}
		trend, err := api.analyticsSvc.AttendanceTrend(reqCtx, classID, days)
		if err != nil {
			return errors.Wrap(err, "querying attendance trend")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"trend": trend})

	case "at-risk":
		threshold, _ := strconv.Atoi(ctx.QueryParam("threshold"))
		if threshold <= 0 {
			threshold = 75
		}
		students, err := api.analyticsSvc.AtRiskStudents(reqCtx, float64(threshold))
		if err != nil {
			return errors.Wrap(err, "querying at-risk students")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"students": students})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid type")
}

func (api *analyticsApi) compareClasses(ctx echo.Context) error {
	var data struct {
		ClassIDs []int `json:"classIds"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding compare request")
	}
	if len(data.ClassIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Class IDs array required")
	}

	comparison, err := api.analyticsSvc.CompareClasses(ctx.Request().Context(), data.ClassIDs)
	if err != nil {
		return errors.Wrap(err, "comparing classes")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"comparison": comparison})
}
