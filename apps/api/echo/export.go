package echoapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/export"
)

type exportApi struct {
	exportSvc *export.Service
}

func registerExportAPI(g *echo.Group, jwt echo.MiddlewareFunc, exportSvc *export.Service) {
	api := exportApi{exportSvc: exportSvc}

	g.GET("/export", api.export, jwt)
}

// Handlers

func (api *exportApi) export(ctx echo.Context) error {
	format := ctx.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	classID, _ := strconv.Atoi(ctx.QueryParam("classId"))

	reqCtx := ctx.Request().Context()

	var data, filename string

	switch ctx.QueryParam("type") {
	case "attendance":
		if format != "csv" {
			return echo.NewHTTPError(http.StatusBadRequest, "Only CSV format supported for attendance")
		}
		csv, err := api.exportSvc.AttendanceCSV(reqCtx, export.AttendanceFilter{
			ClassID:   classID,
			StartDate: ctx.QueryParam("startDate"),
			EndDate:   ctx.QueryParam("endDate"),
		})
		if err != nil {
			return errors.Wrap(err, "exporting attendance")
		}
		data = csv
		filename = fmt.Sprintf("attendance_%d.csv", time.Now().UnixMilli())

	case "marks":
		if format != "csv" {
			return echo.NewHTTPError(http.StatusBadRequest, "Only CSV format supported for marks")
		}
		csv, err := api.exportSvc.MarksCSV(reqCtx, export.MarksFilter{
			ClassID: classID,
			Subject: ctx.QueryParam("subject"),
		})
		if err != nil {
			return errors.Wrap(err, "exporting marks")
		}
		data = csv
		filename = fmt.Sprintf("marks_%d.csv", time.Now().UnixMilli())

	default:
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid export type")
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Blob(http.StatusOK, "text/csv", []byte(data))
}
