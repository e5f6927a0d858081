package echoapi

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/storage/database"
)

type bootstrapApi struct {
	db *sqlx.DB
}

func registerBootstrapAPI(g *echo.Group, db *sqlx.DB) {
	api := bootstrapApi{db: db}

	// un-authed; seeding is idempotent
	g.GET("/init", api.init)
}

// Handlers

func (api *bootstrapApi) init(ctx echo.Context) error {
	if err := database.Seed(ctx.Request().Context(), api.db); err != nil {
		return errors.Wrap(err, "seeding database")
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"message": "Database initialized successfully",
		"credentials": echo.Map{
			"admin":   echo.Map{"username": "admin", "password": "admin123"},
			"teacher": echo.Map{"username": "teacher1", "password": "teacher123", "employeeId": "EMP001"},
			"student": echo.Map{"username": "stu001", "password": "student123"},
		},
	})
}
