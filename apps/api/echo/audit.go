package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/user"
)

type auditApi struct {
	auditSvc *audit.Service
}

func registerAuditAPI(g *echo.Group, jwt echo.MiddlewareFunc, auditSvc *audit.Service) {
	api := auditApi{auditSvc: auditSvc}

	g.GET("/audit-logs", api.query, jwt, roleMiddleware(user.RoleAdmin))
}

// Handlers

func (api *auditApi) query(ctx echo.Context) error {
	var filter audit.Filter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}

	logs, err := api.auditSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying audit logs")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"logs": logs})
}
