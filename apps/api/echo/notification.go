package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/notification"
)

type notificationApi struct {
	notifSvc *notification.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, notifSvc *notification.Service) {
	api := notificationApi{notifSvc: notifSvc}

	g.GET("/notifications", api.query, jwt)
	g.POST("/notifications", api.act, jwt)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()
	unreadOnly := ctx.QueryParam("unreadOnly") == "true"

	notifications, err := api.notifSvc.ListForUser(reqCtx, claims.UserID, unreadOnly)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	preferences, err := api.notifSvc.Preferences(reqCtx, claims.UserID)
	if err != nil {
		return errors.Wrap(err, "querying notification preferences")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"notifications": notifications, "preferences": preferences})
}

func (api *notificationApi) act(ctx echo.Context) error {
	var data struct {
		Action         string                    `json:"action"`
		NotificationID int                       `json:"notificationId"`
		Preferences    *notification.Preferences `json:"preferences"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding notification action")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	reqCtx := ctx.Request().Context()

	switch {
	case data.Action == "mark-read" && data.NotificationID > 0:
		if err := api.notifSvc.MarkRead(reqCtx, data.NotificationID, claims.UserID); err != nil {
			return errors.Wrap(err, "marking notification read")
		}
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "Notification marked as read"})

	case data.Action == "mark-all-read":
		if err := api.notifSvc.MarkAllRead(reqCtx, claims.UserID); err != nil {
			return errors.Wrap(err, "marking notifications read")
		}
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "All notifications marked as read"})

	case data.Action == "update-preferences" && data.Preferences != nil:
		if err := api.notifSvc.UpdatePreferences(reqCtx, claims.UserID, *data.Preferences); err != nil {
			return errors.Wrap(err, "updating notification preferences")
		}
		return ctx.JSON(http.StatusOK, MessageResponse{Message: "Preferences updated"})
	}
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid action")
}
