package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shule/core/user"
)

type authApi struct {
	userSvc *user.Service
}

func registerAuthAPI(g *echo.Group, userSvc *user.Service) {
	api := authApi{userSvc: userSvc}

	g.POST("/auth/login", api.login)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if data.Username == "" || data.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.userSvc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrInvalidCredentials:
			return echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidCredentials.Error())
		case user.ErrRoleMismatch:
			return echo.NewHTTPError(http.StatusForbidden, user.ErrRoleMismatch.Error())
		case user.ErrInvalidEmployeeID:
			return echo.NewHTTPError(http.StatusUnauthorized, user.ErrInvalidEmployeeID.Error())
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: LoginUser{
			ID:         usr.ID,
			Username:   usr.Username,
			Role:       usr.Role,
			Name:       usr.Name,
			EmployeeID: usr.EmployeeID,
			StudentID:  usr.StudentID,
			ClassID:    usr.ClassID,
		},
	})
}

type (
	LoginResponse struct {
		Token string    `json:"token"`
		User  LoginUser `json:"user"`
	}

	LoginUser struct {
		ID         int         `json:"id"`
		Username   string      `json:"username"`
		Role       string      `json:"role"`
		Name       string      `json:"name"`
		EmployeeID null.String `json:"employee_id"`
		StudentID  null.String `json:"student_id"`
		ClassID    null.Int    `json:"class_id"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
