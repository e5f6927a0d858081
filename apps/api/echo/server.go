package echoapi

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/analytics"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/exam"
	"github.com/trezcool/shule/core/export"
	"github.com/trezcool/shule/core/marks"
	"github.com/trezcool/shule/core/notification"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		DB     *sqlx.DB
		Logger core.Logger

		UserSvc         *user.Service
		SchoolSvc       *school.Service
		AttendanceSvc   *attendance.Service
		MarksSvc        *marks.Service
		ExamSvc         *exam.Service
		AnalyticsSvc    *analytics.Service
		NotificationSvc *notification.Service
		AuditSvc        *audit.Service
		ExportSvc       *export.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
		// Shutdown signals a fatal, non-recoverable server state.
		Shutdown() <-chan struct{}
	}

	server struct {
		opts *Options
		app  *echo.Echo

		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerBootstrapAPI(api, s.opts.DB)
	registerAuthAPI(api, s.opts.UserSvc)
	registerAdminAPI(api, jwt, s.opts.UserSvc, s.opts.SchoolSvc, s.opts.AttendanceSvc, s.opts.AnalyticsSvc)
	registerTeacherAPI(api, jwt, s.opts.UserSvc, s.opts.SchoolSvc, s.opts.AttendanceSvc, s.opts.MarksSvc, s.opts.AnalyticsSvc)
	registerStudentAPI(api, jwt, s.opts.AttendanceSvc, s.opts.MarksSvc)
	registerSchoolAPI(api, jwt, s.opts.SchoolSvc, s.opts.AuditSvc)
	registerExamAPI(api, jwt, s.opts.ExamSvc, s.opts.UserSvc, s.opts.SchoolSvc, s.opts.NotificationSvc, s.opts.AuditSvc)
	registerBulkAPI(api, jwt, s.opts.UserSvc, s.opts.AttendanceSvc, s.opts.MarksSvc, s.opts.NotificationSvc, s.opts.AuditSvc)
	registerNotificationAPI(api, jwt, s.opts.NotificationSvc)
	registerAuditAPI(api, jwt, s.opts.AuditSvc)
	registerAnalyticsAPI(api, jwt, s.opts.AnalyticsSvc)
	registerExportAPI(api, jwt, s.opts.ExportSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) Shutdown() <-chan struct{} { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Shule API!")
}
