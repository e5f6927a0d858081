package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/shule/apps/api/echo"
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
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		&core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	userSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	attendanceSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	marksSvc := marks.NewService(sqlxrepos.NewMarksRepository(db))
	examSvc := exam.NewService(sqlxrepos.NewExamRepository(db))
	analyticsSvc := analytics.NewService(sqlxrepos.NewAnalyticsRepository(db))
	notifSvc := notification.NewService(sqlxrepos.NewNotificationRepository(db), mailSvc, logger)
	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(db), logger)
	exportSvc := export.NewService(sqlxrepos.NewExportRepository(db))

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(&echoapi.Options{
		Address:         core.Conf.Server.Host + ":" + core.Conf.Server.Port,
		DB:              db,
		Logger:          logger,
		UserSvc:         userSvc,
		SchoolSvc:       schoolSvc,
		AttendanceSvc:   attendanceSvc,
		MarksSvc:        marksSvc,
		ExamSvc:         examSvc,
		AnalyticsSvc:    analyticsSvc,
		NotificationSvc: notifSvc,
		AuditSvc:        auditSvc,
		ExportSvc:       exportSvc,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-server.Shutdown():
		logger.Error("integrity issue: shutting down")
	case sig := <-quit:
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
	}

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = server.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB() (*sqlx.DB, error) {
	db, err := database.Open(&core.Conf)
	if err != nil {
		return nil, err
	}
	if err = database.Ping(db); err != nil {
		return nil, err
	}
	if err = database.Migrate(db, &core.Conf); err != nil {
		return nil, err
	}
	if err = database.EnsureDefaultAdmin(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}
