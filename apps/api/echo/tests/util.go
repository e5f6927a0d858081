package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/shule/apps/api/echo"
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
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
	testutil "github.com/trezcool/shule/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app Server
	db  *sqlx.DB

	usrRepo    user.Repository
	schoolRepo school.Repository
	attRepo    attendance.Repository
	marksRepo  marks.Repository
	examRepo   exam.Repository
	notifRepo  notification.Repository
	auditRepo  audit.Repository

	notifSvc *notification.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	schoolRepo := sqlxrepos.NewSchoolRepository(db)
	attRepo := sqlxrepos.NewAttendanceRepository(db)
	marksRepo := sqlxrepos.NewMarksRepository(db)
	examRepo := sqlxrepos.NewExamRepository(db)
	analyticsRepo := sqlxrepos.NewAnalyticsRepository(db)
	notifRepo := sqlxrepos.NewNotificationRepository(db)
	auditRepo := sqlxrepos.NewAuditRepository(db)
	exportRepo := sqlxrepos.NewExportRepository(db)

	// set up services
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock()
	notifSvc := notification.NewService(notifRepo, mailSvc, logger)

	// set up server
	app := NewServer(&Options{
		DisableReqLogs:  true,
		DB:              db,
		Logger:          logger,
		UserSvc:         user.NewService(usrRepo),
		SchoolSvc:       school.NewService(schoolRepo),
		AttendanceSvc:   attendance.NewService(attRepo),
		MarksSvc:        marks.NewService(marksRepo),
		ExamSvc:         exam.NewService(examRepo),
		AnalyticsSvc:    analytics.NewService(analyticsRepo),
		NotificationSvc: notifSvc,
		AuditSvc:        audit.NewService(auditRepo, logger),
		ExportSvc:       export.NewService(exportRepo),
	})

	return &testEnv{
		app:        app,
		db:         db,
		usrRepo:    usrRepo,
		schoolRepo: schoolRepo,
		attRepo:    attRepo,
		marksRepo:  marksRepo,
		examRepo:   examRepo,
		notifRepo:  notifRepo,
		auditRepo:  auditRepo,
		notifSvc:   notifSvc,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func msg(m string) MessageResponse { return MessageResponse{Message: m} }

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchallObj(): %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

// checkCodeAndData compares the status code, and the body when wantData is
// set; tests with dynamic payloads check those separately.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
