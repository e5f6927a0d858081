package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/audit"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func Test_auditApi_query(t *testing.T) {
	env := setup(t)

	admin := testutil.CreateUser(t, env.usrRepo, "Admin", "admin1", "admin123", user.RoleAdmin)
	student := testutil.CreateStudent(t, env.usrRepo, "Amy", "amy", "STU001", 0)

	adminToken := getToken(t, admin)

	// generate some trail: two subjects and a room
	for _, body := range [][]byte{
		marchallObj(t, school.NewSubject{Name: "Math", Code: "MTH"}),
		marchallObj(t, school.NewSubject{Name: "Science", Code: "SCI"}),
	} {
		req, rec := newAuthRequest(http.MethodPost, "/api/subjects", adminToken, body)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	req, rec := newAuthRequest(http.MethodPost, "/api/rooms", adminToken, marchallObj(t, school.NewRoom{RoomNumber: "R101"}))
	env.app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tests := []httpTest{
		{name: "auth required", path: "/api/audit-logs", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/api/audit-logs", token: getToken(t, student),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "Unauthorized"}),
		},
		{name: "ok", path: "/api/audit-logs", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	query := func(t *testing.T, path string) []audit.Entry {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, adminToken)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Logs []audit.Entry `json:"logs"`
		}
		unmarchallObj(t, rec, &resp)
		return resp.Logs
	}

	t.Run("trail", func(t *testing.T) {
		logs := query(t, "/api/audit-logs")
		require.Len(t, logs, 3)

		byAction := make(map[string]int, len(logs))
		for _, l := range logs {
			byAction[l.Action]++
			assert.Equal(t, admin.ID, l.UserID.Int)
		}
		assert.Equal(t, 2, byAction["create_subject"])
		assert.Equal(t, 1, byAction["create_room"])
	})

	t.Run("filters", func(t *testing.T) {
		assert.Len(t, query(t, "/api/audit-logs?entityType=subject"), 2)
		assert.Len(t, query(t, "/api/audit-logs?entityType=room"), 1)
		assert.Len(t, query(t, "/api/audit-logs?entityType=nope"), 0)
		assert.Len(t, query(t, "/api/audit-logs?limit=1"), 1)
	})
}
