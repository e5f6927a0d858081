package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/notification"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

type notificationsResponse struct {
	Notifications []notification.Notification `json:"notifications"`
	Preferences   notification.Preferences    `json:"preferences"`
}

func Test_notificationApi_query(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, env.usrRepo, "Amy", "amy", "pwd123", user.RoleStudent)
	token := getToken(t, usr)

	query := func(t *testing.T, path string) notificationsResponse {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, token)
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp notificationsResponse
		unmarchallObj(t, rec, &resp)
		return resp
	}

	// first access creates the default preference row
	resp := query(t, "/api/notifications")
	assert.Empty(t, resp.Notifications)
	assert.True(t, resp.Preferences.EmailEnabled)
	assert.False(t, resp.Preferences.SMSEnabled)
	assert.True(t, resp.Preferences.AttendanceAlerts)
	require.NotZero(t, resp.Preferences.ID)
	prefsID := resp.Preferences.ID

	// subsequent accesses reuse the same row
	resp = query(t, "/api/notifications")
	assert.Equal(t, prefsID, resp.Preferences.ID)

	env.notifSvc.Notify(ctx, notification.New{
		UserID:  usr.ID,
		Title:   "Welcome",
		Message: "Welcome to Shule",
		Type:    notification.TypeGeneral,
	})
	env.notifSvc.Notify(ctx, notification.New{
		UserID:  usr.ID,
		Title:   "Reminder",
		Message: "Classes resume Monday",
		Type:    notification.TypeSystem,
	})

	resp = query(t, "/api/notifications")
	require.Len(t, resp.Notifications, 2)

	require.NoError(t, env.notifRepo.MarkRead(ctx, resp.Notifications[0].ID, usr.ID))
	assert.Len(t, query(t, "/api/notifications?unreadOnly=true").Notifications, 1)
}

func Test_notificationApi_act(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	amy := testutil.CreateUser(t, env.usrRepo, "Amy", "amy", "pwd123", user.RoleStudent)
	zed := testutil.CreateUser(t, env.usrRepo, "Zed", "zed", "pwd123", user.RoleStudent)

	env.notifSvc.Notify(ctx, notification.New{UserID: amy.ID, Title: "Hi", Message: "Hello Amy", Type: notification.TypeGeneral})
	notifs, err := env.notifRepo.QueryUserNotifications(ctx, amy.ID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	notifID := notifs[0].ID

	amyToken := getToken(t, amy)
	zedToken := getToken(t, zed)

	act := func(action string, notificationID int, prefs *notification.Preferences) []byte {
		return marchallObj(t, map[string]interface{}{
			"action":         action,
			"notificationId": notificationID,
			"preferences":    prefs,
		})
	}

	tests := []httpTest{
		{
			name: "invalid action", body: act("lol", 0, nil), token: amyToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid action"}),
		},
		{
			name: "mark-read without id", body: act("mark-read", 0, nil), token: amyToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid action"}),
		},
		// another user's notification is silently untouched
		{
			name: "mark-read not owned", body: act("mark-read", notifID, nil), token: zedToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Notification marked as read")),
		},
		{
			name: "mark-read", body: act("mark-read", notifID, nil), token: amyToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Notification marked as read")),
		},
		{
			name: "mark-all-read", body: act("mark-all-read", 0, nil), token: amyToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("All notifications marked as read")),
		},
		{
			name: "update-preferences without payload", body: act("update-preferences", 0, nil), token: amyToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid action"}),
		},
		{
			name: "update-preferences", token: amyToken,
			body:     act("update-preferences", 0, &notification.Preferences{EmailEnabled: false, PushEnabled: true, MarksAlerts: true}),
			wantCode: http.StatusOK, wantData: marchallObj(t, msg("Preferences updated")),
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/notifications", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			switch tt.name {
			case "mark-read not owned":
				notifs, err := env.notifRepo.QueryUserNotifications(ctx, amy.ID, true /* unreadOnly */)
				require.NoError(t, err)
				assert.Len(t, notifs, 1, "case %d: notification should still be unread", i)
			case "mark-read":
				notifs, err := env.notifRepo.QueryUserNotifications(ctx, amy.ID, true /* unreadOnly */)
				require.NoError(t, err)
				assert.Empty(t, notifs)
			}
		})
	}

	// the replaced row keeps only what was sent
	prefs, err := env.notifRepo.GetPreferences(ctx, amy.ID)
	require.NoError(t, err)
	assert.False(t, prefs.EmailEnabled)
	assert.True(t, prefs.PushEnabled)
	assert.True(t, prefs.MarksAlerts)
	assert.False(t, prefs.AttendanceAlerts)
}
