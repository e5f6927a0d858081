package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/user"
)

func Test_bootstrapApi_init(t *testing.T) {
	env := setup(t)

	// unauthenticated, and safe to hit twice
	for i := 0; i < 2; i++ {
		req, rec := newRequest(http.MethodGet, "/api/init")
		env.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Message     string `json:"message"`
		Credentials map[string]struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"credentials"`
	}
	req, rec := newRequest(http.MethodGet, "/api/init")
	env.app.ServeHTTP(rec, req)
	unmarchallObj(t, rec, &resp)
	assert.Equal(t, "Database initialized successfully", resp.Message)

	// every advertised credential actually logs in
	for role, creds := range resp.Credentials {
		req, rec := newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, user.Credentials{
			Username: creds.Username,
			Password: creds.Password,
			Role:     role,
		}))
		env.app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "role %s: %s", role, rec.Body.String())
	}
}
