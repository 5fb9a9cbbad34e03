package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/absence"
	"SiteIntern-backend/internal/attendance"
	"SiteIntern-backend/internal/platform/auth"
	"SiteIntern-backend/internal/platform/config"
	"SiteIntern-backend/internal/platform/logging"
	"SiteIntern-backend/internal/sysclock"
	"SiteIntern-backend/internal/workcalendar"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock, []byte) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	secret := []byte("test-secret")
	log := logging.Discard()
	clockSvc := sysclock.NewService(conn, log)
	cfg := &config.Config{Mode: config.ModeRelease}

	r := newRouter(cfg, routerDeps{
		secret:     secret,
		auth:       auth.NewService(conn, secret, time.Hour),
		clock:      clockSvc,
		attendance: attendance.NewService(conn, clockSvc, log),
		detector:   absence.NewDetector(conn, absence.Options{}, log),
		calendar:   workcalendar.NewFeed(conn, log),
	})
	return r, mock, secret
}

func bearer(t *testing.T, secret []byte, role string) string {
	t.Helper()
	tok, err := auth.IssueToken(secret, "op-1", role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := call(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Gating(t *testing.T) {
	r, _, secret := newTestRouter(t)
	employee := bearer(t, secret, auth.RoleEmployee)

	cases := []struct {
		name, method, path, token string
		want                      int
	}{
		{"clock read needs a token", http.MethodGet, "/api/v2/system-clock", "", http.StatusUnauthorized},
		{"clock write is admin only", http.MethodPut, "/api/v2/system-clock", employee, http.StatusForbidden},
		{"clock reset is admin only", http.MethodPost, "/api/v2/system-clock/reset", employee, http.StatusForbidden},
		{"manual detection is admin only", http.MethodPost, "/api/v2/absence-detection/run", employee, http.StatusForbidden},
		{"register is admin only", http.MethodPost, "/api/v2/register", employee, http.StatusForbidden},
		{"attendance needs a token", http.MethodPost, "/api/v2/attendance/check-in", "", http.StatusUnauthorized},
		{"calendar is public", http.MethodGet, "/api/v2/calendar/days-off.ics?from=bad", "", http.StatusBadRequest},
		{"swagger only in dev", http.MethodGet, "/swagger/index.html", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := call(r, tc.method, tc.path, tc.token, "{}")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRouter_ClockReadForAnyRole(t *testing.T) {
	r, mock, secret := newTestRouter(t)
	mock.ExpectQuery("FROM system_settings").
		WillReturnRows(sqlmock.NewRows([]string{"setting_key", "setting_value", "updated_at", "updated_by"}))

	w := call(r, http.MethodGet, "/api/v2/system-clock", bearer(t, secret, auth.RoleEmployee), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enabled":false`)
}
