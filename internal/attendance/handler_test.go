package attendance_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/attendance"
)

func newRouter(svc *attendance.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	attendance.RegisterRoutes(r, svc)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CheckIn(t *testing.T) {
	svc, st := newService()
	st.On("LastClockEvent", mock.Anything, int64(7), "2026-02-01").Return(nil, nil)
	st.On("Insert", mock.Anything, mock.Anything).Return(nil)

	w := serve(newRouter(svc), http.MethodPost, "/attendance/check-in", `{"employee_id":7}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "check_in", body["status"])
	assert.Equal(t, "2026-02-01T08:30:00Z", body["clock_time"])
}

func TestHandler_CheckOutConflict(t *testing.T) {
	svc, st := newService()
	st.On("LastClockEvent", mock.Anything, int64(7), "2026-02-01").Return(nil, nil)

	w := serve(newRouter(svc), http.MethodPost, "/attendance/check-out", `{"employee_id":7}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"CONFLICT"`)
}

func TestHandler_CheckInBadBody(t *testing.T) {
	svc, _ := newService()
	w := serve(newRouter(svc), http.MethodPost, "/attendance/check-in", `{"employee_id":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Head(t *testing.T) {
	svc, st := newService()
	st.On("HasAnyOn", mock.Anything, int64(3), "2026-02-01").Return(true, nil).Once()
	st.On("HasAnyOn", mock.Anything, int64(4), "2026-02-01").Return(false, nil).Once()
	r := newRouter(svc)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodHead, "/attendance?employee_id=3", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodHead, "/attendance?employee_id=4&on=today", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodHead, "/attendance?employee_id=x", "").Code)
}

func TestHandler_ListFilters(t *testing.T) {
	svc, st := newService()
	st.On("List", mock.Anything, mock.MatchedBy(func(q attendance.ListQuery) bool {
		return q.EmployeeID != nil && *q.EmployeeID == 3 &&
			q.Status != nil && *q.Status == attendance.StatusAbsent &&
			q.AnomalyOnly && *q.On == "2026-02-01" && q.Limit == 10
	})).Return([]attendance.Record(nil), int64(0), nil)

	w := serve(newRouter(svc), http.MethodGet, "/attendance?employee_id=3&status=absent&anomaly_only=1&on=today&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, w.Body.String())
}

func TestHandler_StatsEmpty(t *testing.T) {
	svc, st := newService()
	st.On("Stats", mock.Anything, mock.Anything, mock.Anything, attendance.StatusAbsent, 10).
		Return([]attendance.StatsRow(nil), nil)

	w := serve(newRouter(svc), http.MethodGet, "/attendance/stats?from=2026-01-01&to=2026-01-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}
