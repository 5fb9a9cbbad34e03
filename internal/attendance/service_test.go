package attendance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/attendance"
	"SiteIntern-backend/internal/platform/logging"
)

type fixedClock struct{ now time.Time }

func (f *fixedClock) ResolveNow(context.Context) time.Time { return f.now }
func (f *fixedClock) ResolveDate(context.Context) string   { return f.now.Format(attendance.DateLayout) }

type mockStore struct{ mock.Mock }

func (m *mockStore) Insert(ctx context.Context, r *attendance.Record) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil {
		r.RecordID = 42
		r.RecordULID = "01JTEST"
	}
	return args.Error(0)
}

func (m *mockStore) LastClockEvent(ctx context.Context, employeeID int64, date string) (*attendance.Record, error) {
	args := m.Called(ctx, employeeID, date)
	r, _ := args.Get(0).(*attendance.Record)
	return r, args.Error(1)
}

func (m *mockStore) HasAnyOn(ctx context.Context, employeeID int64, date string) (bool, error) {
	args := m.Called(ctx, employeeID, date)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) List(ctx context.Context, q attendance.ListQuery) ([]attendance.Record, int64, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]attendance.Record)
	return rows, args.Get(1).(int64), args.Error(2)
}

func (m *mockStore) Stats(ctx context.Context, from, to time.Time, status attendance.Status, limit int) ([]attendance.StatsRow, error) {
	args := m.Called(ctx, from, to, status, limit)
	rows, _ := args.Get(0).([]attendance.StatsRow)
	return rows, args.Error(1)
}

// virtual "now": simulated date far from the host clock
var simulatedNow = time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC)

func newService() (*attendance.Service, *mockStore) {
	st := &mockStore{}
	return attendance.New(st, &fixedClock{now: simulatedNow}, logging.Discard()), st
}

func TestClockIn_UsesVirtualClock(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").Return(nil, nil)
	st.On("Insert", ctx, mock.MatchedBy(func(r *attendance.Record) bool {
		return r.EmployeeID == 7 &&
			r.AttendanceDate == "2026-02-01" &&
			r.ClockTime.Equal(simulatedNow) &&
			r.Status == attendance.StatusCheckIn &&
			r.Source == attendance.SourceDevice &&
			!r.IsAnomaly
	})).Return(nil)

	res, err := svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: 7})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.RecordID)
	assert.Equal(t, "2026-02-01", res.AttendanceDate)
	st.AssertExpectations(t)
}

func TestClockIn_AlreadyOpen(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").
		Return(&attendance.Record{Status: attendance.StatusCheckIn}, nil)

	_, err := svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: 7})
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeConflict, api.Code)
	st.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestClockIn_AfterCheckOutReopens(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").
		Return(&attendance.Record{Status: attendance.StatusCheckOut}, nil)
	st.On("Insert", ctx, mock.Anything).Return(nil)

	_, err := svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: 7})
	assert.NoError(t, err)
}

func TestClockOut_RequiresOpenCheckIn(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").Return(nil, nil)

	_, err := svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: 7})
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeConflict, api.Code)
}

func TestClockOut_ManualSource(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()
	src := "Manual"

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").
		Return(&attendance.Record{Status: attendance.StatusCheckIn}, nil)
	st.On("Insert", ctx, mock.MatchedBy(func(r *attendance.Record) bool {
		return r.Status == attendance.StatusCheckOut && r.Source == attendance.SourceManual
	})).Return(nil)

	res, err := svc.ClockOut(ctx, attendance.ClockRequest{EmployeeID: 7, Source: &src})
	require.NoError(t, err)
	assert.Equal(t, attendance.SourceManual, res.Source)
}

func TestClock_RejectsSystemSource(t *testing.T) {
	svc, st := newService()
	src := "system"

	_, err := svc.ClockIn(context.Background(), attendance.ClockRequest{EmployeeID: 7, Source: &src})
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeInvalidArgument, api.Code)
	st.AssertNotCalled(t, "LastClockEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestClock_StoreErrorPropagates(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()
	boom := errors.New("db down")

	st.On("LastClockEvent", ctx, int64(7), "2026-02-01").Return(nil, boom)

	_, err := svc.ClockIn(ctx, attendance.ClockRequest{EmployeeID: 7})
	assert.ErrorIs(t, err, boom)
}

func TestExists_TodayIsVirtual(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()

	st.On("HasAnyOn", ctx, int64(3), "2026-02-01").Return(true, nil)

	ok, err := svc.Exists(ctx, 3, "today")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExists_BadDate(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Exists(context.Background(), 3, "01/02/2026")
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeInvalidArgument, api.Code)
}

func TestList_NormalizesAndClamps(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()
	from, to := "today", "2026-02-10"

	st.On("List", ctx, mock.MatchedBy(func(q attendance.ListQuery) bool {
		return *q.From == "2026-02-01" && *q.To == "2026-02-10" &&
			q.Limit == attendance.MaxPageLimit && q.Sort == attendance.DefaultSort
	})).Return([]attendance.Record{{RecordID: 1, EmployeeID: 3, Status: attendance.StatusAbsent}}, int64(1), nil)

	res, err := svc.List(ctx, attendance.ListQuery{From: &from, To: &to, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, attendance.StatusAbsent, res.Items[0].Status)
}

func TestList_UnknownStatus(t *testing.T) {
	svc, _ := newService()
	st := attendance.Status("sleeping")
	_, err := svc.List(context.Background(), attendance.ListQuery{Status: &st})
	assert.Error(t, err)
}

func TestStats_DefaultsToAbsent(t *testing.T) {
	svc, st := newService()
	ctx := context.Background()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	st.On("Stats", ctx, from, to, attendance.StatusAbsent, 5).
		Return([]attendance.StatsRow{{EmployeeID: 3, Count: 4}}, nil)

	rows, err := svc.Stats(ctx, attendance.StatsRequest{From: "2026-01-01", To: "2026-01-31", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, []attendance.StatsRow{{EmployeeID: 3, Count: 4}}, rows)
}

func TestStats_InvertedRange(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Stats(context.Background(), attendance.StatsRequest{From: "2026-02-01", To: "2026-01-01"})
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeInvalidArgument, api.Code)
}
