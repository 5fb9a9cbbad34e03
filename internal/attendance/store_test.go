package attendance_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/attendance"
)

var recordCols = []string{
	"record_id", "record_ulid", "employee_id", "attendance_date", "clock_time",
	"status", "source", "is_anomaly", "anomaly_type", "notes",
}

func TestStore_InsertAbsence(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	day := time.Date(2026, 1, 16, 15, 0, 0, 0, time.UTC)
	rec := attendance.Absence(9, day, "auto")

	mock.ExpectExec("WHERE NOT EXISTS").
		WithArgs(sqlmock.AnyArg(), int64(9), "2026-01-16", time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
			"absent", "system", true, "missing_record", "auto", int64(9), "2026-01-16").
		WillReturnResult(sqlmock.NewResult(11, 1))

	ok, err := attendance.NewStore(conn).InsertAbsence(context.Background(), &rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(11), rec.RecordID)
	assert.NotEmpty(t, rec.RecordULID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InsertAbsenceAlreadyPresent(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	rec := attendance.Absence(9, time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), "auto")
	mock.ExpectExec("WHERE NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := attendance.NewStore(conn).InsertAbsence(context.Background(), &rec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_HasAnyOn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	st := attendance.NewStore(conn)

	mock.ExpectQuery("SELECT 1 FROM attendance_records").
		WithArgs(int64(9), "2026-01-16").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM attendance_records").
		WithArgs(int64(9), "2026-01-17").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := st.HasAnyOn(context.Background(), 9, "2026-01-16")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.HasAnyOn(context.Background(), 9, "2026-01-17")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_LastClockEventNone(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(regexp.QuoteMeta("status IN ('check_in', 'check_out')")).
		WillReturnRows(sqlmock.NewRows(recordCols))

	r, err := attendance.NewStore(conn).LastClockEvent(context.Background(), 9, "2026-01-16")
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestStore_ListWithCount(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	at := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	emp := int64(9)
	st := attendance.StatusAbsent

	mock.ExpectQuery(regexp.QuoteMeta("WHERE employee_id = ? AND status = ? AND is_anomaly = 1 ORDER BY attendance_date DESC")).
		WithArgs(emp, "absent").
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(1, "01JA", 9, "2026-01-16", at, "absent", "system", true, "missing_record", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE employee_id = ?")).
		WithArgs(emp, "absent").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := attendance.NewStore(conn).List(context.Background(), attendance.ListQuery{
		EmployeeID:  &emp,
		Status:      &st,
		AnomalyOnly: true,
		Sort:        attendance.SortDateDesc,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-01-16", rows[0].AttendanceDate)
	require.NotNil(t, rows[0].AnomalyType)
	assert.Equal(t, attendance.AnomalyMissingRecord, *rows[0].AnomalyType)
	assert.Nil(t, rows[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
