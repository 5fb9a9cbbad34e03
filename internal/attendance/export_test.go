package attendance_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/attendance"
)

func exportRows() []attendance.Record {
	note := "Aïd"
	anomaly := attendance.AnomalyMissingRecord
	return []attendance.Record{
		{
			RecordULID: "01JA", EmployeeID: 3, AttendanceDate: "2026-01-16",
			ClockTime: time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
			Status:    attendance.StatusAbsent, Source: attendance.SourceSystem,
			IsAnomaly: true, AnomalyType: &anomaly, Notes: &note,
		},
	}
}

func TestExport_UTF8(t *testing.T) {
	svc, st := newService()
	st.On("List", mock.Anything, mock.MatchedBy(func(q attendance.ListQuery) bool {
		return q.Sort == attendance.SortDateAsc && q.Limit == attendance.MaxPageLimit && q.Offset == 0
	})).Return(exportRows(), int64(1), nil)

	body, err := svc.Export(context.Background(), attendance.ListQuery{}, "")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "record_ulid,employee_id,attendance_date,clock_time,status,source,is_anomaly,anomaly_type,notes", lines[0])
	assert.Equal(t, "01JA,3,2026-01-16,2026-01-16T00:00:00Z,absent,system,true,missing_record,Aïd", lines[1])
}

func TestExport_Windows1252(t *testing.T) {
	svc, st := newService()
	rows := exportRows()
	arabic := "غياب"
	rows = append(rows, rows[0])
	rows[1].Notes = &arabic
	st.On("List", mock.Anything, mock.Anything).Return(rows, int64(2), nil)

	body, err := svc.Export(context.Background(), attendance.ListQuery{}, "Windows-1252")
	require.NoError(t, err)

	assert.Contains(t, string(body), "A\xefd")           // ï as a single 1252 byte
	assert.Contains(t, string(body), "\x1a\x1a\x1a\x1a") // unsupported runes substituted
}

func TestExport_UnknownCharset(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Export(context.Background(), attendance.ListQuery{}, "shift_jis")
	var api *attendance.APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, attendance.CodeInvalidArgument, api.Code)
}
