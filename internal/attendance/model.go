package attendance

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusCheckIn  Status = "check_in"
	StatusCheckOut Status = "check_out"
	StatusAbsent   Status = "absent"
	StatusLate     Status = "late"
	StatusHalfDay  Status = "half_day"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCheckIn, StatusCheckOut, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

type Source string

const (
	SourceDevice Source = "device"
	SourceManual Source = "manual"
	SourceSystem Source = "system"
)

const AnomalyMissingRecord = "missing_record"

// DB行に対応（スキャン用）
type recordRow struct {
	RecordID       uint64
	RecordULID     string
	EmployeeID     int64
	AttendanceDate string // DATE → "YYYY-MM-DD"
	ClockTime      time.Time
	Status         string
	Source         string
	IsAnomaly      bool
	AnomalyType    sql.NullString
	Notes          sql.NullString
}

// Service ↔ Store で使うモデル
type Record struct {
	RecordID       uint64
	RecordULID     string
	EmployeeID     int64
	AttendanceDate string
	ClockTime      time.Time
	Status         Status
	Source         Source
	IsAnomaly      bool
	AnomalyType    *string
	Notes          *string
}

func (r recordRow) toModel() Record {
	return Record{
		RecordID:       r.RecordID,
		RecordULID:     r.RecordULID,
		EmployeeID:     r.EmployeeID,
		AttendanceDate: r.AttendanceDate,
		ClockTime:      r.ClockTime.UTC(),
		Status:         Status(r.Status),
		Source:         Source(r.Source),
		IsAnomaly:      r.IsAnomaly,
		AnomalyType:    nullToPtr(r.AnomalyType),
		Notes:          nullToPtr(r.Notes),
	}
}

func (a Record) toDTO() RecordResponse {
	return RecordResponse{
		RecordID:       a.RecordID,
		RecordULID:     a.RecordULID,
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.AttendanceDate,
		ClockTime:      a.ClockTime,
		Status:         a.Status,
		Source:         a.Source,
		IsAnomaly:      a.IsAnomaly,
		AnomalyType:    a.AnomalyType,
		Notes:          a.Notes,
	}
}

// Absence is the synthetic record the absence detector writes for a day
// without any attendance evidence.
func Absence(employeeID int64, day time.Time, note string) Record {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	anomaly := AnomalyMissingRecord
	return Record{
		EmployeeID:     employeeID,
		AttendanceDate: midnight.Format(DateLayout),
		ClockTime:      midnight,
		Status:         StatusAbsent,
		Source:         SourceSystem,
		IsAnomaly:      true,
		AnomalyType:    &anomaly,
		Notes:          &note,
	}
}

func nullToPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
