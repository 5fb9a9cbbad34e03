package attendance

import "time"

const (
	SortClockTimeDesc = "clock_time_desc"
	SortClockTimeAsc  = "clock_time_asc"
	SortDateDesc      = "attendance_date_desc"
	SortDateAsc       = "attendance_date_asc"
	DefaultPageLimit  = 50
	MaxPageLimit      = 200
	DefaultSort       = SortClockTimeDesc
	DateLayout        = "2006-01-02"
)

// POST /attendance/check-in, /attendance/check-out
type ClockRequest struct {
	EmployeeID int64   `json:"employee_id" binding:"required,gt=0"`
	Source     *string `json:"source,omitempty"` // device | manual（未指定なら device）
	Note       *string `json:"note,omitempty"`
}

type RecordResponse struct {
	RecordID       uint64    `json:"record_id"`
	RecordULID     string    `json:"record_ulid"`
	EmployeeID     int64     `json:"employee_id"`
	AttendanceDate string    `json:"attendance_date"` // YYYY-MM-DD
	ClockTime      time.Time `json:"clock_time"`
	Status         Status    `json:"status"`
	Source         Source    `json:"source"`
	IsAnomaly      bool      `json:"is_anomaly"`
	AnomalyType    *string   `json:"anomaly_type,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
}

type ListQuery struct {
	EmployeeID  *int64
	On          *string // YYYY-MM-DD or "today"
	From        *string
	To          *string
	Status      *Status
	AnomalyOnly bool
	Limit       int
	Offset      int
	Sort        string
}

type ListResponse struct {
	Items []RecordResponse `json:"items"`
	Total int64            `json:"total"`
}

type StatsRequest struct {
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
	Status Status
	Limit  int
}

type StatsRow struct {
	EmployeeID int64 `json:"employee_id"`
	Count      int64 `json:"count"`
}
