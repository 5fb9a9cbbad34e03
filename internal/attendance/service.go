package attendance

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"SiteIntern-backend/internal/platform/logging"
	"SiteIntern-backend/internal/sysclock"
)

// ===== Service =====

type RecordStore interface {
	Insert(ctx context.Context, r *Record) error
	LastClockEvent(ctx context.Context, employeeID int64, date string) (*Record, error)
	HasAnyOn(ctx context.Context, employeeID int64, date string) (bool, error)
	List(ctx context.Context, q ListQuery) ([]Record, int64, error)
	Stats(ctx context.Context, from, to time.Time, status Status, limit int) ([]StatsRow, error)
}

// Service handles interactive clocking. "Now" and "today" always come from
// the virtual clock so operators can simulate other dates.
type Service struct {
	store RecordStore
	now   sysclock.Resolver
	log   *slog.Logger
}

func NewService(db *sql.DB, now sysclock.Resolver, log *slog.Logger) *Service {
	return New(NewStore(db), now, log)
}

func New(store RecordStore, now sysclock.Resolver, log *slog.Logger) *Service {
	return &Service{store: store, now: now, log: logging.Component(log, "attendance")}
}

// POST /attendance/check-in
func (s *Service) ClockIn(ctx context.Context, in ClockRequest) (RecordResponse, error) {
	return s.clock(ctx, in, StatusCheckIn)
}

// POST /attendance/check-out
func (s *Service) ClockOut(ctx context.Context, in ClockRequest) (RecordResponse, error) {
	return s.clock(ctx, in, StatusCheckOut)
}

func (s *Service) clock(ctx context.Context, in ClockRequest, status Status) (RecordResponse, error) {
	if in.EmployeeID <= 0 {
		return RecordResponse{}, ErrInvalid("employee_id is required")
	}
	source := SourceDevice
	if in.Source != nil && *in.Source != "" {
		source = Source(strings.ToLower(strings.TrimSpace(*in.Source)))
	}
	if source != SourceDevice && source != SourceManual {
		return RecordResponse{}, ErrInvalid("source must be device or manual")
	}

	// 時刻と日付は同じ1回の解決結果から取る（日付跨ぎのずれ防止）
	now := s.now.ResolveNow(ctx).UTC()
	date := now.Format(DateLayout)

	last, err := s.store.LastClockEvent(ctx, in.EmployeeID, date)
	if err != nil {
		return RecordResponse{}, err
	}
	open := last != nil && last.Status == StatusCheckIn
	switch {
	case status == StatusCheckIn && open:
		return RecordResponse{}, ErrConflict("already checked in")
	case status == StatusCheckOut && !open:
		return RecordResponse{}, ErrConflict("no open check-in for today")
	}

	rec := Record{
		EmployeeID:     in.EmployeeID,
		AttendanceDate: date,
		ClockTime:      now,
		Status:         status,
		Source:         source,
		Notes:          in.Note,
	}
	if err := s.store.Insert(ctx, &rec); err != nil {
		return RecordResponse{}, err
	}
	s.log.InfoContext(ctx, "clock event recorded",
		logging.KeyEmployeeID, in.EmployeeID,
		"status", status,
		"attendance_date", date,
	)
	return rec.toDTO(), nil
}

// HEAD /attendance?employee_id=&on=
func (s *Service) Exists(ctx context.Context, employeeID int64, onStr string) (bool, error) {
	if employeeID <= 0 {
		return false, ErrInvalid("employee_id is required")
	}
	on, err := s.normalizeDate(ctx, onStr)
	if err != nil {
		return false, ErrInvalid("on must be YYYY-MM-DD or 'today'")
	}
	return s.store.HasAnyOn(ctx, employeeID, on)
}

// GET /attendance
func (s *Service) List(ctx context.Context, q ListQuery) (ListResponse, error) {
	if q.Sort == "" {
		q.Sort = DefaultSort
	}
	if q.Limit <= 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Status != nil && !q.Status.Valid() {
		return ListResponse{}, ErrInvalid("unknown status")
	}
	for name, p := range map[string]*string{"on": q.On, "from": q.From, "to": q.To} {
		if p == nil || *p == "" {
			continue
		}
		n, err := s.normalizeDate(ctx, *p)
		if err != nil {
			return ListResponse{}, ErrInvalid(name + " must be YYYY-MM-DD or 'today'")
		}
		*p = n
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return ListResponse{}, err
	}
	out := make([]RecordResponse, 0, len(rows))
	for i := 0; i < len(rows); i++ {
		out = append(out, rows[i].toDTO())
	}
	return ListResponse{Items: out, Total: total}, nil
}

// GET /attendance/stats
func (s *Service) Stats(ctx context.Context, req StatsRequest) ([]StatsRow, error) {
	from, err := time.ParseInLocation(DateLayout, req.From, time.UTC)
	if err != nil {
		return nil, ErrInvalid("from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(DateLayout, req.To, time.UTC)
	if err != nil {
		return nil, ErrInvalid("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, ErrInvalid("to must be >= from")
	}
	status := req.Status
	if status == "" {
		status = StatusAbsent
	}
	if !status.Valid() {
		return nil, ErrInvalid("unknown status")
	}
	return s.store.Stats(ctx, from, to, status, req.Limit)
}

// Today is the virtual-clock calendar day (YYYY-MM-DD).
func (s *Service) Today(ctx context.Context) string { return s.now.ResolveDate(ctx) }

// normalizeDate: "today" は仮想時計の日付に置き換える
func (s *Service) normalizeDate(ctx context.Context, v string) (string, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "today" {
		return s.Today(ctx), nil
	}
	if _, err := time.ParseInLocation(DateLayout, v, time.UTC); err != nil {
		return "", err
	}
	return v, nil
}
