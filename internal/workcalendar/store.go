package workcalendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"SiteIntern-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

func (s *Store) IsPublicHoliday(ctx context.Context, day string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM public_holidays WHERE holiday_date = ? LIMIT 1`, day,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ActiveSchedule returns the active work schedule, or nil when none is active.
// If several are flagged active the most recent one wins.
func (s *Store) ActiveSchedule(ctx context.Context) (*Schedule, error) {
	var (
		sc   Schedule
		days string
	)
	err := s.db.QueryRowContext(ctx, `
	SELECT schedule_id, name, working_days
	FROM work_schedules
	WHERE is_active = 1
	ORDER BY schedule_id DESC
	LIMIT 1`).Scan(&sc.ID, &sc.Name, &days)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sc.WorkingDays, err = parseWorkingDays(days); err != nil {
		return nil, fmt.Errorf("schedule %d: %w", sc.ID, err)
	}
	return &sc, nil
}

// HasRecoveryDayOff: 対象日に、有効な回収期間に属する休日宣言がスコープ一致で存在するか
func (s *Store) HasRecoveryDayOff(ctx context.Context, day string, scope Scope) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1
	FROM recovery_declarations d
	JOIN recovery_periods p ON p.period_id = d.period_id
	WHERE d.declaration_date = ?
	  AND d.is_day_off = 1
	  AND d.is_active = 1
	  AND p.is_active = 1
	  AND (
	    d.applies_to_all = 1
	    OR d.department_id = ?
	    OR d.segment_id = ?
	    OR d.work_center_id = ?
	  )
	LIMIT 1`,
		day, int64OrNil(scope.DepartmentID), int64OrNil(scope.SegmentID), int64OrNil(scope.WorkCenterID),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) HolidaysBetween(ctx context.Context, from, to string) ([]Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT DATE_FORMAT(holiday_date, '%Y-%m-%d'), name
	FROM public_holidays
	WHERE holiday_date BETWEEN ? AND ?
	ORDER BY holiday_date ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// CompanyDaysOffBetween lists active recovery days off that apply to everyone.
func (s *Store) CompanyDaysOffBetween(ctx context.Context, from, to string) ([]DayOff, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT d.declaration_id, DATE_FORMAT(d.declaration_date, '%Y-%m-%d'), COALESCE(d.label, ''), p.name
	FROM recovery_declarations d
	JOIN recovery_periods p ON p.period_id = d.period_id
	WHERE d.declaration_date BETWEEN ? AND ?
	  AND d.is_day_off = 1
	  AND d.is_active = 1
	  AND p.is_active = 1
	  AND d.applies_to_all = 1
	ORDER BY d.declaration_date ASC, d.declaration_id ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayOff
	for rows.Next() {
		var d DayOff
		if err := rows.Scan(&d.DeclarationID, &d.Date, &d.Label, &d.PeriodName); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func int64OrNil(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
