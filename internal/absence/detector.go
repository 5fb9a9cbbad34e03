package absence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"SiteIntern-backend/internal/attendance"
	"SiteIntern-backend/internal/employees"
	"SiteIntern-backend/internal/platform/clock"
	"SiteIntern-backend/internal/platform/db"
	"SiteIntern-backend/internal/platform/logging"
	"SiteIntern-backend/internal/workcalendar"
)

const DateLayout = "2006-01-02"

type CalendarRepo interface {
	IsPublicHoliday(ctx context.Context, day string) (bool, error)
	ActiveSchedule(ctx context.Context) (*workcalendar.Schedule, error)
	HasRecoveryDayOff(ctx context.Context, day string, scope workcalendar.Scope) (bool, error)
}

type EmployeeRepo interface {
	ListClockRequired(ctx context.Context) ([]employees.Employee, error)
}

type AttendanceRepo interface {
	HasAnyOn(ctx context.Context, employeeID int64, date string) (bool, error)
	InsertAbsence(ctx context.Context, r *attendance.Record) (bool, error)
}

// Repos are the stores one run works through, all bound to the same transaction.
type Repos struct {
	Calendar   CalendarRepo
	Employees  EmployeeRepo
	Attendance AttendanceRepo
}

// Unit runs fn as one unit of work: committed when fn returns nil, rolled
// back otherwise.
type Unit func(ctx context.Context, fn func(ctx context.Context, r Repos) error) error

// SQLUnit wraps each run in a single database transaction.
func SQLUnit(conn *sql.DB) Unit {
	return func(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
		return db.RunInTx(ctx, conn, nil, func(ctx context.Context, tx db.DBTX) error {
			return fn(ctx, Repos{
				Calendar:   workcalendar.NewStore(tx),
				Employees:  employees.NewStore(tx),
				Attendance: attendance.NewStore(tx),
			})
		})
	}
}

type Outcome string

const (
	OutcomeHoliday       Outcome = "skipped_public_holiday"
	OutcomeNoSchedule    Outcome = "skipped_no_active_schedule"
	OutcomeNonWorkingDay Outcome = "skipped_non_working_day"
	OutcomeCompleted     Outcome = "completed"
)

// Summary describes one run.
type Summary struct {
	RunID        string  `json:"run_id"`
	TargetDate   string  `json:"target_date"`
	Outcome      Outcome `json:"outcome"`
	Employees    int     `json:"employees"`
	Exempted     int     `json:"exempted"`
	WithEvidence int     `json:"with_evidence"`
	Inserted     int     `json:"inserted"`
	Failed       int     `json:"failed"`
	DurationMS   int64   `json:"duration_ms"`
}

type Options struct {
	// Location defines "today" for RunYesterday and the backlog.
	Location   *time.Location
	RunTimeout time.Duration
	Note       string
}

// Detector marks clock-required employees absent on working days without
// any attendance evidence. It always works from the real clock.
type Detector struct {
	unit    Unit
	clock   clock.Clock
	loc     *time.Location
	timeout time.Duration
	note    string
	log     *slog.Logger

	running sync.Mutex
}

func New(unit Unit, c clock.Clock, opts Options, log *slog.Logger) *Detector {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Detector{
		unit:    unit,
		clock:   c,
		loc:     loc,
		timeout: opts.RunTimeout,
		note:    opts.Note,
		log:     logging.Component(log, "absence"),
	}
}

func NewDetector(conn *sql.DB, opts Options, log *slog.Logger) *Detector {
	return New(SQLUnit(conn), clock.Real(), opts, log)
}

// Today is the real calendar day in the detector's timezone, as a UTC date.
func (d *Detector) Today() time.Time {
	y, m, day := d.clock.Now().In(d.loc).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Yesterday is the day RunYesterday targets.
func (d *Detector) Yesterday() time.Time { return d.Today().AddDate(0, 0, -1) }

func (d *Detector) RunYesterday(ctx context.Context) (Summary, error) {
	return d.Run(ctx, d.Yesterday())
}

// RunBacklog runs the last lookback days (oldest first), each in its own
// unit of work. A failed day does not stop the following ones.
func (d *Detector) RunBacklog(ctx context.Context, lookback int) ([]Summary, error) {
	if lookback < 1 {
		lookback = 1
	}
	today := d.Today()
	var (
		out  []Summary
		errs []error
	)
	for i := lookback; i >= 1; i-- {
		day := today.AddDate(0, 0, -i)
		s, err := d.Run(ctx, day)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", day.Format(DateLayout), err))
			if errors.Is(err, ErrRunInProgress) || ctx.Err() != nil {
				break
			}
			continue
		}
		out = append(out, s)
	}
	return out, errors.Join(errs...)
}

// CheckTarget rejects days that have not ended yet in the detector's timezone.
func (d *Detector) CheckTarget(day time.Time) error {
	if !dateOnly(day).Before(d.Today()) {
		return ErrInvalid("date must be before today (" + d.Today().Format(DateLayout) + ")")
	}
	return nil
}

// Run performs detection for one calendar day.
func (d *Detector) Run(ctx context.Context, targetDate time.Time) (Summary, error) {
	if !d.running.TryLock() {
		return Summary{}, ErrRunInProgress
	}
	defer d.running.Unlock()

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	target := dateOnly(targetDate)
	sum := Summary{
		RunID:      ulid.Make().String(),
		TargetDate: target.Format(DateLayout),
	}
	log := d.log.With(logging.KeyRunID, sum.RunID, logging.KeyTargetDate, sum.TargetDate)
	started := d.clock.Now()

	err := d.unit(ctx, func(ctx context.Context, r Repos) error {
		return d.detect(ctx, r, target, &sum, log)
	})
	sum.DurationMS = d.clock.Now().Sub(started).Milliseconds()
	if err != nil {
		log.ErrorContext(ctx, "absence detection aborted", logging.KeyErr, err)
		return sum, err
	}

	log.InfoContext(ctx, "absence detection finished",
		"outcome", sum.Outcome,
		"employees", sum.Employees,
		"exempted", sum.Exempted,
		"with_evidence", sum.WithEvidence,
		"inserted", sum.Inserted,
		"failed", sum.Failed,
		"duration_ms", sum.DurationMS,
	)
	return sum, nil
}

func (d *Detector) detect(ctx context.Context, r Repos, target time.Time, sum *Summary, log *slog.Logger) error {
	day := sum.TargetDate

	holiday, err := r.Calendar.IsPublicHoliday(ctx, day)
	if err != nil {
		return fmt.Errorf("public holiday lookup: %w", err)
	}
	if holiday {
		sum.Outcome = OutcomeHoliday
		return nil
	}

	schedule, err := r.Calendar.ActiveSchedule(ctx)
	if err != nil {
		return fmt.Errorf("work schedule lookup: %w", err)
	}
	if schedule == nil {
		// 有効な勤務表なし → 稼働日とみなさない
		sum.Outcome = OutcomeNoSchedule
		return nil
	}
	if !schedule.IsWorkingDay(target) {
		sum.Outcome = OutcomeNonWorkingDay
		return nil
	}

	staff, err := r.Employees.ListClockRequired(ctx)
	if err != nil {
		return fmt.Errorf("employee lookup: %w", err)
	}
	sum.Employees = len(staff)
	sum.Outcome = OutcomeCompleted

	for _, e := range staff {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := d.checkEmployee(ctx, r, e, target, day)
		if err != nil {
			sum.Failed++
			log.WarnContext(ctx, "employee skipped after error", logging.KeyEmployeeID, e.ID, logging.KeyErr, err)
			continue
		}
		switch res {
		case resultExempted:
			sum.Exempted++
		case resultEvidence:
			sum.WithEvidence++
		case resultInserted:
			sum.Inserted++
			log.DebugContext(ctx, "absence recorded", logging.KeyEmployeeID, e.ID)
		}
	}
	return nil
}

type employeeResult int

const (
	resultExempted employeeResult = iota
	resultEvidence
	resultInserted
)

func (d *Detector) checkEmployee(ctx context.Context, r Repos, e employees.Employee, target time.Time, day string) (employeeResult, error) {
	scope := workcalendar.Scope{
		DepartmentID: e.DepartmentID,
		SegmentID:    e.SegmentID,
		WorkCenterID: e.WorkCenterID,
	}
	off, err := r.Calendar.HasRecoveryDayOff(ctx, day, scope)
	if err != nil {
		return 0, fmt.Errorf("recovery day lookup: %w", err)
	}
	if off {
		return resultExempted, nil
	}

	has, err := r.Attendance.HasAnyOn(ctx, e.ID, day)
	if err != nil {
		return 0, fmt.Errorf("attendance lookup: %w", err)
	}
	if has {
		return resultEvidence, nil
	}

	rec := attendance.Absence(e.ID, target, d.note)
	inserted, err := r.Attendance.InsertAbsence(ctx, &rec)
	if err != nil {
		return 0, fmt.Errorf("insert absence: %w", err)
	}
	if !inserted {
		// 同時に別の記録が入った
		return resultEvidence, nil
	}
	return resultInserted, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
