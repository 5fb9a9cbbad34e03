package absence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"SiteIntern-backend/internal/platform/config"
	"SiteIntern-backend/internal/platform/logging"
)

// Scheduler fires the detector once a day at a fixed wall-clock time.
type Scheduler struct {
	cron     *cron.Cron
	entry    cron.EntryID
	det      *Detector
	lookback int
	log      *slog.Logger
}

// CronSpec converts "HH:MM" into a standard 5-field cron expression.
func CronSpec(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

func NewScheduler(det *Detector, cfg config.AbsenceConfig, log *slog.Logger) (*Scheduler, error) {
	hour, minute, err := cfg.FireHourMinute()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("absence.timezone: %w", err)
	}

	log = logging.Component(log, "absence-scheduler")
	cl := cronLogger{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		det:      det,
		lookback: cfg.LookbackDays,
		log:      log,
	}
	id, err := s.cron.AddFunc(CronSpec(hour, minute), s.fire)
	if err != nil {
		return nil, fmt.Errorf("schedule absence detection: %w", err)
	}
	s.entry = id
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("absence detection scheduled", "next", s.Next())
}

// Stop halts the trigger and returns a context done when a running job ends.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

func (s *Scheduler) Next() time.Time { return s.cron.Entry(s.entry).Next }

func (s *Scheduler) fire() {
	// 毎回「実時間の昨日」から遡る（仮想時計は使わない）
	sums, err := s.det.RunBacklog(context.Background(), s.lookback)
	inserted := 0
	for _, sm := range sums {
		inserted += sm.Inserted
	}
	if err != nil {
		s.log.Error("scheduled absence detection finished with errors",
			"days_ok", len(sums), "inserted", inserted, logging.KeyErr, err)
		return
	}
	s.log.Info("scheduled absence detection done", "days", len(sums), "inserted", inserted)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ log *slog.Logger }

func (l cronLogger) Info(msg string, kv ...any) { l.log.Debug(msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...any) {
	l.log.Error(msg, append(kv, logging.KeyErr, err)...)
}
