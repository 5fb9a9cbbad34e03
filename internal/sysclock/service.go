package sysclock

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"SiteIntern-backend/internal/platform/clock"
	"SiteIntern-backend/internal/platform/logging"
	"SiteIntern-backend/internal/settings"
)

type SettingsStore interface {
	Get(ctx context.Context, key string) (*settings.Setting, error)
	Upsert(ctx context.Context, key string, value json.RawMessage, updatedAt time.Time, updatedBy string) error
}

// Resolver is what attendance code depends on to learn "now".
type Resolver interface {
	ResolveNow(ctx context.Context) time.Time
	ResolveDate(ctx context.Context) string
}

// Service is the operator-adjustable virtual clock. Every call reads the
// settings row; nothing is cached, so a change is visible to the next request.
type Service struct {
	store SettingsStore
	clock clock.Clock
	log   *slog.Logger
}

func NewService(db *sql.DB, log *slog.Logger) *Service {
	return New(settings.NewStore(db), clock.Real(), log)
}

func New(store SettingsStore, c clock.Clock, log *slog.Logger) *Service {
	return &Service{store: store, clock: c, log: logging.Component(log, "sysclock")}
}

// ResolveNow returns the system "now": real time shifted by the configured
// offset. A store failure degrades to real time and is only logged.
func (s *Service) ResolveNow(ctx context.Context) time.Time {
	realNow := s.clock.Now()
	cfg, err := s.load(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "system clock unreadable, falling back to real time", logging.KeyErr, err)
		return realNow.UTC()
	}
	return cfg.Apply(realNow)
}

// ResolveDate is ResolveNow truncated to its UTC calendar day (YYYY-MM-DD).
func (s *Service) ResolveDate(ctx context.Context) string {
	return s.ResolveNow(ctx).UTC().Format(DateLayout)
}

func (s *Service) GetConfiguration(ctx context.Context) (View, error) {
	cfg, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	return newView(cfg, s.clock.Now()), nil
}

// SetConfiguration re-anchors the reference instant to the real time of the
// write and persists both instants in a single upsert. Disabling clears both.
func (s *Service) SetConfiguration(ctx context.Context, enabled bool, customDatetime *string, actingUser string) (View, error) {
	realNow := s.clock.Now().UTC().Truncate(time.Millisecond)

	cfg := Configuration{Enabled: enabled, UpdatedAt: &realNow}
	if actingUser != "" {
		cfg.UpdatedBy = &actingUser
	}

	if enabled {
		if customDatetime == nil || strings.TrimSpace(*customDatetime) == "" {
			return View{}, ErrCustomDatetimeRequired
		}
		custom, err := ParseNaiveUTC(*customDatetime)
		if err != nil {
			return View{}, ErrInvalid(err.Error())
		}
		custom = custom.Truncate(time.Millisecond)
		cfg.Custom = &custom
		cfg.Reference = &realNow
	}

	raw, err := encodeConfiguration(cfg)
	if err != nil {
		return View{}, err
	}
	if err := s.store.Upsert(ctx, SettingKey, raw, realNow, actingUser); err != nil {
		s.log.ErrorContext(ctx, "system clock write failed",
			logging.KeyUserID, actingUser, logging.KeyErr, err)
		return View{}, fmt.Errorf("save %s: %w", SettingKey, err)
	}

	s.log.InfoContext(ctx, "system clock updated",
		logging.KeyUserID, actingUser,
		"enabled", enabled,
		"offset", cfg.Offset().String(),
	)
	return s.GetConfiguration(ctx)
}

// Reset is SetConfiguration(false, nil).
func (s *Service) Reset(ctx context.Context, actingUser string) (View, error) {
	return s.SetConfiguration(ctx, false, nil, actingUser)
}

func (s *Service) load(ctx context.Context) (Configuration, error) {
	st, err := s.store.Get(ctx, SettingKey)
	if err != nil {
		return Configuration{}, fmt.Errorf("load %s: %w", SettingKey, err)
	}
	if st == nil {
		return Configuration{}, nil
	}
	cfg, err := decodeConfiguration(st.Value)
	if err != nil {
		return Configuration{}, err
	}
	if cfg.UpdatedAt == nil && !st.UpdatedAt.IsZero() {
		at := st.UpdatedAt
		cfg.UpdatedAt = &at
	}
	if cfg.UpdatedBy == nil {
		cfg.UpdatedBy = st.UpdatedBy
	}
	return cfg, nil
}
