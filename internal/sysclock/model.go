package sysclock

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// SettingKey is the system_settings row holding the clock configuration.
const SettingKey = "system_clock"

// document は system_settings.setting_value に保存する JSON
type document struct {
	Enabled           bool    `json:"enabled"`
	CustomDatetime    *string `json:"custom_datetime"`
	ServerRefDatetime *string `json:"server_ref_datetime"`
	UpdatedAt         *string `json:"updated_at"`
	UpdatedBy         *string `json:"updated_by"`
}

// Configuration is the decoded clock setting.
type Configuration struct {
	Enabled   bool
	Custom    *time.Time // simulated instant at the moment it was set
	Reference *time.Time // real instant captured in the same write
	UpdatedAt *time.Time
	UpdatedBy *string
}

// Active reports whether an offset applies. A half-written pair counts as disabled.
func (c Configuration) Active() bool {
	return c.Enabled && c.Custom != nil && c.Reference != nil
}

// Offset is custom - reference at millisecond precision; zero when inactive.
func (c Configuration) Offset() time.Duration {
	if !c.Active() {
		return 0
	}
	ms := c.Custom.Sub(*c.Reference).Milliseconds()
	return time.Duration(ms) * time.Millisecond
}

// Apply shifts a real instant into system time.
func (c Configuration) Apply(realNow time.Time) time.Time {
	return realNow.Add(c.Offset()).UTC()
}

func decodeConfiguration(raw []byte) (Configuration, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Configuration{}, fmt.Errorf("decode %s: %w", SettingKey, err)
	}

	cfg := Configuration{Enabled: doc.Enabled, UpdatedBy: doc.UpdatedBy}
	var err error
	if cfg.Custom, err = parseOptional(doc.CustomDatetime); err != nil {
		return Configuration{}, fmt.Errorf("decode %s.custom_datetime: %w", SettingKey, err)
	}
	if cfg.Reference, err = parseOptional(doc.ServerRefDatetime); err != nil {
		return Configuration{}, fmt.Errorf("decode %s.server_ref_datetime: %w", SettingKey, err)
	}
	if cfg.UpdatedAt, err = parseOptional(doc.UpdatedAt); err != nil {
		return Configuration{}, fmt.Errorf("decode %s.updated_at: %w", SettingKey, err)
	}
	return cfg, nil
}

func encodeConfiguration(c Configuration) ([]byte, error) {
	doc := document{
		Enabled:           c.Enabled,
		CustomDatetime:    formatOptional(c.Custom),
		ServerRefDatetime: formatOptional(c.Reference),
		UpdatedAt:         formatOptional(c.UpdatedAt),
		UpdatedBy:         c.UpdatedBy,
	}
	return json.Marshal(doc)
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseNaiveUTC(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatISO(*t)
	return &v
}

// View is the configuration plus the derived display fields.
type View struct {
	Configuration
	CurrentServerTime time.Time
	CurrentSystemTime *time.Time
	OffsetMinutes     *int64
}

func newView(cfg Configuration, realNow time.Time) View {
	v := View{Configuration: cfg, CurrentServerTime: realNow.UTC()}
	if cfg.Active() {
		sys := cfg.Apply(realNow)
		mins := int64(math.Round(cfg.Offset().Minutes()))
		v.CurrentSystemTime = &sys
		v.OffsetMinutes = &mins
	}
	return v
}

func (v View) toDTO() ClockResponse {
	return ClockResponse{
		Enabled:           v.Enabled,
		CustomDatetime:    formatOptional(v.Custom),
		ServerRefDatetime: formatOptional(v.Reference),
		CurrentServerTime: formatISO(v.CurrentServerTime),
		CurrentSystemTime: formatOptional(v.CurrentSystemTime),
		OffsetMinutes:     v.OffsetMinutes,
		UpdatedAt:         formatOptional(v.UpdatedAt),
		UpdatedBy:         v.UpdatedBy,
	}
}
