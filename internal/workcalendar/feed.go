package workcalendar

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"

	"SiteIntern-backend/internal/platform/clock"
	"SiteIntern-backend/internal/platform/logging"
)

const (
	icalVersion = "2.0"
	icalProdID  = "-//SiteIntern//Work Calendar//FR"
	icalName    = "Jours non travaillés"
	icalDomain  = "siteintern"

	// MaxFeedSpan bounds the range a single feed request may cover.
	MaxFeedSpan = 366 * 24 * time.Hour
)

// emptyCalendar is served when the range has no events; the encoder rejects
// a VCALENDAR without children.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + icalVersion + "\r\nPRODID:" + icalProdID + "\r\nEND:VCALENDAR\r\n"

type FeedStore interface {
	HolidaysBetween(ctx context.Context, from, to string) ([]Holiday, error)
	CompanyDaysOffBetween(ctx context.Context, from, to string) ([]DayOff, error)
}

// Feed renders public holidays and company-wide recovery days off as iCalendar.
type Feed struct {
	store FeedStore
	clock clock.Clock
	log   *slog.Logger
}

func NewFeed(db *sql.DB, log *slog.Logger) *Feed {
	return newFeed(NewStore(db), clock.Real(), log)
}

func newFeed(store FeedStore, c clock.Clock, log *slog.Logger) *Feed {
	return &Feed{store: store, clock: c, log: logging.Component(log, "workcalendar")}
}

// DefaultRange is the current real calendar year.
func (f *Feed) DefaultRange() (from, to time.Time) {
	now := f.clock.Now().UTC()
	from = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	to = time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return from, to
}

func (f *Feed) DaysOffICS(ctx context.Context, from, to time.Time) ([]byte, error) {
	if to.Before(from) {
		return nil, ErrInvalid("to must be >= from")
	}
	if to.Sub(from) > MaxFeedSpan {
		return nil, ErrInvalid("range must not exceed one year")
	}
	fromStr, toStr := from.Format(DateLayout), to.Format(DateLayout)

	holidays, err := f.store.HolidaysBetween(ctx, fromStr, toStr)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	daysOff, err := f.store.CompanyDaysOffBetween(ctx, fromStr, toStr)
	if err != nil {
		return nil, fmt.Errorf("list recovery days off: %w", err)
	}

	if len(holidays)+len(daysOff) == 0 {
		return []byte(emptyCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, icalVersion)
	cal.Props.SetText(ical.PropProductID, icalProdID)
	cal.Props.SetText("X-WR-CALNAME", icalName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(f.clock.Now().UTC())

	for _, h := range holidays {
		ev, err := dayEvent("holiday-"+h.Date, h.Date, h.Name)
		if err != nil {
			return nil, err
		}
		ev.Props.Set(stamp)
		cal.Children = append(cal.Children, ev.Component)
	}
	for _, d := range daysOff {
		summary := d.Label
		if summary == "" {
			summary = d.PeriodName
		}
		ev, err := dayEvent(fmt.Sprintf("recovery-%d", d.DeclarationID), d.Date, summary)
		if err != nil {
			return nil, err
		}
		ev.Props.Set(stamp)
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	f.log.DebugContext(ctx, "days-off feed rendered",
		"from", fromStr, "to", toStr,
		"holidays", len(holidays), "days_off", len(daysOff),
	)
	return buf.Bytes(), nil
}

func dayEvent(uid, date, summary string) (*ical.Event, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", date, err)
	}
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid+"@"+icalDomain)
	ev.Props.SetText(ical.PropSummary, summary)
	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(day)
	ev.Props.Set(start)
	return ev, nil
}
