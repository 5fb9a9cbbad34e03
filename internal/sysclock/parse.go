package sysclock

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	// ISOLayout は JS の toISOString と同じ形（ミリ秒 + Z）
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
)

var ErrInvalidDatetime = errors.New("datetime must be YYYY-MM-DDTHH:MM[:SS] or RFC 3339")

// naive: タイムゾーン指定なし。ローカルTZで解釈すると日付がずれるので必ずUTCの壁時計として読む。
var naivePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2})(:\d{2}(\.\d{1,9})?)?$`)

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// ParseNaiveUTC parses an operator-supplied datetime.
//
// A value without a zone ("2026-02-01T08:00", "2026-02-01 08:00:00.250") is
// taken as a UTC wall-clock reading, never as host-local time. A value that
// carries "Z" or a numeric offset is honoured and converted to UTC. A bare
// date is midnight UTC.
func ParseNaiveUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDatetime
	}

	if m := naivePattern.FindStringSubmatch(s); m != nil {
		sec := m[3]
		if sec == "" {
			sec = ":00"
		}
		// ParseInLocation validates ranges (month 13, 25:00 ...) and accepts the
		// optional fraction after seconds.
		t, err := time.ParseInLocation("2006-01-02T15:04:05", m[1]+"T"+m[2]+sec, time.UTC)
		if err != nil {
			return time.Time{}, ErrInvalidDatetime
		}
		return t, nil
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDatetime
}

func formatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
