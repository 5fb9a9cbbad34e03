package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8   = "utf-8"
	CharsetANSI   = "windows-1252" // Excel（仏語版Windows）の「ANSI」
	MaxExportRows = 10000
)

var exportHeader = []string{
	"record_ulid", "employee_id", "attendance_date", "clock_time",
	"status", "source", "is_anomaly", "anomaly_type", "notes",
}

// Export renders the records matching q as CSV. Paging fields in q are ignored.
func (s *Service) Export(ctx context.Context, q ListQuery, charset string) ([]byte, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" {
		charset = CharsetUTF8
	}
	if charset != CharsetUTF8 && charset != CharsetANSI {
		return nil, ErrInvalid("charset must be utf-8 or windows-1252")
	}

	var b bytes.Buffer
	var out io.Writer = &b
	if charset == CharsetANSI {
		// 1252 に無い文字（アラビア文字など）は置換
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		out = transform.NewWriter(&b, enc)
	}
	w := csv.NewWriter(out)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	q.Sort = SortDateAsc
	q.Limit = MaxPageLimit
	written := 0
	for q.Offset = 0; written < MaxExportRows; q.Offset += MaxPageLimit {
		page, err := s.List(ctx, q)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Items {
			if err := w.Write(csvRecord(r)); err != nil {
				return nil, err
			}
			written++
		}
		if len(page.Items) < MaxPageLimit {
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	if tw, ok := out.(*transform.Writer); ok {
		if err := tw.Close(); err != nil {
			return nil, err
		}
	}
	return b.Bytes(), nil
}

func csvRecord(r RecordResponse) []string {
	return []string{
		r.RecordULID,
		strconv.FormatInt(r.EmployeeID, 10),
		r.AttendanceDate,
		r.ClockTime.UTC().Format(time.RFC3339),
		string(r.Status),
		string(r.Source),
		strconv.FormatBool(r.IsAnomaly),
		deref(r.AnomalyType),
		deref(r.Notes),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
