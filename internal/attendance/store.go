package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"SiteIntern-backend/internal/platform/db"
)

const selectColumns = `
	SELECT record_id, record_ulid, employee_id, DATE_FORMAT(attendance_date, '%Y-%m-%d') AS attendance_date,
	clock_time, status, source, is_anomaly, anomaly_type, notes
	FROM attendance_records`

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// Insert writes r and fills RecordID (and RecordULID when empty).
func (s *Store) Insert(ctx context.Context, r *Record) error {
	if r.RecordULID == "" {
		r.RecordULID = ulid.Make().String()
	}
	const q = `
	INSERT INTO attendance_records
	(record_ulid, employee_id, attendance_date, clock_time, status, source, is_anomaly, anomaly_type, notes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`

	res, err := s.db.ExecContext(ctx, q,
		r.RecordULID, r.EmployeeID, r.AttendanceDate, r.ClockTime.UTC(),
		string(r.Status), string(r.Source), r.IsAnomaly, ptrOrNil(r.AnomalyType), ptrOrNil(r.Notes),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RecordID = uint64(id)
	return nil
}

// InsertAbsence writes r only if the employee still has no record on that
// date. The existence test and the insert are one statement; inserted is false
// when another row got there first.
func (s *Store) InsertAbsence(ctx context.Context, r *Record) (inserted bool, err error) {
	if r.RecordULID == "" {
		r.RecordULID = ulid.Make().String()
	}
	const q = `
	INSERT INTO attendance_records
	(record_ulid, employee_id, attendance_date, clock_time, status, source, is_anomaly, anomaly_type, notes, created_at)
	SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP()
	FROM DUAL
	WHERE NOT EXISTS (
		SELECT 1 FROM attendance_records WHERE employee_id = ? AND attendance_date = ?
	)`

	res, err := s.db.ExecContext(ctx, q,
		r.RecordULID, r.EmployeeID, r.AttendanceDate, r.ClockTime.UTC(),
		string(r.Status), string(r.Source), r.IsAnomaly, ptrOrNil(r.AnomalyType), ptrOrNil(r.Notes),
		r.EmployeeID, r.AttendanceDate,
	)
	if err != nil {
		return false, err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if aff == 0 {
		return false, nil
	}
	if id, err := res.LastInsertId(); err == nil {
		r.RecordID = uint64(id)
	}
	return true, nil
}

// HasAnyOn: 指定社員が指定日に（ステータス問わず）1件でも記録を持つか
func (s *Store) HasAnyOn(ctx context.Context, employeeID int64, date string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
	SELECT 1 FROM attendance_records
	WHERE employee_id = ? AND attendance_date = ? LIMIT 1`, employeeID, date,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LastClockEvent returns the latest check_in/check_out of the day, or nil.
func (s *Store) LastClockEvent(ctx context.Context, employeeID int64, date string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+`
	WHERE employee_id = ? AND attendance_date = ? AND status IN ('check_in', 'check_out')
	ORDER BY clock_time DESC, record_id DESC
	LIMIT 1`, employeeID, date)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List: 条件に応じて動的WHERE + ORDER + LIMIT/OFFSET。日付は正規化済みで渡すこと。
func (s *Store) List(ctx context.Context, q ListQuery) ([]Record, int64, error) {
	var (
		buf    bytes.Buffer
		args   []any
		wheres []string
	)

	buf.WriteString(selectColumns)

	if q.EmployeeID != nil {
		wheres = append(wheres, "employee_id = ?")
		args = append(args, *q.EmployeeID)
	}
	if q.On != nil && *q.On != "" {
		wheres = append(wheres, "attendance_date = ?")
		args = append(args, *q.On)
	} else {
		if q.From != nil && *q.From != "" {
			wheres = append(wheres, "attendance_date >= ?")
			args = append(args, *q.From)
		}
		if q.To != nil && *q.To != "" {
			wheres = append(wheres, "attendance_date <= ?")
			args = append(args, *q.To)
		}
	}
	if q.Status != nil {
		wheres = append(wheres, "status = ?")
		args = append(args, string(*q.Status))
	}
	if q.AnomalyOnly {
		wheres = append(wheres, "is_anomaly = 1")
	}
	if len(wheres) > 0 {
		buf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}

	switch q.Sort {
	case SortClockTimeAsc:
		buf.WriteString(" ORDER BY clock_time ASC, record_id ASC")
	case SortDateDesc:
		buf.WriteString(" ORDER BY attendance_date DESC, clock_time DESC, record_id DESC")
	case SortDateAsc:
		buf.WriteString(" ORDER BY attendance_date ASC, clock_time ASC, record_id ASC")
	default:
		buf.WriteString(" ORDER BY clock_time DESC, record_id DESC")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	buf.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	rows, err := s.db.QueryContext(ctx, buf.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// COUNT（ORDER BY より前までを再構築）
	var cntBuf bytes.Buffer
	cntBuf.WriteString("SELECT COUNT(*) FROM attendance_records")
	if len(wheres) > 0 {
		cntBuf.WriteString(" WHERE " + strings.Join(wheres, " AND "))
	}
	var total int64
	if err := s.db.QueryRowContext(ctx, cntBuf.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Stats: 期間内の指定ステータス件数を社員別に集計（TOP N）
func (s *Store) Stats(ctx context.Context, from, to time.Time, status Status, limit int) ([]StatsRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
	SELECT employee_id, COUNT(*) AS cnt
	FROM attendance_records
	WHERE attendance_date BETWEEN ? AND ? AND status = ?
	GROUP BY employee_id
	ORDER BY cnt DESC, employee_id ASC
	LIMIT ?`, from.Format(DateLayout), to.Format(DateLayout), string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatsRow
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(&row.EmployeeID, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ===== helpers =====

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var r recordRow
	if err := sc.Scan(&r.RecordID, &r.RecordULID, &r.EmployeeID, &r.AttendanceDate, &r.ClockTime,
		&r.Status, &r.Source, &r.IsAnomaly, &r.AnomalyType, &r.Notes); err != nil {
		return Record{}, err
	}
	return r.toModel(), nil
}

func ptrOrNil(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}
