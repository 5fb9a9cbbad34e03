package employees

import (
	"context"

	"SiteIntern-backend/internal/platform/db"
)

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// ListClockRequired: 在籍中かつ打刻対象の社員（所属付き）
func (s *Store) ListClockRequired(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT employee_id, full_name, department_id, segment_id, work_center_id
	FROM employees
	WHERE employment_status = ? AND requires_clocking = 1
	ORDER BY employee_id ASC`, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var r employeeRow
		if err := rows.Scan(&r.ID, &r.FullName, &r.DepartmentID, &r.SegmentID, &r.WorkCenterID); err != nil {
			return nil, err
		}
		out = append(out, r.toModel())
	}
	return out, rows.Err()
}
