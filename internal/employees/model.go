package employees

import "database/sql"

const StatusActive = "active"

// Employee is the subset of the HR record the attendance back office needs.
type Employee struct {
	ID           int64
	FullName     string
	DepartmentID *int64
	SegmentID    *int64
	WorkCenterID *int64
}

type employeeRow struct {
	ID           int64
	FullName     string
	DepartmentID sql.NullInt64
	SegmentID    sql.NullInt64
	WorkCenterID sql.NullInt64
}

func (r employeeRow) toModel() Employee {
	return Employee{
		ID:           r.ID,
		FullName:     r.FullName,
		DepartmentID: nullInt(r.DepartmentID),
		SegmentID:    nullInt(r.SegmentID),
		WorkCenterID: nullInt(r.WorkCenterID),
	}
}

func nullInt(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
