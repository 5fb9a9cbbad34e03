package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"SiteIntern-backend/internal/platform/db"
)

// Setting は system_settings の1行。Value は JSON のまま扱う。
type Setting struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
	UpdatedBy *string
}

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) *Store { return &Store{db: conn} }

// Get returns nil, nil when the key has never been written.
func (s *Store) Get(ctx context.Context, key string) (*Setting, error) {
	const q = `
	SELECT setting_key, setting_value, updated_at, updated_by
	FROM system_settings
	WHERE setting_key = ?`

	var (
		st  Setting
		raw []byte
		by  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, q, key).Scan(&st.Key, &raw, &st.UpdatedAt, &by)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.Value = json.RawMessage(raw)
	st.UpdatedAt = st.UpdatedAt.UTC()
	if by.Valid {
		v := by.String
		st.UpdatedBy = &v
	}
	return &st, nil
}

// Upsert writes the whole value in a single statement, so readers never see
// a partially updated document.
func (s *Store) Upsert(ctx context.Context, key string, value json.RawMessage, updatedAt time.Time, updatedBy string) error {
	const q = `
	INSERT INTO system_settings (setting_key, setting_value, updated_at, updated_by)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	setting_value = VALUES(setting_value),
	updated_at    = VALUES(updated_at),
	updated_by    = VALUES(updated_by)`

	by := any(nil)
	if updatedBy != "" {
		by = updatedBy
	}
	_, err := s.db.ExecContext(ctx, q, key, []byte(value), updatedAt.UTC(), by)
	return err
}
