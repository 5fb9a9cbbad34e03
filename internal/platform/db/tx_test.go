package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SiteIntern-backend/internal/platform/config"
	"SiteIntern-backend/internal/platform/db"
)

func TestRunInTx_Commit(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE t SET x = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, "UPDATE t SET x = 1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error {
			panic("bad row")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	dsn := db.DSN(config.DatabaseConfig{
		Host: "db", Port: 3306, Username: "app", Password: "pw", DBName: "attendance",
	})
	assert.Contains(t, dsn, "app:pw@tcp(db:3306)/attendance")
	assert.Contains(t, dsn, "parseTime=true")
}
