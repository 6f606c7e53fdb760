package mysql

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 0, want: ""},
		{n: 1, want: "?"},
		{n: 3, want: "?, ?, ?"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, placeholders(tt.n))
		})
	}
	assert.Equal(t, []any{int64(4), int64(2)}, int64Args([]int64{4, 2}))
}

func TestIsDuplicate(t *testing.T) {
	dup := &driver.MySQLError{Number: errDuplicateEntry, Message: "Duplicate entry"}
	assert.True(t, isDuplicate(dup))
	assert.True(t, isDuplicate(fmt.Errorf("put movie: %w", dup)))
	assert.False(t, isDuplicate(&driver.MySQLError{Number: 1452}))
	assert.False(t, isDuplicate(errors.New("boom")))
}

type stubTx struct {
	err   error
	calls int
}

func (tx *stubTx) Rollback() error {
	tx.calls++
	return tx.err
}

func TestRollback(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantWarn bool
	}{
		{name: "rolled back"},
		{name: "already committed", err: sql.ErrTxDone},
		{name: "failed commit", err: fmt.Errorf("commit: %w", sql.ErrTxDone)},
		{name: "connection lost", err: driver.ErrInvalidConn, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			tx := &stubTx{err: tt.err}
			rollback(tx, zap.New(core), "review put")
			assert.Equal(t, 1, tx.calls)
			if tt.wantWarn {
				assert.Equal(t, 1, logs.FilterMessage("Failed to rollback review put").Len())
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}
