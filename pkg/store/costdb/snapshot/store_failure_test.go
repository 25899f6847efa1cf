package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePropagatesInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cost_records").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	store, err := NewStore(db)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), []domain.ResourceRecord{
		record(domain.KindCompute, "i-1", "us-east-1", 0.1, nil),
	}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePropagatesCommitFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO cost_records").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO cost_summary").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("io error"))

	store, err := NewStore(db)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), []domain.ResourceRecord{
		record(domain.KindCompute, "i-1", "us-east-1", 0.1, nil),
	}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit snapshot")
	assert.NoError(t, mock.ExpectationsWereMet())
}
