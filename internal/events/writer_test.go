package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var frozen = time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)

func TestRecordInsertsEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO events`).
		WithArgs("2025-03-14T09:26:00Z", TypeCaseGenerated, "gen-1", `{"files":3}`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	w := Writer{DB: db, Now: func() time.Time { return frozen }}
	require.NoError(t, w.Record(context.Background(), TypeCaseGenerated, "gen-1", EventPayload{"files": 3}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStoresEmptyEntityAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO events`).
		WithArgs(sqlmock.AnyArg(), TypeImportJSON, nil, `{}`).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	w := Writer{DB: db}
	require.NoError(t, w.Record(context.Background(), TypeImportJSON, "", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO events`).WillReturnError(boom)
	mock.ExpectRollback()

	w := Writer{DB: db, Now: func() time.Time { return frozen }}
	err = w.Record(context.Background(), TypeCaseFailed, "", EventPayload{"error": "x"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "append case.failed event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailsWhenBeginFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("closed"))
	w := Writer{DB: db}
	require.Error(t, w.Record(context.Background(), TypeCaseGenerated, "g", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
