package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/dbpg"

	"github.com/CamMacB17/spotpay/internal/domain"
)

func newPaymentRepoMock(t *testing.T) (*PaymentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPaymentRepo(&dbpg.DB{Master: db}), mock
}

func expectEventLock(mock sqlmock.Sqlmock, eventID string) *sqlmock.ExpectedQuery {
	return mock.ExpectQuery(`SELECT price_pence, max_spots, closed_at FROM events WHERE id = \$1 FOR UPDATE`).
		WithArgs(eventID)
}

func eventRow(pricePence, maxSpots, closedAt any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"price_pence", "max_spots", "closed_at"}).
		AddRow(pricePence, maxSpots, closedAt)
}

func TestPaymentRepository_CreatePledge_Inserts(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(1500), 10, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT id, status FROM payments`).
		WithArgs("e1", "ada@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs("p1", "e1", "Ada", "ada@example.com", domain.StatusPledged, int64(1500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &domain.Payment{ID: "p1", EventID: "e1", Name: "Ada", Email: "ada@example.com"}
	err := repo.CreatePledge(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPledged, p.Status)
	assert.Equal(t, int64(1500), p.AmountPence, "amount snapshotted from the event price read under the lock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The last spot goes to whoever holds the event row lock first; the loser's
// count check sees capacity already reached and the pledge never hits the
// payments table.
func TestPaymentRepository_CreatePledge_LastSpotTaken(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(1500), 1, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.CreatePledge(context.Background(), &domain.Payment{
		ID: "p2", EventID: "e1", Name: "Bob", Email: "bob@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrEventFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A concurrent insert can still slip past the in-tx duplicate lookup; the
// partial unique index is the backstop and its violation maps to the same
// error the lookup produces.
func TestPaymentRepository_CreatePledge_UniqueViolationMapsToAlreadyBooked(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(1500), 10, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, status FROM payments`).
		WithArgs("e1", "ada@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreatePledge(context.Background(), &domain.Payment{
		ID: "p1", EventID: "e1", Name: "Ada", Email: "ada@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreatePledge_ActiveDuplicate(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(1500), nil, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, status FROM payments`).
		WithArgs("e1", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("p0", domain.StatusPaid))
	mock.ExpectRollback()

	err := repo.CreatePledge(context.Background(), &domain.Payment{
		ID: "p1", EventID: "e1", Name: "Ada", Email: "ada@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreatePledge_ReusesCancelledRow(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(2000), 10, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, status FROM payments`).
		WithArgs("e1", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow("p0", domain.StatusCancelled))
	mock.ExpectExec(`UPDATE payments`).
		WithArgs("p0", "Ada", domain.StatusPledged, int64(2000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &domain.Payment{ID: "p-new", EventID: "e1", Name: "Ada", Email: "ada@example.com"}
	err := repo.CreatePledge(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, "p0", p.ID, "cancelled row is reused, not duplicated")
	assert.Equal(t, int64(2000), p.AmountPence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreatePledge_ClosedEvent(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(int64(1500), 10, time.Now().Add(-time.Hour)))
	mock.ExpectRollback()

	err := repo.CreatePledge(context.Background(), &domain.Payment{
		ID: "p1", EventID: "e1", Name: "Ada", Email: "ada@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrEventClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreatePledge_EventNotFound(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "missing").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.CreatePledge(context.Background(), &domain.Payment{
		ID: "p1", EventID: "missing", Name: "Ada", Email: "ada@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreatePledge_FreeEventSnapshotsZero(t *testing.T) {
	repo, mock := newPaymentRepoMock(t)

	mock.ExpectBegin()
	expectEventLock(mock, "e1").WillReturnRows(eventRow(nil, nil, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM payments`).
		WithArgs("e1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT id, status FROM payments`).
		WithArgs("e1", "ada@example.com").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(`INSERT INTO payments`).
		WithArgs("p1", "e1", "Ada", "ada@example.com", domain.StatusPledged, int64(0), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &domain.Payment{ID: "p1", EventID: "e1", Name: "Ada", Email: "ada@example.com"}
	err := repo.CreatePledge(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, int64(0), p.AmountPence)
	assert.NoError(t, mock.ExpectationsWereMet())
}
