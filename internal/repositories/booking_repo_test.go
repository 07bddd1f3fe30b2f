package repositories

import (
	"context"
	"testing"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BookingRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    BookingRepository
	context context.Context
}

func (suite *BookingRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewBookingRepo(mock)
	suite.context = context.Background()
}

func (suite *BookingRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBookingRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BookingRepoTestSuite))
}

func (suite *BookingRepoTestSuite) TestSumMinutes() {
	subjectID := uuid.New()
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(duration_minutes\), 0\) FROM bookings WHERE subject_id = \$1 AND booking_date BETWEEN \$2 AND \$3 AND status IN \('Confirmed', 'Completed'\)`).
		WithArgs(subjectID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(90))

	total, err := suite.repo.SumMinutes(suite.context, subjectID, from, to)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 90, total)
}

func (suite *BookingRepoTestSuite) TestListConfirmedForRoom() {
	roomID := uuid.New()
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "room_id", "subject_id", "booking_date", "start_minute", "end_minute",
		"duration_minutes", "status", "purpose", "cancelled_by", "cancelled_at", "created_at", "updated_at"}).
		AddRow(uuid.New(), roomID, uuid.New(), date, 600, 660, 60, models.BookingConfirmed, "standup",
			(*uuid.UUID)(nil), (*time.Time)(nil), now, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE room_id = \$1 AND booking_date = \$2 AND status = 'Confirmed'`).
		WithArgs(roomID, date).
		WillReturnRows(rows)

	bookings, err := suite.repo.ListConfirmedForRoom(suite.context, roomID, date)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), bookings, 1)
	assert.True(suite.T(), bookings[0].Overlaps(630, 700))
	assert.False(suite.T(), bookings[0].Overlaps(660, 720))
}

func (suite *BookingRepoTestSuite) TestCancel_OnlyConfirmed() {
	actor := uuid.New()
	at := time.Now()
	booking := &models.Booking{ID: uuid.New(), Status: models.BookingConfirmed, CancelledBy: &actor, CancelledAt: &at}

	suite.mock.ExpectExec(`UPDATE bookings SET status = 'Cancelled'(.+) WHERE id = \$1 AND status = 'Confirmed'`).
		WithArgs(booking.ID, &actor, &at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Cancel(suite.context, booking)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidTransition)
	assert.Equal(suite.T(), models.BookingConfirmed, booking.Status)
}

func (suite *BookingRepoTestSuite) TestCompleteElapsed() {
	now := time.Now()
	suite.mock.ExpectExec(`UPDATE bookings SET status = 'Completed'`).
		WithArgs(now, "Europe/Berlin").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := suite.repo.CompleteElapsed(suite.context, now, "Europe/Berlin")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), n)
}
