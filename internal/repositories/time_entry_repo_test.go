package repositories

import (
	"context"
	"testing"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TimeEntryRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      TimeEntryRepository
	subjectID uuid.UUID
	context   context.Context
}

func (suite *TimeEntryRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewTimeEntryRepo(mock)
	suite.subjectID = uuid.New()
	suite.context = context.Background()
}

func (suite *TimeEntryRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTimeEntryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TimeEntryRepoTestSuite))
}

func (suite *TimeEntryRepoTestSuite) openEntry(checkIn time.Time) *models.TimeEntry {
	return &models.TimeEntry{
		ID:        uuid.New(),
		SubjectID: suite.subjectID,
		CheckIn:   checkIn,
		Status:    models.TimeEntryCheckedIn,
		Date:      time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt: checkIn,
	}
}

func entryRow(e *models.TimeEntry) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "subject_id", "check_in", "check_out", "duration_minutes", "status",
		"entry_date", "notes", "location_id", "created_at"}).
		AddRow(e.ID, e.SubjectID, e.CheckIn, e.CheckOut, e.DurationMinutes, e.Status, e.Date, e.Notes, e.LocationID, e.CreatedAt)
}

func (suite *TimeEntryRepoTestSuite) TestCreate_Success() {
	entry := suite.openEntry(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))

	suite.mock.ExpectExec(`INSERT INTO time_entries`).
		WithArgs(entry.ID, suite.subjectID, entry.CheckIn, models.TimeEntryCheckedIn, entry.Date,
			(*string)(nil), (*uuid.UUID)(nil), entry.CheckIn).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(suite.T(), suite.repo.Create(suite.context, entry))
}

func (suite *TimeEntryRepoTestSuite) TestCreate_OpenEntryIndexViolation() {
	entry := suite.openEntry(time.Now())

	suite.mock.ExpectExec(`INSERT INTO time_entries`).
		WithArgs(entry.ID, suite.subjectID, pgxmock.AnyArg(), models.TimeEntryCheckedIn, pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_time_entries_open"})

	err := suite.repo.Create(suite.context, entry)
	assert.ErrorIs(suite.T(), err, common.ErrAlreadyCheckedIn)
}

func (suite *TimeEntryRepoTestSuite) TestGetOpenForUpdate_None() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM time_entries WHERE subject_id = \$1 AND status = 'Checked In' FOR UPDATE`).
		WithArgs(suite.subjectID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetOpenForUpdate(suite.context, suite.subjectID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *TimeEntryRepoTestSuite) TestClose_Success() {
	entry := suite.openEntry(time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
	checkOut := time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)
	duration := 510
	entry.CheckOut = &checkOut
	entry.DurationMinutes = &duration
	entry.Status = models.TimeEntryCheckedOut

	suite.mock.ExpectExec(`UPDATE time_entries SET check_out = \$2, duration_minutes = \$3, status = \$4 WHERE id = \$1 AND status = 'Checked In'`).
		WithArgs(entry.ID, &checkOut, &duration, models.TimeEntryCheckedOut).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Close(suite.context, entry))
}

func (suite *TimeEntryRepoTestSuite) TestClose_AlreadyClosed() {
	entry := suite.openEntry(time.Now())

	suite.mock.ExpectExec(`UPDATE time_entries`).
		WithArgs(entry.ID, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.Close(suite.context, entry)
	assert.ErrorIs(suite.T(), err, common.ErrNoOpenEntry)
}

func (suite *TimeEntryRepoTestSuite) TestLatest_OrdersByCreation() {
	entry := suite.openEntry(time.Now())

	suite.mock.ExpectQuery(`SELECT (.+) FROM time_entries WHERE subject_id = \$1 ORDER BY created_at DESC, check_in DESC LIMIT 1`).
		WithArgs(suite.subjectID).
		WillReturnRows(entryRow(entry))

	got, err := suite.repo.Latest(suite.context, suite.subjectID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TimeEntryCheckedIn, got.Status)
}

func (suite *TimeEntryRepoTestSuite) TestList_DateRangeIsInclusive() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	suite.mock.ExpectQuery(`SELECT (.+) FROM time_entries WHERE check_in >= \$1 AND check_in < \$2 AND subject_id = \$3`).
		WithArgs(start, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), suite.subjectID).
		WillReturnRows(entryRow(suite.openEntry(time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC))))

	entries, err := suite.repo.List(suite.context, &models.TimeEntryFilter{SubjectID: &suite.subjectID, StartDate: start, EndDate: end})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 1)
}
