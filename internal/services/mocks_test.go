package services

import (
	"context"
	"sync"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Mock repositories. WithTx returns the receiver so expectations set on the
// mock also cover calls made inside a transaction.

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) WithTx(tx pgx.Tx) repositories.ItemRepository { return m }

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) Create(ctx context.Context, location *models.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationRepository) List(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]*models.Location), args.Error(1)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so a rolled back attempt cannot leak into the next one.
	t := *args.Get(0).(*models.Transfer)
	return &t, args.Error(1)
}

func (m *MockTransferRepository) Update(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) WithTx(tx pgx.Tx) repositories.TransferRepository { return m }

type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, entry *models.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) GetOpenForUpdate(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) Close(ctx context.Context, entry *models.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) Latest(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) List(ctx context.Context, filter *models.TimeEntryFilter) ([]*models.TimeEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) WithTx(tx pgx.Tx) repositories.TimeEntryRepository { return m }

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListConfirmedForRoom(ctx context.Context, roomID uuid.UUID, date time.Time) ([]*models.Booking, error) {
	args := m.Called(ctx, roomID, date)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) SumMinutes(ctx context.Context, subjectID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, subjectID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CompleteElapsed(ctx context.Context, now time.Time, timezone string) (int64, error) {
	args := m.Called(ctx, now, timezone)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) WithTx(tx pgx.Tx) repositories.BookingRepository { return m }

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) List(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) WithTx(tx pgx.Tx) repositories.RoomRepository { return m }

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, role, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) WithTx(tx pgx.Tx) repositories.UserRepository { return m }

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Seed(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) WithTx(tx pgx.Tx) repositories.SettingsRepository { return m }

type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	args := m.Called(ctx, auditLog)
	return args.Error(0)
}

func (m *MockAuditLogsRepository) GetByTableAndRecord(ctx context.Context, tableName, recordID string) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tableName, recordID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) WithTx(tx pgx.Tx) repositories.AuditLogsRepository { return m }

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockCacheService) SetItem(ctx context.Context, item *models.InventoryItem, ttl time.Duration) error {
	args := m.Called(ctx, item, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) ResetRateLimit(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// memoryStock is an in-memory StockRepository. Writes made while a
// transaction is open only become visible when the test commits them, which
// mirrors how a rolled back transaction discards its changes.
type memoryStock struct {
	mu        sync.Mutex
	levels    map[stockKey]*models.StockLevel
	pending   map[stockKey]*models.StockLevel
	movements []*models.StockMovement
	staged    []*models.StockMovement
	conflicts int
}

type stockKey struct {
	item, location uuid.UUID
}

func newMemoryStock() *memoryStock {
	return &memoryStock{
		levels:  make(map[stockKey]*models.StockLevel),
		pending: make(map[stockKey]*models.StockLevel),
	}
}

func (s *memoryStock) seed(itemID, locationID uuid.UUID, quantity int) {
	s.levels[stockKey{itemID, locationID}] = &models.StockLevel{ItemID: itemID, LocationID: locationID, Quantity: quantity}
}

func (s *memoryStock) quantity(itemID, locationID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.levels[stockKey{itemID, locationID}]; ok {
		return l.Quantity
	}
	return 0
}

func (s *memoryStock) commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.pending {
		s.levels[k] = v
	}
	s.movements = append(s.movements, s.staged...)
	s.discardLocked()
}

func (s *memoryStock) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardLocked()
}

func (s *memoryStock) discardLocked() {
	s.pending = make(map[stockKey]*models.StockLevel)
	s.staged = nil
}

func (s *memoryStock) Get(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.levels[stockKey{itemID, locationID}]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *memoryStock) GetForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := stockKey{itemID, locationID}
	if l, ok := s.pending[k]; ok {
		cp := *l
		return &cp, nil
	}
	if l, ok := s.levels[k]; ok {
		cp := *l
		return &cp, nil
	}
	return &models.StockLevel{ItemID: itemID, LocationID: locationID}, nil
}

func (s *memoryStock) SetQuantity(ctx context.Context, level *models.StockLevel, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return common.ErrConflict
	}
	level.Quantity = quantity
	level.Version++
	cp := *level
	s.pending[stockKey{level.ItemID, level.LocationID}] = &cp
	return nil
}

func (s *memoryStock) AppendMovement(ctx context.Context, movement *models.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, movement)
	return nil
}

func (s *memoryStock) List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.StockLevel, 0, len(s.levels))
	for _, l := range s.levels {
		out = append(out, l)
	}
	return out, nil
}

func (s *memoryStock) WithTx(tx pgx.Tx) repositories.StockRepository { return s }

// hookedDB hands out transactions that report their outcome back to the
// in-memory fakes.
type hookedDB struct {
	onCommit   func()
	onRollback func()
	commits    int
	rollbacks  int
}

func (d *hookedDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &hookedTx{db: d}, nil
}

type hookedTx struct {
	pgx.Tx
	db *hookedDB
}

func (t *hookedTx) Commit(ctx context.Context) error {
	t.db.commits++
	if t.db.onCommit != nil {
		t.db.onCommit()
	}
	return nil
}

func (t *hookedTx) Rollback(ctx context.Context) error {
	t.db.rollbacks++
	if t.db.onRollback != nil {
		t.db.onRollback()
	}
	return nil
}
