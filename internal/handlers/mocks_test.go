package handlers

import (
	"context"
	"time"

	"coworkops/internal/jobs/background"
	"coworkops/internal/models"
	"coworkops/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// stubAuth signs and validates real tokens but lets tests script Login.
type stubAuth struct {
	services.AuthService
	mock.Mock
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	args := s.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Create(ctx context.Context, actor *services.Actor, req *services.CreateUserRequest) (*models.User, error) {
	args := m.Called(actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error) {
	args := m.Called(role, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockItemService struct{ mock.Mock }

func (m *MockItemService) Create(ctx context.Context, actor services.Actor, req *services.CreateItemRequest) (*models.InventoryItem, error) {
	args := m.Called(actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, actor services.Actor, id uuid.UUID, req *services.UpdateItemRequest) (*models.InventoryItem, error) {
	args := m.Called(actor, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockItemService) Deactivate(ctx context.Context, actor services.Actor, id uuid.UUID) error {
	return m.Called(actor, id).Error(0)
}

func (m *MockItemService) List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error) {
	args := m.Called(filter)
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

type MockLocationService struct{ mock.Mock }

func (m *MockLocationService) CreateLocation(ctx context.Context, req *services.CreateLocationRequest) (*models.Location, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

func (m *MockLocationService) ListLocations(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error) {
	args := m.Called(kind)
	return args.Get(0).([]*models.Location), args.Error(1)
}

func (m *MockLocationService) CreateRoom(ctx context.Context, req *services.CreateRoomRequest) (*models.Room, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockLocationService) ListRooms(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error) {
	args := m.Called(locationID)
	return args.Get(0).([]*models.Room), args.Error(1)
}

type MockStockService struct{ mock.Mock }

func (m *MockStockService) GetStock(ctx context.Context, itemID, locationID uuid.UUID) (int, error) {
	args := m.Called(itemID, locationID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockService) List(ctx context.Context, filter *models.StockFilter) ([]*models.StockLevel, error) {
	args := m.Called(filter)
	return args.Get(0).([]*models.StockLevel), args.Error(1)
}

func (m *MockStockService) Adjust(ctx context.Context, actor services.Actor, req *services.AdjustStockRequest) (*models.StockLevel, error) {
	args := m.Called(actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockLevel), args.Error(1)
}

type MockTransferService struct{ mock.Mock }

func (m *MockTransferService) Create(ctx context.Context, actor services.Actor, req *services.CreateTransferRequest) (*models.Transfer, error) {
	args := m.Called(actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferService) Get(ctx context.Context, id uuid.UUID) (*models.TransferWithHistory, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferWithHistory), args.Error(1)
}

func (m *MockTransferService) List(ctx context.Context, filter *models.TransferFilter) ([]*models.Transfer, error) {
	args := m.Called(filter)
	return args.Get(0).([]*models.Transfer), args.Error(1)
}

func (m *MockTransferService) Transition(ctx context.Context, actor services.Actor, id uuid.UUID, to models.TransferStatus) (*models.Transfer, error) {
	args := m.Called(actor, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

type MockTimeEntryService struct{ mock.Mock }

func (m *MockTimeEntryService) CheckIn(ctx context.Context, subjectID uuid.UUID, req *services.CheckInRequest) (*models.TimeEntry, error) {
	args := m.Called(subjectID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryService) CheckOut(ctx context.Context, subjectID uuid.UUID) (*models.TimeEntry, error) {
	args := m.Called(subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryService) List(ctx context.Context, filter *models.TimeEntryFilter) (*services.TimeEntryReport, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TimeEntryReport), args.Error(1)
}

func (m *MockTimeEntryService) CurrentStatus(ctx context.Context, subjectID uuid.UUID) (*models.CurrentStatus, error) {
	args := m.Called(subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentStatus), args.Error(1)
}

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, actor services.Actor, req *services.CreateBookingRequest) (*models.Booking, error) {
	args := m.Called(actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) Cancel(ctx context.Context, actor services.Actor, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) List(ctx context.Context, filter *models.BookingFilter) ([]*models.Booking, error) {
	args := m.Called(filter)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) Availability(ctx context.Context, roomID uuid.UUID, date time.Time) ([]models.Slot, error) {
	args := m.Called(roomID, date)
	return args.Get(0).([]models.Slot), args.Error(1)
}

func (m *MockBookingService) Usage(ctx context.Context, subjectID uuid.UUID, date time.Time) (*models.BookingUsage, error) {
	args := m.Called(subjectID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingUsage), args.Error(1)
}

func (m *MockBookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingService) Location() *time.Location { return time.UTC }

type MockSettingsService struct{ mock.Mock }

func (m *MockSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, actor services.Actor, settings *models.Settings) (*models.Settings, error) {
	args := m.Called(actor, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsService) Seed(ctx context.Context, defaults *models.Settings) error {
	return m.Called(defaults).Error(0)
}

type MockAuditLogsService struct{ mock.Mock }

func (m *MockAuditLogsService) LogActivity(ctx context.Context, tableName, recordID, action string, changedBy *uuid.UUID, oldValues, newValues models.JSONB) error {
	return m.Called(tableName, recordID, action, changedBy, oldValues, newValues).Error(0)
}

func (m *MockAuditLogsService) GetEntityHistory(ctx context.Context, tableName, recordID string) ([]*models.AuditLog, error) {
	args := m.Called(tableName, recordID)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsService) WithTx(tx pgx.Tx) services.AuditLogsService { return m }

type MockReportService struct{ mock.Mock }

func (m *MockReportService) LowStock(ctx context.Context) ([]*models.LowStockRow, error) {
	args := m.Called()
	return args.Get(0).([]*models.LowStockRow), args.Error(1)
}

func (m *MockReportService) CategoryTotals(ctx context.Context) ([]*models.CategoryTotal, error) {
	args := m.Called()
	return args.Get(0).([]*models.CategoryTotal), args.Error(1)
}

func (m *MockReportService) Attendance(ctx context.Context, start, end time.Time) ([]*models.AttendanceRow, error) {
	args := m.Called(start, end)
	return args.Get(0).([]*models.AttendanceRow), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, name string, start, end time.Time) (*models.ReportExport, error) {
	args := m.Called(name, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportExport), args.Error(1)
}

type MockJobRunner struct{ mock.Mock }

func (m *MockJobRunner) Jobs() []background.JobInfo {
	return m.Called().Get(0).([]background.JobInfo)
}

func (m *MockJobRunner) RunNow(name string) error {
	return m.Called(name).Error(0)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) SyncLowStock(ctx context.Context, rows []*models.LowStockRow) (int, error) {
	args := m.Called(ctx, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationService) ListAlerts(ctx context.Context, status models.AlertStatus) ([]*models.StockAlert, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockAlert), args.Error(1)
}

func (m *MockNotificationService) AcknowledgeAlert(ctx context.Context, actor services.Actor, itemID uuid.UUID) (*models.StockAlert, error) {
	args := m.Called(ctx, actor, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockAlert), args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
