package testhelpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"coworkops/internal/models"
	"coworkops/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// tables in truncation order
var tables = []string{
	"bookings", "rooms", "time_entries", "audit_logs", "transfers",
	"users", "stock_movements", "stock_levels", "inventory_items", "locations", "settings",
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties every table. Tests are skipped when the variable is unset.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool, zap.NewNop()); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
	db.Truncate(t)
	t.Cleanup(func() { _ = db.Cleanup() })
	return db
}

// Truncate removes all rows from every application table.
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.Pool.Exec(context.Background(), "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}
}

// SetupTestUser creates an active user with the given role
func SetupTestUser(t *testing.T, db *TestDB, role models.Role) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
	`
	email := fmt.Sprintf("%s-%s@example.com", role, userID.String()[:8])
	_, err := db.Pool.Exec(context.Background(), query, userID, email, "not-a-real-hash", "Test "+string(role), string(role))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return userID
}

// SetupTestLocation creates a store room or branch
func SetupTestLocation(t *testing.T, db *TestDB, name string, kind models.LocationKind) uuid.UUID {
	t.Helper()

	locationID := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO locations (id, name, kind) VALUES ($1, $2, $3)`, locationID, name, string(kind))
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}
	return locationID
}

// SetupTestItem creates an active consumable with the given minimum stock
func SetupTestItem(t *testing.T, db *TestDB, name string, minimumStock int) uuid.UUID {
	t.Helper()

	itemID := uuid.New()
	query := `
		INSERT INTO inventory_items (id, name, category, unit, unit_price, minimum_stock)
		VALUES ($1, $2, 'consumable', 'pcs', 1.50, $3)
	`
	if _, err := db.Pool.Exec(context.Background(), query, itemID, name, minimumStock); err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return itemID
}

// SetStock overwrites the quantity of an item at a location
func SetStock(t *testing.T, db *TestDB, itemID, locationID uuid.UUID, quantity int) {
	t.Helper()

	query := `
		INSERT INTO stock_levels (item_id, location_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id, location_id) DO UPDATE SET quantity = EXCLUDED.quantity
	`
	if _, err := db.Pool.Exec(context.Background(), query, itemID, locationID, quantity); err != nil {
		t.Fatalf("Failed to set stock: %v", err)
	}
}

// StockQuantity reads a stock level; missing rows read as zero
func StockQuantity(t *testing.T, db *TestDB, itemID, locationID uuid.UUID) int {
	t.Helper()

	var qty int
	err := db.Pool.QueryRow(context.Background(),
		`SELECT COALESCE((SELECT quantity FROM stock_levels WHERE item_id = $1 AND location_id = $2), 0)`,
		itemID, locationID).Scan(&qty)
	if err != nil {
		t.Fatalf("Failed to read stock: %v", err)
	}
	return qty
}

// SetupTestRoom creates an active meeting room in a branch
func SetupTestRoom(t *testing.T, db *TestDB, locationID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO rooms (id, name, location_id, capacity) VALUES ($1, $2, $3, 8)`, roomID, name, locationID)
	if err != nil {
		t.Fatalf("Failed to create test room: %v", err)
	}
	return roomID
}

// SeedSettings writes the booking policy row
func SeedSettings(t *testing.T, db *TestDB, s models.Settings) {
	t.Helper()

	query := `
		INSERT INTO settings (id, daily_booking_limit_minutes, monthly_booking_limit_minutes, slot_minutes, open_hour, close_hour)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			daily_booking_limit_minutes = EXCLUDED.daily_booking_limit_minutes,
			monthly_booking_limit_minutes = EXCLUDED.monthly_booking_limit_minutes,
			slot_minutes = EXCLUDED.slot_minutes,
			open_hour = EXCLUDED.open_hour,
			close_hour = EXCLUDED.close_hour
	`
	_, err := db.Pool.Exec(context.Background(), query,
		s.DailyBookingLimitMinutes, s.MonthlyBookingLimitMinutes, s.SlotMinutes, s.OpenHour, s.CloseHour)
	if err != nil {
		t.Fatalf("Failed to seed settings: %v", err)
	}
}

// CountRows counts rows of table matching a single-argument where clause
func CountRows(t *testing.T, db *TestDB, table, where string, arg interface{}) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table+" WHERE "+where, arg).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
