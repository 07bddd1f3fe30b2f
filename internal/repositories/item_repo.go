package repositories

import (
	"context"
	"fmt"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	Update(ctx context.Context, item *models.InventoryItem) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error)
	WithTx(tx pgx.Tx) ItemRepository
}

type itemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) WithTx(tx pgx.Tx) ItemRepository {
	return &itemRepo{db: tx}
}

// unit_price is read as text so the decimal survives without a float round trip.
const itemColumns = `id, name, category, unit, unit_price::text, minimum_stock, maximum_stock, is_active, created_at, updated_at`

// scanItem reads itemColumns followed by any extra destinations.
func scanItem(row pgx.Row, extra ...interface{}) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	var price string
	dest := append([]interface{}{&item.ID, &item.Name, &item.Category, &item.Unit, &price,
		&item.MinimumStock, &item.MaximumStock, &item.IsActive, &item.CreatedAt, &item.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	var err error
	item.UnitPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parsing unit price %q: %w", price, err)
	}
	return item, nil
}

func (r *itemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now

	query := `
		INSERT INTO inventory_items (id, name, category, unit, unit_price, minimum_stock, maximum_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Category, item.Unit, item.UnitPrice.String(),
		item.MinimumStock, item.MaximumStock, item.IsActive, item.CreatedAt, item.UpdatedAt)
	return translate(err)
}

func (r *itemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", id, translate(err))
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.InventoryItem) error {
	item.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE inventory_items
		SET name = $2, unit = $3, unit_price = $4::numeric, minimum_stock = $5, maximum_stock = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Unit, item.UnitPrice.String(),
		item.MinimumStock, item.MaximumStock, item.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", item.ID, common.ErrNotFound)
	}
	return nil
}

func (r *itemRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE inventory_items SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *itemRepo) List(ctx context.Context, filter *models.ItemFilter) ([]*models.InventoryItem, error) {
	if filter == nil {
		filter = &models.ItemFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 100
	}

	p := &placeholder{}
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1 = 1`
	if filter.Category != nil {
		query += " AND category = " + p.add(*filter.Category)
	}
	if filter.Active != nil {
		query += " AND is_active = " + p.add(*filter.Active)
	}
	query += " ORDER BY name LIMIT " + p.add(filter.Limit) + " OFFSET " + p.add(filter.Offset)

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := []*models.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
