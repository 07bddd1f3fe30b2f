package repositories

import (
	"context"
	"time"

	"coworkops/internal/models"
)

// ReportRepository reads the source rows reporting views aggregate. Reads take
// no locks.
type ReportRepository interface {
	ItemStockTotals(ctx context.Context) ([]*models.ItemStockTotal, error)
	ClosedEntries(ctx context.Context, start, end time.Time) ([]*models.NamedTimeEntry, error)
}

type reportRepo struct {
	db DBTX
}

func NewReportRepo(db DBTX) ReportRepository {
	return &reportRepo{db: db}
}

// ItemStockTotals returns every active item with its summed on-hand quantity
// and the quantity currently travelling between locations.
func (r *reportRepo) ItemStockTotals(ctx context.Context) ([]*models.ItemStockTotal, error) {
	query := `
		SELECT i.id, i.name, i.category, i.unit, i.unit_price::text, i.minimum_stock, i.maximum_stock, i.is_active, i.created_at, i.updated_at,
			COALESCE((SELECT SUM(s.quantity) FROM stock_levels s WHERE s.item_id = i.id), 0),
			COALESCE((SELECT SUM(t.quantity) FROM transfers t WHERE t.item_id = i.id AND t.status = 'in_transit'), 0)
		FROM inventory_items i
		WHERE i.is_active
		ORDER BY i.name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	totals := []*models.ItemStockTotal{}
	for rows.Next() {
		var available, inTransit int
		item, err := scanItem(rows, &available, &inTransit)
		if err != nil {
			return nil, err
		}
		totals = append(totals, &models.ItemStockTotal{Item: *item, Available: available, InTransit: inTransit})
	}
	return totals, rows.Err()
}

// ClosedEntries returns checked-out entries whose check-in falls on a day in
// [start, end].
func (r *reportRepo) ClosedEntries(ctx context.Context, start, end time.Time) ([]*models.NamedTimeEntry, error) {
	query := `
		SELECT e.id, e.subject_id, e.check_in, e.check_out, e.duration_minutes, e.status, e.entry_date, e.notes, e.location_id, e.created_at,
			u.full_name
		FROM time_entries e
		JOIN users u ON u.id = e.subject_id
		WHERE e.status = 'Checked Out' AND e.check_in >= $1 AND e.check_in < $2
		ORDER BY u.full_name, e.check_in
	`
	rows, err := r.db.Query(ctx, query, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	entries := []*models.NamedTimeEntry{}
	for rows.Next() {
		n := &models.NamedTimeEntry{}
		e := &n.TimeEntry
		if err := rows.Scan(&e.ID, &e.SubjectID, &e.CheckIn, &e.CheckOut, &e.DurationMinutes, &e.Status,
			&e.Date, &e.Notes, &e.LocationID, &e.CreatedAt, &n.SubjectName); err != nil {
			return nil, err
		}
		entries = append(entries, n)
	}
	return entries, rows.Err()
}
