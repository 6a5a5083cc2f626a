package sqlite

import (
	"context"
	"database/sql"

	"github.com/fourpaws/petstore/internal/petstore/domain"
	"github.com/fourpaws/petstore/internal/petstore/store"
)

type ordersRepo struct {
	q querier
}

func (r *ordersRepo) CreateOrder(ctx context.Context, o domain.Order) (int64, error) {
	var shipDate any
	if o.ShipDate != nil {
		shipDate = o.ShipDate.UTC()
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO orders (pet_id, quantity, ship_date, status, complete)
		VALUES (?, ?, ?, ?, ?)`,
		o.PetID, o.Quantity, shipDate, o.Status, o.Complete,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *ordersRepo) GetOrderByID(ctx context.Context, id int64) (domain.Order, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT id, pet_id, quantity, ship_date, status, complete, created_at, updated_at
		FROM orders WHERE id = ?`, id)

	var (
		o        domain.Order
		shipDate sql.NullTime
	)
	err := row.Scan(&o.ID, &o.PetID, &o.Quantity, &shipDate, &o.Status, &o.Complete, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Order{}, mapNotFound(err)
	}
	if shipDate.Valid {
		t := shipDate.Time
		o.ShipDate = &t
	}
	return o, nil
}

func (r *ordersRepo) DeleteOrder(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
