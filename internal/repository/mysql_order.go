package repository

import (
	"context"
	"database/sql"
	"errors"

	"medmarket/internal/entity"
)

type MySQLOrderRepository struct {
	mysqlBase
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{mysqlBase{db}}
}

func (r *MySQLOrderRepository) Create(ctx context.Context, o *entity.Order) (*entity.Order, error) {
	query := `INSERT INTO orders (order_number, user_id, address_id, total_price, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, o.OrderNumber, o.UserID, o.AddressID, o.TotalPrice, o.Status)
	if err != nil {
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// Batch insert the item snapshot.
	itemQuery := `INSERT INTO order_items (order_id, medicine_id, quantity, unit_price) VALUES `
	var values []interface{}
	for _, item := range o.Items {
		itemQuery += "(?, ?, ?, ?),"
		values = append(values, orderID, item.MedicineID, item.Quantity, item.UnitPrice)
	}
	itemQuery = itemQuery[:len(itemQuery)-1]

	if _, err := r.q(ctx).ExecContext(ctx, itemQuery, values...); err != nil {
		return nil, err
	}

	o.ID = int(orderID)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return o, nil
}

func (r *MySQLOrderRepository) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	o := &entity.Order{}
	query := `SELECT id, order_number, user_id, address_id, total_price, status, created_at FROM orders WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.TotalPrice, &o.Status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	itemQuery := `SELECT id, order_id, medicine_id, quantity, unit_price FROM order_items WHERE order_id = ?`
	rows, err := r.q(ctx).QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MedicineID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	return o, rows.Err()
}

func (r *MySQLOrderRepository) ListByUser(ctx context.Context, userID int) ([]entity.Order, error) {
	query := `SELECT id, order_number, user_id, address_id, total_price, status, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryOrders(ctx, query, userID)
}

func (r *MySQLOrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	query := `SELECT id, order_number, user_id, address_id, total_price, status, created_at FROM orders ORDER BY created_at DESC`
	return r.queryOrders(ctx, query)
}

func (r *MySQLOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]entity.Order, error) {
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o := entity.Order{}
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.AddressID, &o.TotalPrice, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id int, status entity.OrderStatus) error {
	res, err := r.q(ctx).ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
