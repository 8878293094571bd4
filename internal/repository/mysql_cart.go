package repository

import (
	"context"
	"database/sql"
	"errors"

	"medmarket/internal/entity"
)

type MySQLCartRepository struct {
	mysqlBase
}

func NewMySQLCartRepository(db *sql.DB) *MySQLCartRepository {
	return &MySQLCartRepository{mysqlBase{db}}
}

const cartLineColumns = `
	SELECT c.id, c.user_id, c.medicine_id, c.quantity, c.created_at, m.name, m.price
	FROM cart_items c
	JOIN medicines m ON c.medicine_id = m.id`

func (r *MySQLCartRepository) Create(ctx context.Context, item *entity.CartItem) (*entity.CartItem, error) {
	query := `INSERT INTO cart_items (user_id, medicine_id, quantity) VALUES (?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, item.UserID, item.MedicineID, item.Quantity)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	item.ID = int(id)
	return item, nil
}

func (r *MySQLCartRepository) GetByID(ctx context.Context, id int) (*entity.CartItem, error) {
	item := &entity.CartItem{}
	query := `SELECT id, user_id, medicine_id, quantity, created_at FROM cart_items WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&item.ID, &item.UserID, &item.MedicineID, &item.Quantity, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *MySQLCartRepository) ListByUser(ctx context.Context, userID int) ([]entity.CartLine, error) {
	return r.queryLines(ctx, cartLineColumns+` WHERE c.user_id = ? ORDER BY c.created_at DESC`, userID)
}

func (r *MySQLCartRepository) ListAll(ctx context.Context) ([]entity.CartLine, error) {
	return r.queryLines(ctx, cartLineColumns+` ORDER BY c.created_at DESC`)
}

// LockByUser holds row locks on the user's cart (and the joined
// medicine rows) until the enclosing transaction commits, so a
// concurrent checkout by the same user serializes behind it.
func (r *MySQLCartRepository) LockByUser(ctx context.Context, userID int) ([]entity.CartLine, error) {
	return r.queryLines(ctx, cartLineColumns+` WHERE c.user_id = ? ORDER BY c.id FOR UPDATE`, userID)
}

func (r *MySQLCartRepository) queryLines(ctx context.Context, query string, args ...interface{}) ([]entity.CartLine, error) {
	rows, err := r.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []entity.CartLine
	for rows.Next() {
		line := entity.CartLine{}
		if err := rows.Scan(&line.ID, &line.UserID, &line.MedicineID, &line.Quantity, &line.CreatedAt, &line.MedicineName, &line.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *MySQLCartRepository) UpdateQuantity(ctx context.Context, id, quantity int) error {
	_, err := r.q(ctx).ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, id)
	return err
}

func (r *MySQLCartRepository) Delete(ctx context.Context, id int) error {
	res, err := r.q(ctx).ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, id)
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

func (r *MySQLCartRepository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.q(ctx).ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
