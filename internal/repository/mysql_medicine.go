package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"medmarket/internal/entity"
)

type MySQLMedicineRepository struct {
	mysqlBase
}

func NewMySQLMedicineRepository(db *sql.DB) *MySQLMedicineRepository {
	return &MySQLMedicineRepository{mysqlBase{db}}
}

func (r *MySQLMedicineRepository) Create(ctx context.Context, m *entity.Medicine) (*entity.Medicine, error) {
	query := `INSERT INTO medicines (user_id, name, price, stock, expiry_date, description) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, m.UserID, m.Name, m.Price, m.Stock, m.ExpiryDate, m.Description)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	m.ID = int(id)
	return m, nil
}

func (r *MySQLMedicineRepository) GetByID(ctx context.Context, id int) (*entity.Medicine, error) {
	m := &entity.Medicine{}
	query := `SELECT id, user_id, name, price, stock, expiry_date, description FROM medicines WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&m.ID, &m.UserID, &m.Name, &m.Price, &m.Stock, &m.ExpiryDate, &m.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (r *MySQLMedicineRepository) List(ctx context.Context) ([]entity.Medicine, error) {
	query := `SELECT id, user_id, name, price, stock, expiry_date, description FROM medicines`
	rows, err := r.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medicines []entity.Medicine
	for rows.Next() {
		m := entity.Medicine{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Price, &m.Stock, &m.ExpiryDate, &m.Description); err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	return medicines, rows.Err()
}

func (r *MySQLMedicineRepository) Update(ctx context.Context, id int, u entity.MedicineUpdate) error {
	var sets []string
	var values []interface{}
	if u.Name != nil {
		sets = append(sets, "name = ?")
		values = append(values, *u.Name)
	}
	if u.Price != nil {
		sets = append(sets, "price = ?")
		values = append(values, *u.Price)
	}
	if u.Stock != nil {
		sets = append(sets, "stock = ?")
		values = append(values, *u.Stock)
	}
	if u.ExpiryDate != nil {
		sets = append(sets, "expiry_date = ?")
		values = append(values, *u.ExpiryDate)
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		values = append(values, *u.Description)
	}
	if len(sets) == 0 {
		return nil
	}
	values = append(values, id)

	// No RowsAffected check: mysql reports 0 for a value-preserving
	// update, and callers resolve existence beforehand.
	query := fmt.Sprintf(`UPDATE medicines SET %s WHERE id = ?`, strings.Join(sets, ", "))
	_, err := r.q(ctx).ExecContext(ctx, query, values...)
	return err
}

func (r *MySQLMedicineRepository) Delete(ctx context.Context, id int) error {
	res, err := r.q(ctx).ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
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

func (r *MySQLMedicineRepository) ReserveStock(ctx context.Context, id, quantity int) error {
	query := `UPDATE medicines SET stock = stock - ? WHERE id = ? AND stock >= ?`
	res, err := r.q(ctx).ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *MySQLMedicineRepository) RestoreStock(ctx context.Context, id, quantity int) error {
	_, err := r.q(ctx).ExecContext(ctx, `UPDATE medicines SET stock = stock + ? WHERE id = ?`, quantity, id)
	return err
}
