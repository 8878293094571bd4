package repository

import (
	"context"
	"database/sql"
	"errors"

	"medmarket/internal/entity"
)

type MySQLAddressRepository struct {
	mysqlBase
}

func NewMySQLAddressRepository(db *sql.DB) *MySQLAddressRepository {
	return &MySQLAddressRepository{mysqlBase{db}}
}

func (r *MySQLAddressRepository) Create(ctx context.Context, a *entity.Address) (*entity.Address, error) {
	query := `INSERT INTO addresses (user_id, street, building, floor, apartment) VALUES (?, ?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, a.UserID, a.Street, a.Building, a.Floor, a.Apartment)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	a.ID = int(id)
	return a, nil
}

func (r *MySQLAddressRepository) GetByID(ctx context.Context, id int) (*entity.Address, error) {
	addr := &entity.Address{}
	query := `SELECT id, user_id, street, building, floor, apartment FROM addresses WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.Building, &addr.Floor, &addr.Apartment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return addr, nil
}

func (r *MySQLAddressRepository) ListByUser(ctx context.Context, userID int) ([]entity.Address, error) {
	query := `SELECT id, user_id, street, building, floor, apartment FROM addresses WHERE user_id = ?`
	rows, err := r.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []entity.Address
	for rows.Next() {
		addr := entity.Address{}
		if err := rows.Scan(&addr.ID, &addr.UserID, &addr.Street, &addr.Building, &addr.Floor, &addr.Apartment); err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, rows.Err()
}

func (r *MySQLAddressRepository) Delete(ctx context.Context, id int) error {
	res, err := r.q(ctx).ExecContext(ctx, `DELETE FROM addresses WHERE id = ?`, id)
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
