package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"medmarket/internal/entity"
)

type MySQLUserRepository struct {
	mysqlBase
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{mysqlBase{db}}
}

func (r *MySQLUserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (name, email, role, password_hash) VALUES (?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, u.Name, strings.ToLower(u.Email), u.Role, u.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	u.ID = int(id)
	u.Email = strings.ToLower(u.Email)
	return u, nil
}

func (r *MySQLUserRepository) GetByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, role, password_hash FROM users WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user := &entity.User{}
	query := `SELECT id, name, email, role, password_hash FROM users WHERE email = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *MySQLUserRepository) List(ctx context.Context) ([]entity.User, error) {
	query := `SELECT id, name, email, role, password_hash FROM users`
	rows, err := r.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		user := entity.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Role, &user.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
