package repository

import (
	"context"
	"database/sql"
	"errors"

	"medmarket/internal/entity"
)

type MySQLFeedbackRepository struct {
	mysqlBase
}

func NewMySQLFeedbackRepository(db *sql.DB) *MySQLFeedbackRepository {
	return &MySQLFeedbackRepository{mysqlBase{db}}
}

func (r *MySQLFeedbackRepository) CreateMedicineFeedback(ctx context.Context, f *entity.MedicineFeedback) (*entity.MedicineFeedback, error) {
	query := `INSERT INTO medicine_feedback (user_id, medicine_id, rating, comment) VALUES (?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, f.UserID, f.MedicineID, f.Rating, f.Comment)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	f.ID = int(id)
	return f, nil
}

func (r *MySQLFeedbackRepository) CreateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) (*entity.OrderFeedback, error) {
	query := `INSERT INTO order_feedback (user_id, order_id, order_quality, delivery_rating, comments) VALUES (?, ?, ?, ?, ?)`
	res, err := r.q(ctx).ExecContext(ctx, query, f.UserID, f.OrderID, f.OrderQuality, f.DeliveryRating, f.Comments)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	f.ID = int(id)
	return f, nil
}

func (r *MySQLFeedbackRepository) ListMedicineFeedback(ctx context.Context) ([]entity.MedicineFeedback, error) {
	query := `SELECT id, user_id, medicine_id, rating, comment, created_at FROM medicine_feedback ORDER BY created_at DESC`
	rows, err := r.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []entity.MedicineFeedback
	for rows.Next() {
		f := entity.MedicineFeedback{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.MedicineID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (r *MySQLFeedbackRepository) ListOrderFeedbackByUser(ctx context.Context, userID int) ([]entity.OrderFeedback, error) {
	query := `SELECT id, user_id, order_id, order_quality, delivery_rating, comments, created_at FROM order_feedback WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.q(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []entity.OrderFeedback
	for rows.Next() {
		f := entity.OrderFeedback{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.OrderID, &f.OrderQuality, &f.DeliveryRating, &f.Comments, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

func (r *MySQLFeedbackRepository) GetOrderFeedbackByID(ctx context.Context, id int) (*entity.OrderFeedback, error) {
	f := &entity.OrderFeedback{}
	query := `SELECT id, user_id, order_id, order_quality, delivery_rating, comments, created_at FROM order_feedback WHERE id = ?`
	err := r.q(ctx).QueryRowContext(ctx, query, id).Scan(&f.ID, &f.UserID, &f.OrderID, &f.OrderQuality, &f.DeliveryRating, &f.Comments, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (r *MySQLFeedbackRepository) UpdateOrderFeedback(ctx context.Context, f *entity.OrderFeedback) error {
	query := `UPDATE order_feedback SET order_quality = ?, delivery_rating = ?, comments = ? WHERE id = ?`
	_, err := r.q(ctx).ExecContext(ctx, query, f.OrderQuality, f.DeliveryRating, f.Comments, f.ID)
	return err
}
