package services

import (
	"context"
	"errors"

	"foodflow/db"
	"foodflow/models"

	"github.com/jackc/pgx/v5"
)

var (
	ErrApplicationExists   = errors.New("a pending or approved application already exists")
	ErrApplicationNotFound = errors.New("application not found")
)

// CreateApplication submits a partner request to list a restaurant. A
// user can have at most one pending or approved application.
func CreateApplication(ctx context.Context, userID, restaurantName, city, phone string) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO applications (user_id, restaurant_name, city, phone, status)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (
			SELECT 1 FROM applications a
			WHERE a.user_id = $1 AND (a.status = 'pending' OR a.status = 'approved')
		)
		RETURNING id::text`,
		userID, restaurantName, city, phone, models.ApplicationStatusPending,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrApplicationExists
		}
		return "", err
	}
	return id, nil
}

const applicationColumns = `id::text, user_id, restaurant_name, city, COALESCE(phone,''), status, reviewed_by, reject_reason, created_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.UserID, &a.RestaurantName, &a.City, &a.Phone,
		&a.Status, &a.ReviewedBy, &a.RejectReason, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListApplicationsByUser returns the user's applications, newest first.
func ListApplicationsByUser(ctx context.Context, userID string) ([]models.Application, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListPendingApplications returns up to limit pending applications (newest first).
func ListPendingApplications(ctx context.Context, limit int) ([]models.Application, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE status = $1 ORDER BY created_at DESC LIMIT $2`,
		models.ApplicationStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]models.Application, error) {
	var list []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

// ReviewApplication approves or rejects a pending application.
func ReviewApplication(ctx context.Context, id, reviewerID, status, rejectReason string) error {
	if status != models.ApplicationStatusApproved && status != models.ApplicationStatusRejected {
		return errors.New("review status must be approved or rejected")
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE applications SET
			status = $1,
			reviewed_by = $2,
			reject_reason = NULLIF($3, ''),
			reviewed_at = now()
		WHERE id::text = $4 AND status = $5`,
		status, reviewerID, rejectReason, id, models.ApplicationStatusPending,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
