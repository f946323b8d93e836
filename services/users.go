package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodflow/db"
	"foodflow/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const userColumns = `id, full_name, email, phone, role, provider, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.Provider, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser registers an email/password account. Passwords are stored
// as bcrypt hashes only.
func CreateUser(ctx context.Context, fullName, email, phone, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		ID:        uuid.NewString(),
		FullName:  fullName,
		Email:     email,
		Phone:     phone,
		Role:      models.UserRoleCustomer,
		Provider:  models.AuthProviderPassword,
		CreatedAt: time.Now(),
	}
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, full_name, email, phone, role, provider, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.FullName, u.Email, u.Phone, u.Role, u.Provider, string(hash), u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrEmailTaken
	}
	return u, nil
}

func GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// VerifyLogin checks an email/password pair. Federated accounts have no
// password hash and never match.
func VerifyLogin(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	var hash string
	err := db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.Role, &u.Provider, &u.CreatedAt, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// EnsureGoogleUser returns the account for a verified Google identity,
// creating the user row on first sign-in.
func EnsureGoogleUser(ctx context.Context, email, fullName string) (*models.User, error) {
	if u, err := GetUserByEmail(ctx, email); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if fullName == "" {
		fullName = "User"
	}
	u := &models.User{
		ID:        uuid.NewString(),
		FullName:  fullName,
		Email:     email,
		Role:      models.UserRoleCustomer,
		Provider:  models.AuthProviderGoogle,
		CreatedAt: time.Now(),
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, full_name, email, phone, role, provider, password_hash, created_at)
		VALUES ($1, $2, $3, '', $4, $5, '', $6)
		ON CONFLICT (email) DO NOTHING`,
		u.ID, u.FullName, u.Email, u.Role, u.Provider, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert google user: %w", err)
	}
	// A concurrent first sign-in may have won the insert.
	return GetUserByEmail(ctx, email)
}

// SetUserRole updates a user's role by email. Used by the set-admin
// subcommand and the admin API.
func SetUserRole(ctx context.Context, email, role string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE users SET role = $1 WHERE email = $2`, role, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account and everything it owns. Orders and
// applications reference the user row, so they go first.
func DeleteUser(ctx context.Context, userID string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM orders WHERE user_id = $1`, userID); err != nil {
		return err
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM applications WHERE user_id = $1`, userID); err != nil {
		return err
	}
	tag, err := db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}
