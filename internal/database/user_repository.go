package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	userNotFound = "User not found"
	userColumns  = `id, name, email, phone, password_hash, role, created_at, updated_at`
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a user. Email is stored lower case.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return classify(err, "create user", "")
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, classify(err, "get user", userNotFound)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, classify(err, "get user", userNotFound)
	}
	return &user, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID.
// Pass uuid.Nil to check against every user.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.GetContext(ctx, &taken,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		strings.ToLower(strings.TrimSpace(email)), excludeID)
	if err != nil {
		return false, classify(err, "check email", "")
	}
	return taken, nil
}

// UpdateProfile updates the non-nil fields and returns the fresh row
func (r *UserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*models.User, error) {
	sets := []string{}
	args := []interface{}{id}
	if name != nil && *name != "" {
		args = append(args, strings.TrimSpace(*name))
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if email != nil && *email != "" {
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
		sets = append(sets, fmt.Sprintf("email = $%d", len(args)))
	}
	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		return nil, classify(err, "update profile", userNotFound)
	}
	return &user, nil
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`, id, passwordHash, time.Now())
	if err != nil {
		return classify(err, "update password", "")
	}
	return requireRow(result, userNotFound)
}

// ListUsers returns one page of users, newest first, and the total count
func (r *UserRepository) ListUsers(ctx context.Context, filter models.UserFilter, page models.PageRequest) ([]models.User, int, error) {
	var where whereClause
	if filter.Role != nil {
		where.add("role = $%d", *filter.Role)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+where.String(), where.args...); err != nil {
		return nil, 0, classify(err, "count users", "")
	}

	limit, args := where.page(page)
	users := []models.User{}
	query := `SELECT ` + userColumns + ` FROM users` + where.String() + ` ORDER BY created_at DESC` + limit
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, classify(err, "list users", "")
	}
	return users, total, nil
}
