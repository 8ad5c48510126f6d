package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// userRepository provides access to the users table
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

const userColumns = `id, username, email, password_hash, role, first_name, last_name, is_temporary_password, created_at, updated_at`

// scanUser scans one user row
func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.IsTemporaryPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name, is_temporary_password)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.FirstName, user.LastName, user.IsTemporaryPassword,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, userID int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int("user_id", userID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetAll retrieves a paginated list of users
func (r *userRepository) GetAll(ctx context.Context, page, count int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT ? OFFSET ?`

	offset := (page - 1) * count
	rows, err := r.db.QueryContext(ctx, query, count, offset)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}

	return users, nil
}

// Update writes all mutable user fields in a single statement
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = ?, email = ?, password_hash = ?, role = ?, first_name = ?, last_name = ?, is_temporary_password = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
		user.FirstName, user.LastName, user.IsTemporaryPassword, user.ID,
	)
	if err != nil {
		r.logger.Error("failed to update user", zap.Error(err), zap.Int("user_id", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete deletes a user by ID
func (r *userRepository) Delete(ctx context.Context, userID int) error {
	query := `DELETE FROM users WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}

	return nil
}

// ExistsByUsername checks if a user exists with the given username
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE username = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check username existence", zap.Error(err), zap.String("username", username))
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT * FROM users WHERE email = ?)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, email).Scan(&exists)
	if err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// CountByRole returns the number of users grouped by role
func (r *userRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	query := `SELECT role, COUNT(id) FROM users GROUP BY role`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to count users by role", zap.Error(err))
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count row: %w", err)
		}
		counts[role] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role count rows: %w", err)
	}

	return counts, nil
}
