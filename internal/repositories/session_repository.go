package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/traininghub/training-api/internal/models"
)

// sessionRepository provides access to the sessions table
type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new training session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

const sessionColumns = `id, title, description, trainer_id, trainee_id, scheduled_date, duration_minutes, status, created_at, updated_at`

// scanSession scans one session row
func scanSession(row interface{ Scan(dest ...any) error }) (*models.Session, error) {
	session := &models.Session{}
	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.Description,
		&session.TrainerID,
		&session.TraineeID,
		&session.ScheduledDate,
		&session.DurationMinutes,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Create inserts a new training session into the database
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (title, description, trainer_id, trainee_id, scheduled_date, duration_minutes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		session.Title, session.Description, session.TrainerID, session.TraineeID,
		session.ScheduledDate, session.DurationMinutes, session.Status,
	)
	if err != nil {
		r.logger.Error("failed to create session", zap.Error(err))
		return fmt.Errorf("failed to create session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	session.ID = int(id)
	return nil
}

// GetByID retrieves a training session by ID
func (r *sessionRepository) GetByID(ctx context.Context, sessionID int) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, sessionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d: %w", sessionID, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get session by id", zap.Error(err), zap.Int("session_id", sessionID))
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// GetAll retrieves a paginated list of training sessions
func (r *sessionRepository) GetAll(ctx context.Context, page, count int) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY id LIMIT ? OFFSET ?`

	offset := (page - 1) * count
	rows, err := r.db.QueryContext(ctx, query, count, offset)
	if err != nil {
		r.logger.Error("failed to list sessions", zap.Error(err))
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			r.logger.Error("failed to scan session row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}

	return sessions, nil
}

// Update writes all mutable session fields in a single statement
func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions
		SET title = ?, description = ?, trainer_id = ?, trainee_id = ?, scheduled_date = ?, duration_minutes = ?, status = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		session.Title, session.Description, session.TrainerID, session.TraineeID,
		session.ScheduledDate, session.DurationMinutes, session.Status, session.ID,
	)
	if err != nil {
		r.logger.Error("failed to update session", zap.Error(err), zap.Int("session_id", session.ID))
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

// Delete deletes a training session by ID
func (r *sessionRepository) Delete(ctx context.Context, sessionID int) error {
	query := `DELETE FROM sessions WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, sessionID)
	if err != nil {
		r.logger.Error("failed to delete session", zap.Error(err), zap.Int("session_id", sessionID))
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %d: %w", sessionID, models.ErrNotFound)
	}

	return nil
}

// CountByStatus returns the number of training sessions grouped by status
func (r *sessionRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `SELECT status, COUNT(id) FROM sessions GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to count sessions by status", zap.Error(err))
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status count rows: %w", err)
	}

	return counts, nil
}
