package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

const userColumns = `email, name, team, password_hash, invisible, goals, color,
	is_admin, created_at, last_login_at, session_sid, session_expires_at`

// CreateUser сохраняет нового пользователя.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "postgres.CreateUser"

	goals, err := json.Marshal(user.Goals)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = s.DB.ExecContext(ctx, query,
		user.Email, user.Name, user.Team, user.PasswordHash, user.Invisible,
		goals, user.Color, user.IsAdmin, user.CreatedAt,
		user.LastLoginAt, user.SessionSID, user.SessionExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrDuplicateEmail)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser возвращает пользователя по email.
func (s *Storage) GetUser(ctx context.Context, email string) (*models.User, error) {
	const op = "postgres.GetUser"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserBySession возвращает пользователя по идентификатору сессии.
func (s *Storage) GetUserBySession(ctx context.Context, sid string) (*models.User, error) {
	const op = "postgres.GetUserBySession"

	query := `SELECT ` + userColumns + ` FROM users WHERE session_sid = $1 LIMIT 1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, sid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser перезаписывает запись пользователя целиком.
func (s *Storage) UpdateUser(ctx context.Context, user models.User) error {
	const op = "postgres.UpdateUser"

	goals, err := json.Marshal(user.Goals)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE users
			  SET name = $2, team = $3, password_hash = $4, invisible = $5,
			      goals = $6, color = $7, is_admin = $8, last_login_at = $9,
			      session_sid = $10, session_expires_at = $11
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query,
		user.Email, user.Name, user.Team, user.PasswordHash, user.Invisible,
		goals, user.Color, user.IsAdmin, user.LastLoginAt,
		user.SessionSID, user.SessionExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

// DeleteUser удаляет пользователя вместе с его записями продаж
// в одной транзакции.
func (s *Storage) DeleteUser(ctx context.Context, email string) error {
	const op = "postgres.DeleteUser"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM records WHERE email = $1`, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей, отсортированных по email.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "postgres.ListUsers"

	query := `SELECT ` + userColumns + ` FROM users ORDER BY email`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var goals []byte
	var lastLogin, sessionExpires sql.NullTime
	var sessionSID sql.NullString

	if err := row.Scan(&u.Email, &u.Name, &u.Team, &u.PasswordHash, &u.Invisible,
		&goals, &u.Color, &u.IsAdmin, &u.CreatedAt,
		&lastLogin, &sessionSID, &sessionExpires); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(goals, &u.Goals); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	if sessionSID.Valid {
		u.SessionSID = &sessionSID.String
	}
	if sessionExpires.Valid {
		u.SessionExpiresAt = &sessionExpires.Time
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
