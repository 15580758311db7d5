package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/bonus-tracker/internal/models"
	"github.com/magabrotheeeer/bonus-tracker/internal/storage"
)

const messageColumns = `id, title, text, target_all, target_emails, target_teams,
	sticky, active, dismissed_for, created_at, sender`

// CreateMessage добавляет объявление.
func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) error {
	const op = "postgres.CreateMessage"

	emails, teams, dismissed, err := marshalMessageLists(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO messages (` + messageColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = s.DB.ExecContext(ctx, query,
		msg.ID, msg.Title, msg.Text, msg.TargetAll, emails, teams,
		msg.Sticky, msg.Active, dismissed, msg.CreatedAt, msg.Sender)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMessage возвращает объявление по id.
func (s *Storage) GetMessage(ctx context.Context, id string) (*models.Message, error) {
	const op = "postgres.GetMessage"

	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	msg, err := scanMessage(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}

// UpdateMessage перезаписывает объявление целиком.
func (s *Storage) UpdateMessage(ctx context.Context, msg models.Message) error {
	const op = "postgres.UpdateMessage"

	emails, teams, dismissed, err := marshalMessageLists(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE messages
			  SET title = $2, text = $3, target_all = $4, target_emails = $5,
			      target_teams = $6, sticky = $7, active = $8, dismissed_for = $9,
			      sender = $10
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query,
		msg.ID, msg.Title, msg.Text, msg.TargetAll, emails, teams,
		msg.Sticky, msg.Active, dismissed, msg.Sender)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
	}
	return nil
}

// DeleteMessage удаляет объявление по id.
func (s *Storage) DeleteMessage(ctx context.Context, id string) error {
	const op = "postgres.DeleteMessage"

	_, err := s.DB.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListMessages возвращает все объявления, отсортированные по времени создания.
func (s *Storage) ListMessages(ctx context.Context) ([]models.Message, error) {
	const op = "postgres.ListMessages"

	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *msg)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkDismissed добавляет email в список скрывших объявление.
// Повторный вызов для того же email ничего не меняет.
func (s *Storage) MarkDismissed(ctx context.Context, id, email string) error {
	const op = "postgres.MarkDismissed"

	query := `UPDATE messages
			  SET dismissed_for = (
			      SELECT to_jsonb(array_agg(DISTINCT e ORDER BY e))
			      FROM jsonb_array_elements_text(dismissed_for || to_jsonb(ARRAY[$2::text])) AS e
			  )
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMessageNotFound)
	}
	return nil
}

func marshalMessageLists(msg models.Message) (emails, teams, dismissed []byte, err error) {
	if emails, err = json.Marshal(stringsOrEmpty(msg.TargetEmails)); err != nil {
		return nil, nil, nil, err
	}
	if teams, err = json.Marshal(stringsOrEmpty(msg.TargetTeams)); err != nil {
		return nil, nil, nil, err
	}
	if dismissed, err = json.Marshal(stringsOrEmpty(msg.DismissedFor)); err != nil {
		return nil, nil, nil, err
	}
	return emails, teams, dismissed, nil
}

// stringsOrEmpty гарантирует JSON-массив вместо null в колонках JSONB.
func stringsOrEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func scanMessage(row rowScanner) (*models.Message, error) {
	msg := &models.Message{}
	var emails, teams, dismissed []byte

	if err := row.Scan(&msg.ID, &msg.Title, &msg.Text, &msg.TargetAll, &emails,
		&teams, &msg.Sticky, &msg.Active, &dismissed, &msg.CreatedAt, &msg.Sender); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(emails, &msg.TargetEmails); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(teams, &msg.TargetTeams); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dismissed, &msg.DismissedFor); err != nil {
		return nil, err
	}
	return msg, nil
}
