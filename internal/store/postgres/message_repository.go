package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentesana/agendapro/internal/model"
	"github.com/mentesana/agendapro/internal/store"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, m model.ContactMessage) (string, error) {
	query := `
		INSERT INTO messages (id, name, email, message, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, query, id, m.Name, m.Email, m.Message, m.Status)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	return id, nil
}

func (r *MessageRepository) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE messages SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (r *MessageRepository) List(ctx context.Context) ([]model.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, status, created_at
		FROM messages
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Status, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}
