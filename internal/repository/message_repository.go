package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Internal Message Repository
// ============================================

type pgMessageRepository struct {
	pool *pgxpool.Pool
}

func (r *pgMessageRepository) Create(ctx context.Context, msg *InternalMessage, recipientIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO internal_messages (sender_id, subject, body)
		VALUES ($1, $2, $3)
		RETURNING message_id, created_at`,
		msg.SenderID, msg.Subject, msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return err
	}

	for _, recipientID := range recipientIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO message_recipients (message_id, recipient_id) VALUES ($1, $2)`,
			msg.ID, recipientID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pgMessageRepository) FindByID(ctx context.Context, id int) (*InternalMessage, error) {
	msg := &InternalMessage{}
	err := r.pool.QueryRow(ctx, `
		SELECT message_id, sender_id, subject, body, created_at
		FROM internal_messages WHERE message_id = $1`, id,
	).Scan(&msg.ID, &msg.SenderID, &msg.Subject, &msg.Body, &msg.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *pgMessageRepository) FindInbox(ctx context.Context, recipientID int) ([]*InternalMessage, error) {
	query := `
		SELECT m.message_id, m.sender_id, m.subject, m.body, m.created_at
		FROM internal_messages m
		JOIN message_recipients mr ON mr.message_id = m.message_id
		WHERE mr.recipient_id = $1
		ORDER BY m.message_id DESC`
	return r.queryMessages(ctx, query, recipientID)
}

func (r *pgMessageRepository) FindSent(ctx context.Context, senderID int) ([]*InternalMessage, error) {
	query := `
		SELECT message_id, sender_id, subject, body, created_at
		FROM internal_messages
		WHERE sender_id = $1
		ORDER BY message_id DESC`
	return r.queryMessages(ctx, query, senderID)
}

func (r *pgMessageRepository) queryMessages(ctx context.Context, query string, arg interface{}) ([]*InternalMessage, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*InternalMessage
	for rows.Next() {
		msg := &InternalMessage{}
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.Subject, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *pgMessageRepository) FindRecipients(ctx context.Context, messageID int) ([]*MessageRecipient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT message_id, recipient_id, read, read_at
		FROM message_recipients WHERE message_id = $1
		ORDER BY recipient_id`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recipients []*MessageRecipient
	for rows.Next() {
		mr := &MessageRecipient{}
		if err := rows.Scan(&mr.MessageID, &mr.RecipientID, &mr.Read, &mr.ReadAt); err != nil {
			return nil, err
		}
		recipients = append(recipients, mr)
	}
	return recipients, rows.Err()
}

func (r *pgMessageRepository) MarkRead(ctx context.Context, messageID, recipientID int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE message_recipients SET read = TRUE, read_at = NOW()
		WHERE message_id = $1 AND recipient_id = $2`,
		messageID, recipientID)
	return err
}

func (r *pgMessageRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM internal_messages WHERE message_id = $1`, id)
	return err
}

// ============================================
// PostgreSQL Master Data Repository
// ============================================

type pgMasterDataRepository struct {
	pool *pgxpool.Pool
}

func (r *pgMasterDataRepository) List(ctx context.Context, kind string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name FROM master_items WHERE kind = $1 ORDER BY master_item_id`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *pgMasterDataRepository) Exists(ctx context.Context, kind, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM master_items WHERE kind = $1 AND name = $2)`,
		kind, name,
	).Scan(&exists)
	return exists, err
}

func (r *pgMasterDataRepository) Add(ctx context.Context, kind, name string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO master_items (kind, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		kind, name)
	return err
}
