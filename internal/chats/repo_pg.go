package chats

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a message.
func (r *PGRepo) Append(ctx context.Context, msg Message) error {
	const query = `
INSERT INTO chat_messages (id, document_id, session_id, question, answer, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query, msg.ID, msg.DocumentID, msg.SessionID, msg.Question, msg.Answer, msg.Timestamp)
	return err
}

// List returns messages for a document, optionally filtered by session, oldest first.
func (r *PGRepo) List(ctx context.Context, documentID, sessionID string) ([]Message, error) {
	query := `
SELECT id, document_id, session_id, question, answer, created_at
FROM chat_messages
WHERE document_id = $1`
	args := []any{documentID}
	if sessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.DocumentID, &m.SessionID, &m.Question, &m.Answer, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteByDocument removes a document's chat history.
func (r *PGRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM chat_messages WHERE document_id = $1`, documentID)
	return err
}

var _ Repo = (*PGRepo)(nil)
