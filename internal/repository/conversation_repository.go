package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/veladapass/ticketops/internal/model"
)

// ConversationRepo persists the append-only chat between clients and
// the admin team. Messages live in chat_messages keyed by the client's
// email; there is no separate conversations table since a conversation
// is just the ordered message set of one client.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo returns a new ConversationRepo bound to the given database.
func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{db: db} }

// AppendMessage inserts a single message. Messages are never edited or
// removed afterwards.
func (r *ConversationRepo) AppendMessage(ctx context.Context, clientEmail string, m model.ChatMessage) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO chat_messages (client_email, sender, role, text) VALUES (?,?,?,?)",
		strings.ToLower(strings.TrimSpace(clientEmail)), m.Sender, m.Role, m.Text)
	return err
}

// GetByClient returns the conversation of one client, oldest message
// first. A client with no messages yet gets an empty conversation, not
// an error.
func (r *ConversationRepo) GetByClient(ctx context.Context, clientEmail string) (model.Conversation, error) {
	clientEmail = strings.ToLower(strings.TrimSpace(clientEmail))
	conv := model.Conversation{ClientEmail: clientEmail, Messages: []model.ChatMessage{}}
	rows, err := r.db.QueryContext(ctx,
		"SELECT sender, role, text, created_at FROM chat_messages WHERE client_email=? ORDER BY created_at ASC, id ASC",
		clientEmail)
	if err != nil {
		return conv, err
	}
	defer rows.Close()
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.Sender, &m.Role, &m.Text, &m.Timestamp); err != nil {
			return conv, err
		}
		conv.Messages = append(conv.Messages, m)
	}
	return conv, rows.Err()
}

// ListAll returns every conversation grouped by client, for the admin
// inbox view. Clients are ordered by their most recent message.
func (r *ConversationRepo) ListAll(ctx context.Context) ([]model.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT client_email, sender, role, text, created_at
		 FROM chat_messages ORDER BY client_email, created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	convs := make([]model.Conversation, 0)
	index := make(map[string]int)
	for rows.Next() {
		var client string
		var m model.ChatMessage
		if err := rows.Scan(&client, &m.Sender, &m.Role, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		idx, ok := index[client]
		if !ok {
			idx = len(convs)
			index[client] = idx
			convs = append(convs, model.Conversation{ClientEmail: client, Messages: []model.ChatMessage{}})
		}
		convs[idx].Messages = append(convs[idx].Messages, m)
	}
	return convs, rows.Err()
}
