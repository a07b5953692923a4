package supportchat

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê acesso às tabelas do chat de suporte.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create abre um novo chat com status open.
func (r *Repository) Create(ctx context.Context, input OpenInput) (*Chat, error) {
	const query = `
        INSERT INTO support_chats (session_id, cpf, name, phone, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, session_id, cpf, name, phone, status, created_at, updated_at
    `

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.SessionID),
		strings.TrimSpace(input.CPF),
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Phone),
		StatusOpen,
	)
	return scanChat(row)
}

// Get busca um chat pelo UUID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Chat, error) {
	const query = `
        SELECT id, session_id, cpf, name, phone, status, created_at, updated_at
        FROM support_chats
        WHERE id = $1
    `
	row := r.pool.QueryRow(ctx, query, id)
	return scanChat(row)
}

// List lista os chats mais recentes primeiro.
func (r *Repository) List(ctx context.Context) ([]Chat, error) {
	const query = `
        SELECT id, session_id, cpf, name, phone, status, created_at, updated_at
        FROM support_chats
        ORDER BY created_at DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *c)
	}

	return chats, rows.Err()
}

// Close marca o chat como encerrado (terminal).
func (r *Repository) Close(ctx context.Context, id uuid.UUID) (*Chat, error) {
	const query = `
        UPDATE support_chats
        SET status = $2, updated_at = now()
        WHERE id = $1
        RETURNING id, session_id, cpf, name, phone, status, created_at, updated_at
    `
	row := r.pool.QueryRow(ctx, query, id, StatusClosed)
	return scanChat(row)
}

// CreateMessage insere mensagem no chat.
func (r *Repository) CreateMessage(ctx context.Context, chatID uuid.UUID, senderType, message string) (*Message, error) {
	const query = `
        INSERT INTO support_chat_messages (chat_id, sender_type, message)
        VALUES ($1, $2, $3)
        RETURNING id, chat_id, sender_type, message, "timestamp", read
    `

	row := r.pool.QueryRow(ctx, query, chatID,
		strings.ToLower(strings.TrimSpace(senderType)),
		strings.TrimSpace(message),
	)
	return scanMessage(row)
}

// ListMessages lista mensagens em ordem cronológica.
func (r *Repository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]Message, error) {
	const query = `
        SELECT id, chat_id, sender_type, message, "timestamp", read
        FROM support_chat_messages
        WHERE chat_id = $1
        ORDER BY "timestamp" ASC
    `

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}

	return msgs, rows.Err()
}

func scanChat(row pgx.Row) (*Chat, error) {
	var c Chat
	err := row.Scan(&c.ID, &c.SessionID, &c.CPF, &c.Name, &c.Phone, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.ChatID, &m.SenderType, &m.Message, &m.Timestamp, &m.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
