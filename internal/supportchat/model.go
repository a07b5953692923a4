package supportchat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("chat não encontrado")
	ErrChatClosed    = errors.New("chat encerrado, não é possível enviar novas mensagens")
	ErrInvalidSender = errors.New("tipo de remetente inválido")
)

// O chat de suporte é independente das solicitações: abre com os dados
// do cidadão e fecha de forma terminal (sem reabertura).
const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	SenderAdmin = "admin"
	SenderUser  = "user"
)

// Chat representa uma conversa de suporte geral.
type Chat struct {
	ID        uuid.UUID  `json:"id"`
	SessionID string     `json:"session_id"`
	CPF       string     `json:"cpf"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Message é uma interação no chat de suporte (append-only).
type Message struct {
	ID         uuid.UUID `json:"id"`
	ChatID     uuid.UUID `json:"chat_id"`
	SenderType string    `json:"sender_type"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	Read       bool      `json:"read"`
}

// OpenInput carrega os dados exigidos na abertura.
type OpenInput struct {
	SessionID string
	CPF       string
	Name      string
	Phone     string
}

// IsValidSender valida o tipo de remetente.
func IsValidSender(senderType string) bool {
	s := strings.ToLower(strings.TrimSpace(senderType))
	return s == SenderAdmin || s == SenderUser
}
