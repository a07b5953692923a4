package supportchat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/events"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// Store abstrai a persistência do chat de suporte.
type Store interface {
	Create(ctx context.Context, input OpenInput) (*Chat, error)
	Get(ctx context.Context, id uuid.UUID) (*Chat, error)
	List(ctx context.Context) ([]Chat, error)
	Close(ctx context.Context, id uuid.UUID) (*Chat, error)
	CreateMessage(ctx context.Context, chatID uuid.UUID, senderType, message string) (*Message, error)
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]Message, error)
}

// Service reúne as regras de negócio do chat de suporte.
type Service struct {
	store Store
	bus   *events.Dispatcher
}

// NewService cria nova instância do serviço.
func NewService(store Store, bus *events.Dispatcher) *Service {
	return &Service{store: store, bus: bus}
}

// Open abre um chat para o cidadão; gera session_id quando ausente.
func (s *Service) Open(ctx context.Context, input OpenInput) (*Chat, error) {
	if err := util.RequireString(input.Name, "nome"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Phone, "telefone"); err != nil {
		return nil, err
	}
	if err := util.ValidateCPF(input.CPF); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.SessionID) == "" {
		input.SessionID = uuid.NewString()
	}

	return s.store.Create(ctx, input)
}

// Get recupera um chat.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Chat, error) {
	return s.store.Get(ctx, id)
}

// List lista todos os chats (painel administrativo).
func (s *Service) List(ctx context.Context) ([]Chat, error) {
	return s.store.List(ctx)
}

// Close encerra o chat. Encerramento é terminal: não há reabertura.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*Chat, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Close(ctx, id)
}

// AddMessage grava mensagem apenas em chats abertos. A checagem é feita
// no servidor antes do insert; chat encerrado rejeita sem gravar linha.
func (s *Service) AddMessage(ctx context.Context, chatID uuid.UUID, senderType, message string) (*Message, error) {
	if err := util.RequireString(message, "mensagem"); err != nil {
		return nil, err
	}
	if !IsValidSender(senderType) {
		return nil, ErrInvalidSender
	}

	chat, err := s.store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat.Status != StatusOpen {
		return nil, ErrChatClosed
	}

	msg, err := s.store.CreateMessage(ctx, chatID, senderType, message)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.Event{Type: events.SupportMensagem, OccurredAt: msg.Timestamp, Payload: msg})
	}
	return msg, nil
}

// ListMessages lista as interações do chat.
func (s *Service) ListMessages(ctx context.Context, chatID uuid.UUID) ([]Message, error) {
	return s.store.ListMessages(ctx, chatID)
}
