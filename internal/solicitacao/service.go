package solicitacao

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/events"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// Store abstrai a camada de persistência (facilita stubs nos testes).
type Store interface {
	Create(ctx context.Context, input CreateInput) (*Solicitacao, error)
	Get(ctx context.Context, id uuid.UUID) (*Solicitacao, error)
	GetByProtocolo(ctx context.Context, protocolo string) (*Solicitacao, error)
	List(ctx context.Context, filter Filter) ([]Solicitacao, error)
	ListVencidas(ctx context.Context) ([]Solicitacao, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Solicitacao, error)
	Aceitar(ctx context.Context, id uuid.UUID, input AceitarParams) (*Solicitacao, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*Solicitacao, error)
	SetLocked(ctx context.Context, id uuid.UUID, locked bool) (*Solicitacao, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateMessage(ctx context.Context, solicitacaoID uuid.UUID, senderID, senderType, message string) (*ChatMessage, error)
	ListMessages(ctx context.Context, solicitacaoID uuid.UUID) ([]ChatMessage, error)
	MarkMessagesRead(ctx context.Context, solicitacaoID uuid.UUID, readerType string) error
}

// Calendar calcula prazos em dias úteis conforme a agenda configurada.
type Calendar interface {
	AddBusinessDays(ctx context.Context, from time.Time, days int) (time.Time, error)
}

// Service reúne as regras de negócio das solicitações.
type Service struct {
	store    Store
	calendar Calendar
	bus      *events.Dispatcher
	now      func() time.Time
}

// NewService cria nova instância do serviço.
func NewService(store Store, calendar Calendar, bus *events.Dispatcher) *Service {
	return &Service{store: store, calendar: calendar, bus: bus, now: time.Now}
}

// Create registra uma nova solicitação com status Aguardando.
// Protocolo e prazo são calculados aqui quando não informados.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Solicitacao, error) {
	if err := util.RequireString(input.Secretaria, "secretaria"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Funcao, "função"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Endereco, "endereço"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Descricao, "descrição"); err != nil {
		return nil, err
	}

	now := s.now()
	if input.DataRegistro.IsZero() {
		input.DataRegistro = now
	}
	if strings.TrimSpace(input.Protocolo) == "" {
		input.Protocolo = NewProtocolo(now)
	}
	if input.Prazo.IsZero() {
		prazo, err := s.calendar.AddBusinessDays(ctx, now, 3)
		if err != nil {
			return nil, err
		}
		input.Prazo = prazo
	}

	created, err := s.store.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SolicitacaoCriada, created)
	return created, nil
}

// Get recupera uma solicitação.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Solicitacao, error) {
	return s.store.Get(ctx, id)
}

// GetByProtocolo localiza pelo protocolo legível.
func (s *Service) GetByProtocolo(ctx context.Context, protocolo string) (*Solicitacao, error) {
	if err := util.RequireString(protocolo, "protocolo"); err != nil {
		return nil, err
	}
	return s.store.GetByProtocolo(ctx, protocolo)
}

// List lista solicitações dentro do filtro informado.
func (s *Service) List(ctx context.Context, filter Filter) ([]Solicitacao, error) {
	if len(filter.Status) > 0 {
		valid := make([]string, 0, len(filter.Status))
		for _, status := range filter.Status {
			status = strings.TrimSpace(status)
			if IsValidStatus(status) {
				valid = append(valid, status)
			}
		}
		filter.Status = valid
	}
	return s.store.List(ctx, filter)
}

// ListVencidas retorna solicitações aceitas com prazo estourado.
func (s *Service) ListVencidas(ctx context.Context) ([]Solicitacao, error) {
	return s.store.ListVencidas(ctx)
}

// Aceitar efetua a triagem: exige agendamento e nível, e fixa o prazo
// em aceite + 72 horas corridas (sobrescreve a estimativa de abertura).
func (s *Service) Aceitar(ctx context.Context, id uuid.UUID, dataAgendamento time.Time, nivel string, responsavel *string) (*Solicitacao, error) {
	nivel = strings.TrimSpace(nivel)
	if !IsValidNivel(nivel) {
		return nil, ErrInvalidNivel
	}
	if dataAgendamento.IsZero() {
		return nil, util.Validation("data de agendamento obrigatória")
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, StatusAceita) {
		return nil, ErrInvalidTransition
	}

	aceitaEm := s.now()
	updated, err := s.store.Aceitar(ctx, id, AceitarParams{
		AceitaEm:        aceitaEm,
		Prazo:           aceitaEm.Add(PrazoAceite),
		DataAgendamento: dataAgendamento,
		Nivel:           nivel,
		Responsavel:     responsavel,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SolicitacaoStatus, updated)
	return updated, nil
}

// Cancelar encerra a solicitação a partir de Aguardando ou Aceita.
func (s *Service) Cancelar(ctx context.Context, id uuid.UUID) (*Solicitacao, error) {
	return s.transition(ctx, id, StatusCancelada)
}

// Resolver marca solicitação aceita como resolvida.
func (s *Service) Resolver(ctx context.Context, id uuid.UUID) (*Solicitacao, error) {
	return s.transition(ctx, id, StatusResolvida)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to string) (*Solicitacao, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.store.SetStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.SolicitacaoStatus, updated)
	return updated, nil
}

// Update sobrescreve campos editáveis.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Solicitacao, error) {
	return s.store.Update(ctx, id, input)
}

// SetLocked controla o bloqueio do chat.
func (s *Service) SetLocked(ctx context.Context, id uuid.UUID, locked bool) (*Solicitacao, error) {
	return s.store.SetLocked(ctx, id, locked)
}

// Delete remove a solicitação e o histórico de chat.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// AddMessage acrescenta mensagem ao chat. O bloqueio administrativo é
// verificado aqui, no servidor; o cliente não é confiável para isso.
func (s *Service) AddMessage(ctx context.Context, solicitacaoID uuid.UUID, senderID, senderType, message string) (*ChatMessage, error) {
	if err := util.RequireString(message, "mensagem"); err != nil {
		return nil, err
	}
	if !IsValidSender(senderType) {
		return nil, ErrInvalidSender
	}

	current, err := s.store.Get(ctx, solicitacaoID)
	if err != nil {
		return nil, err
	}
	if current.Locked && strings.EqualFold(senderType, SenderUser) {
		return nil, ErrChatLocked
	}

	msg, err := s.store.CreateMessage(ctx, solicitacaoID, senderID, senderType, message)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.ChatMensagem, msg)
	return msg, nil
}

// ListMessages lista o chat da solicitação.
func (s *Service) ListMessages(ctx context.Context, solicitacaoID uuid.UUID) ([]ChatMessage, error) {
	return s.store.ListMessages(ctx, solicitacaoID)
}

// MarkMessagesRead marca mensagens do outro lado como lidas.
func (s *Service) MarkMessagesRead(ctx context.Context, solicitacaoID uuid.UUID, readerType string) error {
	if !IsValidSender(readerType) {
		return ErrInvalidSender
	}
	return s.store.MarkMessagesRead(ctx, solicitacaoID, readerType)
}

func (s *Service) publish(ctx context.Context, t events.Type, payload any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.Event{Type: t, OccurredAt: s.now(), Payload: payload})
}
