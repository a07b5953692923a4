package solicitacao

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("solicitação não encontrada")
	ErrInvalidStatus     = errors.New("status inválido")
	ErrInvalidNivel      = errors.New("nível inválido")
	ErrInvalidTransition = errors.New("transição de status inválida")
	ErrChatLocked        = errors.New("conversa bloqueada pelo administrador")
	ErrInvalidSender     = errors.New("tipo de remetente inválido")
)

// Status segue o ciclo Aguardando -> Aceita -> Resolvida, com
// cancelamento possível a partir de Aguardando ou Aceita.
const (
	StatusAguardando = "Aguardando"
	StatusAceita     = "Aceita"
	StatusCancelada  = "Cancelada"
	StatusResolvida  = "Resolvida"

	NivelI  = "Nivel I"
	NivelII = "Nivel II"

	SenderAdmin = "admin"
	SenderUser  = "user"
)

// PrazoAceite é o prazo fixo contado a partir do aceite do administrador.
// Sobrescreve a estimativa em dias úteis calculada na abertura.
const PrazoAceite = 72 * time.Hour

var validStatuses = map[string]struct{}{
	StatusAguardando: {},
	StatusAceita:     {},
	StatusCancelada:  {},
	StatusResolvida:  {},
}

// Solicitacao representa uma ordem de serviço aberta por um cidadão.
type Solicitacao struct {
	ID               uuid.UUID  `json:"id"`
	Protocolo        string     `json:"protocolo"`
	Secretaria       string     `json:"secretaria"`
	Subsecretaria    *string    `json:"subsecretaria,omitempty"`
	Setor            *string    `json:"setor,omitempty"`
	Funcao           string     `json:"funcao"`
	Nome             string     `json:"nome"`
	Endereco         string     `json:"endereco"`
	Sala             *string    `json:"sala,omitempty"`
	Descricao        string     `json:"descricao"`
	AnexoURL         *string    `json:"anexo_url,omitempty"`
	DataRegistro     time.Time  `json:"data_registro"`
	Prazo            time.Time  `json:"prazo"`
	Status           string     `json:"status"`
	Responsavel      *string    `json:"responsavel,omitempty"`
	LocalAtendimento *string    `json:"local_atendimento,omitempty"`
	Nivel            *string    `json:"nivel,omitempty"`
	Locked           bool       `json:"locked"`
	DataAgendamento  *time.Time `json:"data_agendamento,omitempty"`
	AceitaEm         *time.Time `json:"aceita_em,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ChatMessage é uma interação no chat da solicitação (append-only).
type ChatMessage struct {
	ID            uuid.UUID `json:"id"`
	SolicitacaoID uuid.UUID `json:"solicitacao_id"`
	SenderID      string    `json:"sender_id"`
	SenderType    string    `json:"sender_type"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	Read          bool      `json:"read"`
}

// CreateInput reúne os campos coletados pelo wizard (ou POST direto).
type CreateInput struct {
	Protocolo     string
	Secretaria    string
	Subsecretaria *string
	Setor         *string
	Funcao        string
	Nome          string
	Endereco      string
	Sala          *string
	Descricao     string
	AnexoURL      *string
	DataRegistro  time.Time
	Prazo         time.Time
}

// UpdateInput permite sobrescrita parcial pelo administrador.
type UpdateInput struct {
	Setor            *string
	Funcao           *string
	Nome             *string
	Endereco         *string
	Descricao        *string
	Responsavel      *string
	LocalAtendimento *string
	DataAgendamento  *time.Time
	Prazo            *time.Time
}

// Filter restringe listagens do painel administrativo.
type Filter struct {
	Status     []string
	Secretaria string
	Limit      int
	Offset     int
}

// NewProtocolo monta o identificador legível OS-<ano>-<últimos 4 dígitos
// do relógio em milissegundos>. Não é garantidamente único; a chave
// primária continua sendo o UUID.
func NewProtocolo(now time.Time) string {
	millis := now.UnixMilli()
	return fmt.Sprintf("OS-%d-%04d", now.Year(), millis%10000)
}

// IsValidStatus indica se o status é aceito.
func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

// IsValidNivel valida os dois níveis de triagem possíveis.
func IsValidNivel(nivel string) bool {
	return nivel == NivelI || nivel == NivelII
}

// IsValidSender valida o tipo de remetente do chat.
func IsValidSender(senderType string) bool {
	s := strings.ToLower(strings.TrimSpace(senderType))
	return s == SenderAdmin || s == SenderUser
}

// CanTransition aplica as regras de ciclo de vida.
func CanTransition(from, to string) bool {
	switch to {
	case StatusAceita:
		return from == StatusAguardando
	case StatusCancelada:
		return from == StatusAguardando || from == StatusAceita
	case StatusResolvida:
		return from == StatusAceita
	default:
		return false
	}
}
