package events

import "time"

// Type identifica a categoria do evento publicado.
type Type string

const (
	SolicitacaoCriada       Type = "solicitacao.criada"
	SolicitacaoStatus       Type = "solicitacao.status"
	SolicitacaoPrazoVencido Type = "solicitacao.prazo_vencido"
	ChatMensagem            Type = "chat.mensagem"
	SupportMensagem         Type = "support.mensagem"
)

// Event transporta a notificação e sua carga.
type Event struct {
	Type       Type
	OccurredAt time.Time
	Payload    any
}
