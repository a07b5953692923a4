package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/schedule"
	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// TicketCreator é o colaborador que efetiva a solicitação ao final.
type TicketCreator interface {
	Create(ctx context.Context, input solicitacao.CreateInput) (*solicitacao.Solicitacao, error)
}

// ScheduleReader consulta a situação do expediente na abertura.
type ScheduleReader interface {
	Status(ctx context.Context) (schedule.Status, error)
}

// Engine conduz o diálogo de abertura de solicitações: uma sequência
// fixa de perguntas com ramificação inicial para três secretarias.
type Engine struct {
	sessions SessionStore
	tickets  TicketCreator
	agenda   ScheduleReader
	now      func() time.Time
}

// NewEngine cria o condutor do wizard.
func NewEngine(sessions SessionStore, tickets TicketCreator, agenda ScheduleReader) *Engine {
	return &Engine{sessions: sessions, tickets: tickets, agenda: agenda, now: time.Now}
}

// StartResult agrega a sessão criada e a primeira fala do bot.
type StartResult struct {
	Session *Session `json:"session"`
	Reply   Reply    `json:"reply"`
}

// Start abre uma sessão para a secretaria informada.
func (e *Engine) Start(ctx context.Context, secretaria string) (*StartResult, error) {
	secretaria = strings.TrimSpace(secretaria)
	if err := util.RequireString(secretaria, "secretaria"); err != nil {
		return nil, err
	}

	options := branchOptions[secretaria]
	session := &Session{
		ID:         uuid.New(),
		Secretaria: secretaria,
		HasBranch:  len(options) > 0,
		CreatedAt:  e.now(),
	}

	welcome := fmt.Sprintf("Olá! Bem-vindo ao Service Desk da %s. Vou ajudá-lo a registrar sua solicitação.", secretaria)

	if e.agenda != nil {
		if status, err := e.agenda.Status(ctx); err == nil && !status.Aberto {
			welcome = status.Mensagem + "\n\n" + welcome
		}
	}

	reply := Reply{}
	if session.HasBranch {
		reply.Text = welcome + "\n\nPor favor, escolha uma das opções abaixo:"
		reply.Options = options
	} else {
		reply.Text = welcome + "\n\n" + prompts[fieldSetor]
	}

	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &StartResult{Session: session, Reply: reply}, nil
}

// Get recupera uma sessão existente.
func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return e.sessions.Get(ctx, id)
}

// Message processa uma resposta do cidadão e devolve a próxima fala.
// Saudações genéricas não avançam a etapa: o prompt corrente é reemitido.
func (e *Engine) Message(ctx context.Context, id uuid.UUID, input string) (*Reply, error) {
	session, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Finalizada {
		return nil, ErrSessionDone
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if isGreeting(input) {
		return &Reply{Text: greetingReply + " " + e.currentPrompt(session)}, nil
	}

	if session.HasBranch && session.Step == 0 {
		if !validBranch(session.Secretaria, input) {
			return &Reply{Text: "Opção não reconhecida. Por favor, escolha uma das opções abaixo:", Options: branchOptions[session.Secretaria]}, nil
		}
		session.Draft.Subsecretaria = input
		session.Step++
		if err := e.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
		return &Reply{Text: "Perfeito! " + prompts[fieldSetor]}, nil
	}

	field := session.fieldIndex()
	switch field {
	case fieldSetor:
		session.Draft.Setor = input
	case fieldFuncao:
		session.Draft.Funcao = input
	case fieldNome:
		session.Draft.Nome = input
	case fieldEndereco:
		session.Draft.Endereco = input
	case fieldDescricao:
		session.Draft.Descricao = input
	case fieldAnexo:
		return e.answerAttachStep(ctx, session, input)
	default:
		return nil, ErrSessionDone
	}

	session.Step++
	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	next := field + 1
	return &Reply{Text: acknowledgements[field] + prompts[next]}, nil
}

// Attach registra o anexo enviado e finaliza a sessão.
func (e *Engine) Attach(ctx context.Context, id uuid.UUID, anexoURL string) (*Reply, *solicitacao.Solicitacao, error) {
	session, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Finalizada {
		return nil, nil, ErrSessionDone
	}
	if session.fieldIndex() != fieldAnexo {
		return nil, nil, ErrNotAttachStep
	}

	session.Draft.AnexoURL = strings.TrimSpace(anexoURL)
	return e.finalize(ctx, session)
}

// Skip finaliza a sessão sem anexo (ação explícita de pular).
func (e *Engine) Skip(ctx context.Context, id uuid.UUID) (*Reply, *solicitacao.Solicitacao, error) {
	session, err := e.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Finalizada {
		return nil, nil, ErrSessionDone
	}
	if session.fieldIndex() != fieldAnexo {
		return nil, nil, ErrNotAttachStep
	}

	return e.finalize(ctx, session)
}

func (e *Engine) answerAttachStep(ctx context.Context, session *Session, input string) (*Reply, error) {
	switch strings.ToLower(input) {
	case "sim", "s", "yes", "y":
		return &Reply{Text: "Ótimo! Envie o arquivo para concluir o registro."}, nil
	case "não", "nao", "n", "no":
		reply, _, err := e.finalize(ctx, session)
		return reply, err
	default:
		return &Reply{Text: "Não entendi. Responda 'sim' ou 'não', ou envie o arquivo diretamente."}, nil
	}
}

// finalize cria a solicitação e só então confirma ao cidadão. A resposta
// de sucesso nunca antecede a gravação: falha na criação retorna erro e
// mantém a sessão viva para nova tentativa.
func (e *Engine) finalize(ctx context.Context, session *Session) (*Reply, *solicitacao.Solicitacao, error) {
	input := solicitacao.CreateInput{
		Secretaria: session.Secretaria,
		Funcao:     session.Draft.Funcao,
		Nome:       session.Draft.Nome,
		Endereco:   session.Draft.Endereco,
		Descricao:  session.Draft.Descricao,
	}
	if session.Draft.Subsecretaria != "" {
		input.Subsecretaria = &session.Draft.Subsecretaria
	}
	if session.Draft.Setor != "" {
		input.Setor = &session.Draft.Setor
	}
	if session.Draft.AnexoURL != "" {
		input.AnexoURL = &session.Draft.AnexoURL
	}

	created, err := e.tickets.Create(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	session.Finalizada = true
	session.Protocolo = created.Protocolo
	session.SolicitacaoID = &created.ID
	if err := e.sessions.Save(ctx, session); err != nil {
		return nil, nil, err
	}

	text := fmt.Sprintf(
		"Solicitação registrada com sucesso!\n\nProtocolo: %s\nData: %s\nPrazo: 72h úteis (após confirmação)\n\nSua solicitação aguarda aprovação do administrador.",
		created.Protocolo,
		created.DataRegistro.Format("02/01/2006"),
	)

	return &Reply{Text: text, Done: true}, created, nil
}

func (e *Engine) currentPrompt(session *Session) string {
	if session.HasBranch && session.Step == 0 {
		return "Por favor, escolha uma das opções acima."
	}
	field := session.fieldIndex()
	if field >= 0 && field < fieldCount {
		return prompts[field]
	}
	return ""
}

func validBranch(secretaria, input string) bool {
	for _, option := range branchOptions[secretaria] {
		if strings.EqualFold(option, input) {
			return true
		}
	}
	return false
}
