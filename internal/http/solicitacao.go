package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/prefeiturafeijo/servicedesk/internal/http/middleware"
	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// CreateSolicitacao registra uma solicitação via POST direto, sem o wizard.
func (h *Handler) CreateSolicitacao(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Secretaria    string  `json:"secretaria"`
		Subsecretaria *string `json:"subsecretaria"`
		Setor         *string `json:"setor"`
		Funcao        string  `json:"funcao"`
		Nome          string  `json:"nome"`
		Endereco      string  `json:"endereco"`
		Sala          *string `json:"sala"`
		Descricao     string  `json:"descricao"`
		AnexoURL      *string `json:"anexo_url"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.tickets.Create(r.Context(), solicitacao.CreateInput{
		Secretaria:    payload.Secretaria,
		Subsecretaria: payload.Subsecretaria,
		Setor:         payload.Setor,
		Funcao:        payload.Funcao,
		Nome:          payload.Nome,
		Endereco:      payload.Endereco,
		Sala:          payload.Sala,
		Descricao:     payload.Descricao,
		AnexoURL:      payload.AnexoURL,
	})
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// ListSolicitacoes lista solicitações para o painel administrativo.
func (h *Handler) ListSolicitacoes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := solicitacao.Filter{
		Secretaria: query.Get("secretaria"),
	}
	if status := query["status"]; len(status) > 0 {
		filter.Status = status
	}
	if limit := query.Get("limit"); limit != "" {
		if n, err := parsePositiveInt(limit); err == nil {
			filter.Limit = n
		}
	}
	if offset := query.Get("offset"); offset != "" {
		if n, err := parsePositiveInt(offset); err == nil {
			filter.Offset = n
		}
	}

	items, err := h.tickets.List(r.Context(), filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar solicitações", nil)
		return
	}

	WriteJSON(w, http.StatusOK, items)
}

// GetSolicitacao devolve uma solicitação pelo UUID.
func (h *Handler) GetSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	item, err := h.tickets.Get(r.Context(), id)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// GetSolicitacaoByProtocolo devolve uma solicitação pelo protocolo legível.
func (h *Handler) GetSolicitacaoByProtocolo(w http.ResponseWriter, r *http.Request) {
	protocolo := chi.URLParam(r, "protocolo")
	if protocolo == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "protocolo ausente", nil)
		return
	}

	item, err := h.tickets.GetByProtocolo(r.Context(), protocolo)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// UpdateSolicitacao sobrescreve campos editáveis pelo administrador.
func (h *Handler) UpdateSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Setor            *string    `json:"setor"`
		Funcao           *string    `json:"funcao"`
		Nome             *string    `json:"nome"`
		Endereco         *string    `json:"endereco"`
		Descricao        *string    `json:"descricao"`
		Responsavel      *string    `json:"responsavel"`
		LocalAtendimento *string    `json:"local_atendimento"`
		DataAgendamento  *time.Time `json:"data_agendamento"`
		Prazo            *time.Time `json:"prazo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	item, err := h.tickets.Update(r.Context(), id, solicitacao.UpdateInput{
		Setor:            payload.Setor,
		Funcao:           payload.Funcao,
		Nome:             payload.Nome,
		Endereco:         payload.Endereco,
		Descricao:        payload.Descricao,
		Responsavel:      payload.Responsavel,
		LocalAtendimento: payload.LocalAtendimento,
		DataAgendamento:  payload.DataAgendamento,
		Prazo:            payload.Prazo,
	})
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// DeleteSolicitacao remove a solicitação e o histórico de chat associado.
func (h *Handler) DeleteSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.tickets.Delete(r.Context(), id); err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AceitarSolicitacao aceita a solicitação com agendamento e nível de triagem.
func (h *Handler) AceitarSolicitacao(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		DataAgendamento time.Time `json:"data_agendamento"`
		Nivel           string    `json:"nivel"`
		Responsavel     *string   `json:"responsavel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	item, err := h.tickets.Aceitar(r.Context(), id, payload.DataAgendamento, payload.Nivel, payload.Responsavel)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// CancelarSolicitacao cancela a solicitação.
func (h *Handler) CancelarSolicitacao(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.tickets.Cancelar)
}

// ResolverSolicitacao marca a solicitação como resolvida.
func (h *Handler) ResolverSolicitacao(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.tickets.Resolver)
}

func (h *Handler) transitionHandler(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*solicitacao.Solicitacao, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	item, err := fn(r.Context(), id)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// LockSolicitacao bloqueia o envio de novas mensagens pelo solicitante.
func (h *Handler) LockSolicitacao(w http.ResponseWriter, r *http.Request) {
	h.setLockedHandler(w, r, true)
}

// UnlockSolicitacao libera o chat da solicitação.
func (h *Handler) UnlockSolicitacao(w http.ResponseWriter, r *http.Request) {
	h.setLockedHandler(w, r, false)
}

func (h *Handler) setLockedHandler(w http.ResponseWriter, r *http.Request, locked bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	item, err := h.tickets.SetLocked(r.Context(), id, locked)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// ListTicketMessages devolve o histórico de chat de uma solicitação.
func (h *Handler) ListTicketMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	messages, err := h.tickets.ListMessages(r.Context(), id)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, messages)
}

// SendTicketMessage registra mensagem do solicitante no chat do chamado.
func (h *Handler) SendTicketMessage(w http.ResponseWriter, r *http.Request) {
	h.sendTicketMessage(w, r, solicitacao.SenderUser, "")
}

// SendTicketMessageAdmin registra mensagem do administrador autenticado.
func (h *Handler) SendTicketMessageAdmin(w http.ResponseWriter, r *http.Request) {
	h.sendTicketMessage(w, r, solicitacao.SenderAdmin, httpmiddleware.GetSubject(r.Context()))
}

func (h *Handler) sendTicketMessage(w http.ResponseWriter, r *http.Request, senderType, senderID string) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Mensagem string `json:"mensagem"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	msg, err := h.tickets.AddMessage(r.Context(), id, senderID, senderType, payload.Mensagem)
	if err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, msg)
}

// MarkTicketMessagesRead marca como lidas as mensagens do solicitante.
func (h *Handler) MarkTicketMessagesRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.tickets.MarkMessagesRead(r.Context(), id, solicitacao.SenderUser); err != nil {
		h.handleTicketError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTicketError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, solicitacao.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, solicitacao.ErrInvalidTransition):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, solicitacao.ErrChatLocked):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, solicitacao.ErrInvalidNivel),
		errors.Is(err, solicitacao.ErrInvalidStatus),
		errors.Is(err, solicitacao.ErrInvalidSender),
		errors.Is(err, util.ErrValidation):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("valor negativo")
	}
	return n, nil
}
