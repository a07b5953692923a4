package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/supportchat"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// OpenSupportChat abre um canal de suporte identificado por CPF.
func (h *Handler) OpenSupportChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		CPF       string `json:"cpf"`
		Nome      string `json:"nome"`
		Telefone  string `json:"telefone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	chat, err := h.support.Open(r.Context(), supportchat.OpenInput{
		SessionID: payload.SessionID,
		CPF:       payload.CPF,
		Name:      payload.Nome,
		Phone:     payload.Telefone,
	})
	if err != nil {
		h.handleSupportError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, chat)
}

// GetSupportChat devolve um chat de suporte.
func (h *Handler) GetSupportChat(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	chat, err := h.support.Get(r.Context(), id)
	if err != nil {
		h.handleSupportError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, chat)
}

// ListSupportChats lista os chats de suporte para o painel.
func (h *Handler) ListSupportChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.support.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar chats", nil)
		return
	}

	WriteJSON(w, http.StatusOK, chats)
}

// CloseSupportChat encerra o chat. O encerramento é terminal.
func (h *Handler) CloseSupportChat(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	chat, err := h.support.Close(r.Context(), id)
	if err != nil {
		h.handleSupportError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, chat)
}

// ListSupportMessages devolve o histórico do chat de suporte.
func (h *Handler) ListSupportMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	messages, err := h.support.ListMessages(r.Context(), id)
	if err != nil {
		h.handleSupportError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, messages)
}

// SendSupportMessage registra mensagem do cidadão no chat de suporte.
func (h *Handler) SendSupportMessage(w http.ResponseWriter, r *http.Request) {
	h.sendSupportMessage(w, r, supportchat.SenderUser)
}

// SendSupportMessageAdmin registra mensagem do atendente.
func (h *Handler) SendSupportMessageAdmin(w http.ResponseWriter, r *http.Request) {
	h.sendSupportMessage(w, r, supportchat.SenderAdmin)
}

func (h *Handler) sendSupportMessage(w http.ResponseWriter, r *http.Request, senderType string) {
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

	msg, err := h.support.AddMessage(r.Context(), id, senderType, payload.Mensagem)
	if err != nil {
		h.handleSupportError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, msg)
}

func (h *Handler) handleSupportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, supportchat.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, supportchat.ErrChatClosed):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, supportchat.ErrInvalidSender),
		errors.Is(err, util.ErrValidation):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}
