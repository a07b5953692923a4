package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/admin"
	httpmiddleware "github.com/prefeiturafeijo/servicedesk/internal/http/middleware"
)

// ListAdminUsers devolve as contas administrativas cadastradas.
func (h *Handler) ListAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admins.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar usuários", nil)
		return
	}

	WriteJSON(w, http.StatusOK, users)
}

// CreateAdminUser cadastra nova conta administrativa.
func (h *Handler) CreateAdminUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Usuario string `json:"usuario"`
		Senha   string `json:"senha"`
		Master  bool   `json:"master"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	createdBy, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	cred, err := h.admins.CreateUser(r.Context(), payload.Usuario, payload.Senha, payload.Master, createdBy)
	if err != nil {
		h.handleAdminUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, cred)
}

// SetAdminUserActive ativa ou desativa uma conta.
func (h *Handler) SetAdminUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Ativo bool `json:"ativo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	cred, err := h.admins.SetActive(r.Context(), id, payload.Ativo)
	if err != nil {
		h.handleAdminUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, cred)
}

// ResetAdminPassword redefine a senha de uma conta.
func (h *Handler) ResetAdminPassword(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	if err := h.admins.ResetPassword(r.Context(), id, payload.Senha); err != nil {
		h.handleAdminUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteAdminUser remove uma conta administrativa.
func (h *Handler) DeleteAdminUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := h.admins.DeleteUser(r.Context(), id); err != nil {
		h.handleAdminUserError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleAdminUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admin.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, admin.ErrMasterProtected):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, admin.ErrUsernameTaken):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	}
}
