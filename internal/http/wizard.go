package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/storage"
	"github.com/prefeiturafeijo/servicedesk/internal/wizard"
)

// 10 MB cobre fotos de celular, o anexo típico.
const maxAnexoBytes = 10 << 20

// WizardStart abre uma sessão do assistente para a secretaria informada.
func (h *Handler) WizardStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Secretaria string `json:"secretaria"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	result, err := h.wizard.Start(r.Context(), payload.Secretaria)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	WriteJSON(w, http.StatusCreated, result)
}

// WizardSession devolve o estado corrente de uma sessão.
func (h *Handler) WizardSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	session, err := h.wizard.Get(r.Context(), id)
	if err != nil {
		h.handleWizardError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, session)
}

// WizardMessage processa uma resposta de texto do cidadão.
func (h *Handler) WizardMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Texto string `json:"texto"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	reply, err := h.wizard.Message(r.Context(), id, payload.Texto)
	if err != nil {
		h.handleWizardError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, reply)
}

// WizardAttach recebe o anexo via multipart, grava no storage e finaliza
// a sessão com a URL resultante.
func (h *Handler) WizardAttach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(maxAnexoBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "arquivo inválido ou muito grande", nil)
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "campo arquivo ausente", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := io.ReadAll(io.LimitReader(file, maxAnexoBytes+1))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "não foi possível ler o arquivo", nil)
		return
	}
	if len(body) > maxAnexoBytes {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "arquivo excede o limite de 10 MB", nil)
		return
	}

	key := fmt.Sprintf("anexos/%s/%s%s", id, uuid.NewString(), sanitizeExt(header.Filename))
	obj, err := h.storage.Save(r.Context(), storage.SaveInput{
		Key:         key,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE",
				"envio de anexos indisponível no momento; conclua a solicitação sem anexo", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível salvar o anexo", nil)
		return
	}

	reply, created, err := h.wizard.Attach(r.Context(), id, obj.URL)
	if err != nil {
		h.handleWizardError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"reply":       reply,
		"solicitacao": created,
	})
}

// WizardSkipAttach finaliza a sessão sem anexo.
func (h *Handler) WizardSkipAttach(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	reply, created, err := h.wizard.Skip(r.Context(), id)
	if err != nil {
		h.handleWizardError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"reply":       reply,
		"solicitacao": created,
	})
}

func (h *Handler) handleWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, wizard.ErrSessionDone),
		errors.Is(err, wizard.ErrNotAttachStep):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, wizard.ErrEmptyInput),
		errors.Is(err, wizard.ErrInvalidOption):
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
	}
}

// sanitizeExt mantém apenas extensões simples para compor a chave do objeto.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
