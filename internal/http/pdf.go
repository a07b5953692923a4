package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/pdf"
	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

// Comprovante gera o recibo em PDF de uma solicitação.
func (h *Handler) Comprovante(w http.ResponseWriter, r *http.Request) {
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

	content, err := pdf.Comprovante(item)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar o comprovante", nil)
		return
	}

	writePDF(w, pdf.ComprovanteFileName(item.Protocolo), content)
}

// Relatorio gera o relatório gerencial em PDF, com filtro opcional de status.
func (h *Handler) Relatorio(w http.ResponseWriter, r *http.Request) {
	filter := solicitacao.Filter{}
	if status := r.URL.Query()["status"]; len(status) > 0 {
		filter.Status = status
	}

	items, err := h.tickets.List(r.Context(), filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível listar solicitações", nil)
		return
	}

	refs := make([]*solicitacao.Solicitacao, len(items))
	for i := range items {
		refs[i] = &items[i]
	}

	now := time.Now()
	content, err := pdf.Relatorio(refs, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível gerar o relatório", nil)
		return
	}

	writePDF(w, pdf.RelatorioFileName(now), content)
}

func writePDF(w http.ResponseWriter, filename string, content []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
