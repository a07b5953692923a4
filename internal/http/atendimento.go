package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prefeiturafeijo/servicedesk/internal/schedule"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// AtendimentoStatus informa ao cidadão se o expediente está aberto e a
// mensagem adequada à situação corrente.
func (h *Handler) AtendimentoStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.agenda.Status(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível consultar o expediente", nil)
		return
	}

	WriteJSON(w, http.StatusOK, status)
}

// AtendimentoConfig devolve a configuração completa do expediente.
func (h *Handler) AtendimentoConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.agenda.Config(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível carregar configuração", nil)
		return
	}

	WriteJSON(w, http.StatusOK, cfg)
}

// UpdateAtendimentoConfig sobrescreve dias, horários e mensagens.
func (h *Handler) UpdateAtendimentoConfig(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		WorkingDays  []int             `json:"working_days"`
		HourStart    string            `json:"hour_start"`
		HourEnd      string            `json:"hour_end"`
		HoursEnabled bool              `json:"hours_enabled"`
		Maintenance  bool              `json:"maintenance"`
		Messages     schedule.Messages `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	days := make(map[time.Weekday]bool, 7)
	for _, d := range payload.WorkingDays {
		if d < 0 || d > 6 {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "dia da semana inválido", nil)
			return
		}
		days[time.Weekday(d)] = true
	}

	updated, err := h.agenda.Update(r.Context(), schedule.Config{
		WorkingDays:  days,
		HourStart:    payload.HourStart,
		HourEnd:      payload.HourEnd,
		HoursEnabled: payload.HoursEnabled,
		Maintenance:  payload.Maintenance,
		Messages:     payload.Messages,
	})
	if err != nil {
		if errors.Is(err, util.ErrValidation) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "não foi possível salvar configuração", nil)
		return
	}

	WriteJSON(w, http.StatusOK, updated)
}

// Notificacoes devolve os eventos recentes do barramento, mais novos
// primeiro, para o polling do painel.
func (h *Handler) Notificacoes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.feed.Recent())
}

// MonitorSummary expõe o snapshot do verificador de prazos.
func (h *Handler) MonitorSummary(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"enabled": h.monitorOn,
		"summary": h.monitor.Summary(),
	})
}

// MonitorRun dispara uma verificação imediata de prazos vencidos.
func (h *Handler) MonitorRun(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.RunOnce(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "falha ao executar verificação", nil)
		return
	}

	WriteJSON(w, http.StatusOK, h.monitor.Summary())
}
