package schedule

import (
	"errors"
	"time"
)

// ErrNotFound indica ausência de configuração persistida.
var ErrNotFound = errors.New("configuração de atendimento não encontrada")

// Situações possíveis do atendimento no momento da consulta.
const (
	SituacaoAberto      = "aberto"
	SituacaoForaHorario = "fora_horario"
	SituacaoDiaInativo  = "dia_inativo"
	SituacaoManutencao  = "manutencao"
)

// Config é a agenda semanal configurável pelo administrador.
type Config struct {
	WorkingDays  map[time.Weekday]bool `json:"working_days"`
	HourStart    string                `json:"hour_start"`
	HourEnd      string                `json:"hour_end"`
	HoursEnabled bool                  `json:"hours_enabled"`
	Maintenance  bool                  `json:"maintenance"`
	Messages     Messages              `json:"messages"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// Messages agrupa os textos exibidos conforme a situação.
type Messages struct {
	Aberto      string `json:"aberto"`
	ForaHorario string `json:"fora_horario"`
	DiaInativo  string `json:"dia_inativo"`
	Manutencao  string `json:"manutencao"`
}

// Status descreve a situação corrente do atendimento.
type Status struct {
	Situacao string `json:"situacao"`
	Aberto   bool   `json:"aberto"`
	Mensagem string `json:"mensagem"`
}

// DefaultConfig replica o expediente padrão: seg-sex, 07h às 17h.
func DefaultConfig() Config {
	return Config{
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
			time.Saturday:  false,
			time.Sunday:    false,
		},
		HourStart:    "07:00",
		HourEnd:      "17:00",
		HoursEnabled: true,
		Maintenance:  false,
		Messages: Messages{
			Aberto:      "Atendimento online. Nosso sistema está pronto para receber sua solicitação.",
			ForaHorario: "Atendimento fora do horário. Sua solicitação será registrada e processada no próximo expediente.",
			DiaInativo:  "Atendimento indisponível hoje. Funcionamento apenas nos dias úteis configurados.",
			Manutencao:  "Sistema em manutenção. Tente novamente mais tarde.",
		},
	}
}
