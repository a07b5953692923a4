package schedule

import (
	"strconv"
	"strings"
	"time"
)

// AddBusinessDays avança o número de dias úteis indicado, pulando os dias
// marcados como não úteis na agenda. Sexta + 3 com seg-sex ativos cai na
// quarta-feira seguinte.
func AddBusinessDays(from time.Time, days int, workingDays map[time.Weekday]bool) time.Time {
	result := from
	added := 0
	for added < days {
		result = result.AddDate(0, 0, 1)
		if workingDays[result.Weekday()] {
			added++
		}
	}
	return result
}

// StatusAt avalia a situação do atendimento em um instante.
func StatusAt(now time.Time, cfg Config) Status {
	if cfg.Maintenance {
		return Status{Situacao: SituacaoManutencao, Mensagem: cfg.Messages.Manutencao}
	}

	if !cfg.WorkingDays[now.Weekday()] {
		return Status{Situacao: SituacaoDiaInativo, Mensagem: cfg.Messages.DiaInativo}
	}

	if cfg.HoursEnabled && !withinHours(now, cfg.HourStart, cfg.HourEnd) {
		return Status{Situacao: SituacaoForaHorario, Mensagem: cfg.Messages.ForaHorario}
	}

	return Status{Situacao: SituacaoAberto, Aberto: true, Mensagem: cfg.Messages.Aberto}
}

func withinHours(now time.Time, start, end string) bool {
	minutes := now.Hour()*60 + now.Minute()
	startMin, okStart := parseHourMinute(start)
	endMin, okEnd := parseHourMinute(end)
	if !okStart || !okEnd {
		return true
	}
	return minutes >= startMin && minutes < endMin
}

func parseHourMinute(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
