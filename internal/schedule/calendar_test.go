package schedule

import (
	"testing"
	"time"
)

func weekdaysMonFri() map[time.Weekday]bool {
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

func TestAddBusinessDaysSkipsWeekend(t *testing.T) {
	// sexta-feira 06/03/2026
	friday := time.Date(2026, time.March, 6, 10, 0, 0, 0, time.UTC)

	got := AddBusinessDays(friday, 3, weekdaysMonFri())

	// seg, ter, qua -> quarta 11/03
	want := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("AddBusinessDays = %v, esperado %v", got, want)
	}
}

func TestAddBusinessDaysMidweek(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	got := AddBusinessDays(monday, 3, weekdaysMonFri())

	want := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("AddBusinessDays = %v, esperado %v", got, want)
	}
}

func TestStatusAt(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name     string
		now      time.Time
		mutate   func(*Config)
		situacao string
		aberto   bool
	}{
		{
			name:     "dentro do expediente",
			now:      time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC), // terça
			situacao: SituacaoAberto,
			aberto:   true,
		},
		{
			name:     "fora do horário",
			now:      time.Date(2026, time.March, 3, 18, 30, 0, 0, time.UTC),
			situacao: SituacaoForaHorario,
		},
		{
			name:     "dia inativo",
			now:      time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC), // sábado
			situacao: SituacaoDiaInativo,
		},
		{
			name:     "manutenção tem precedência",
			now:      time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC),
			mutate:   func(c *Config) { c.Maintenance = true },
			situacao: SituacaoManutencao,
		},
		{
			name:     "horário desabilitado ignora a janela",
			now:      time.Date(2026, time.March, 3, 23, 0, 0, 0, time.UTC),
			mutate:   func(c *Config) { c.HoursEnabled = false },
			situacao: SituacaoAberto,
			aberto:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			if tc.mutate != nil {
				c.WorkingDays = weekdaysMonFri()
				tc.mutate(&c)
			}

			got := StatusAt(tc.now, c)
			if got.Situacao != tc.situacao {
				t.Fatalf("situacao = %q, esperado %q", got.Situacao, tc.situacao)
			}
			if got.Aberto != tc.aberto {
				t.Fatalf("aberto = %v, esperado %v", got.Aberto, tc.aberto)
			}
		})
	}
}

func TestWithinHoursBoundaries(t *testing.T) {
	start, end := "07:00", "17:00"

	at := func(h, m int) time.Time {
		return time.Date(2026, time.March, 3, h, m, 0, 0, time.UTC)
	}

	if !withinHours(at(7, 0), start, end) {
		t.Fatal("07:00 deveria estar dentro do expediente")
	}
	if withinHours(at(17, 0), start, end) {
		t.Fatal("17:00 deveria estar fora do expediente")
	}
	if withinHours(at(6, 59), start, end) {
		t.Fatal("06:59 deveria estar fora do expediente")
	}
}
