package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Repository persiste a agenda de atendimento (linha única).
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get carrega a configuração corrente.
func (r *Repository) Get(ctx context.Context) (*Config, error) {
	const query = `
        SELECT working_days, hour_start, hour_end, hours_enabled, maintenance, messages, updated_at
        FROM atendimento_config
        WHERE id = 1
    `

	var (
		daysRaw     []byte
		messagesRaw []byte
		cfg         Config
	)

	row := r.pool.QueryRow(ctx, query)
	err := row.Scan(&daysRaw, &cfg.HourStart, &cfg.HourEnd, &cfg.HoursEnabled, &cfg.Maintenance, &messagesRaw, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	days := map[string]bool{}
	if err := json.Unmarshal(daysRaw, &days); err != nil {
		return nil, err
	}
	cfg.WorkingDays = map[time.Weekday]bool{}
	for name, enabled := range days {
		if wd, ok := weekdayNames[name]; ok {
			cfg.WorkingDays[wd] = enabled
		}
	}

	if len(messagesRaw) > 0 {
		if err := json.Unmarshal(messagesRaw, &cfg.Messages); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Save grava a configuração (upsert na linha única).
func (r *Repository) Save(ctx context.Context, cfg Config) (*Config, error) {
	days := map[string]bool{}
	for name, wd := range weekdayNames {
		days[name] = cfg.WorkingDays[wd]
	}

	daysRaw, err := json.Marshal(days)
	if err != nil {
		return nil, err
	}
	messagesRaw, err := json.Marshal(cfg.Messages)
	if err != nil {
		return nil, err
	}

	const query = `
        INSERT INTO atendimento_config (id, working_days, hour_start, hour_end, hours_enabled, maintenance, messages, updated_at)
        VALUES (1, $1, $2, $3, $4, $5, $6, now())
        ON CONFLICT (id) DO UPDATE SET
            working_days = EXCLUDED.working_days,
            hour_start = EXCLUDED.hour_start,
            hour_end = EXCLUDED.hour_end,
            hours_enabled = EXCLUDED.hours_enabled,
            maintenance = EXCLUDED.maintenance,
            messages = EXCLUDED.messages,
            updated_at = now()
    `

	if _, err := r.pool.Exec(ctx, query, daysRaw, cfg.HourStart, cfg.HourEnd, cfg.HoursEnabled, cfg.Maintenance, messagesRaw); err != nil {
		return nil, err
	}

	return r.Get(ctx)
}
