package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// ConfigStore abstrai a persistência da agenda.
type ConfigStore interface {
	Get(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg Config) (*Config, error)
}

// Service expõe a agenda de atendimento e o cálculo de prazos.
type Service struct {
	store ConfigStore
	now   func() time.Time
}

// NewService cria nova instância do serviço.
func NewService(store ConfigStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Config devolve a agenda persistida, caindo no padrão seg-sex 07h-17h
// quando nada foi configurado ainda.
func (s *Service) Config(ctx context.Context) (Config, error) {
	cfg, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return *cfg, nil
}

// Update valida e grava nova agenda.
func (s *Service) Update(ctx context.Context, cfg Config) (*Config, error) {
	if len(cfg.WorkingDays) == 0 {
		return nil, util.Validation("agenda precisa de ao menos um dia configurado")
	}

	anyEnabled := false
	for _, enabled := range cfg.WorkingDays {
		if enabled {
			anyEnabled = true
			break
		}
	}
	if !anyEnabled {
		return nil, util.Validation("agenda precisa de ao menos um dia útil ativo")
	}

	if _, ok := parseHourMinute(cfg.HourStart); !ok {
		return nil, util.Validation("horário inicial inválido")
	}
	if _, ok := parseHourMinute(cfg.HourEnd); !ok {
		return nil, util.Validation("horário final inválido")
	}

	return s.store.Save(ctx, cfg)
}

// Status avalia a situação corrente do atendimento.
func (s *Service) Status(ctx context.Context) (Status, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return Status{}, err
	}
	return StatusAt(s.now(), cfg), nil
}

// AddBusinessDays calcula prazo em dias úteis pela agenda corrente.
func (s *Service) AddBusinessDays(ctx context.Context, from time.Time, days int) (time.Time, error) {
	cfg, err := s.Config(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return AddBusinessDays(from, days, cfg.WorkingDays), nil
}
