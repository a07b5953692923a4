package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/prefeiturafeijo/servicedesk/internal/config"
	"github.com/prefeiturafeijo/servicedesk/internal/events"
	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

// TicketLister enumera solicitações aceitas com prazo estourado.
type TicketLister interface {
	ListVencidas(ctx context.Context) ([]solicitacao.Solicitacao, error)
}

// Service varre periodicamente as solicitações aceitas e publica um
// evento para cada prazo de 72h vencido, alimentando o painel.
type Service struct {
	tickets TicketLister
	bus     *events.Dispatcher
	cfg     config.MonitorConfig
	logger  zerolog.Logger

	mu         sync.RWMutex
	lastRun    time.Time
	lastCount  int
	notified   map[string]time.Time
	once       sync.Once
	cancel     context.CancelFunc
}

// NewService cria o monitor de prazos.
func NewService(tickets TicketLister, bus *events.Dispatcher, cfg config.MonitorConfig, logger zerolog.Logger) *Service {
	return &Service{
		tickets:  tickets,
		bus:      bus,
		cfg:      cfg,
		logger:   logger,
		notified: make(map[string]time.Time),
	}
}

// Start inicia o loop periódico. Safe para chamar múltiplas vezes.
func (s *Service) Start(parent context.Context) {
	if !s.cfg.Enabled {
		return
	}
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		s.cancel = cancel
		go s.runLoop(ctx)
	})
}

// Stop encerra o loop periódico.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Service) runLoop(ctx context.Context) {
	interval := s.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", interval).Msg("monitor de prazos iniciado")

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("monitor: primeira varredura falhou")
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("monitor de prazos encerrado")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("monitor: varredura periódica falhou")
			}
		}
	}
}

// RunOnce executa uma varredura imediata.
func (s *Service) RunOnce(ctx context.Context) error {
	vencidas, err := s.tickets.ListVencidas(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	current := make(map[string]struct{}, len(vencidas))
	for _, item := range vencidas {
		key := item.ID.String()
		current[key] = struct{}{}

		s.mu.Lock()
		_, already := s.notified[key]
		if !already {
			s.notified[key] = now
		}
		s.mu.Unlock()

		if already {
			continue
		}

		s.logger.Warn().
			Str("protocolo", item.Protocolo).
			Time("prazo", item.Prazo).
			Msg("prazo de atendimento vencido")

		if s.bus != nil {
			s.bus.Publish(ctx, events.Event{
				Type:       events.SolicitacaoPrazoVencido,
				OccurredAt: now,
				Payload:    item,
			})
		}
	}

	s.mu.Lock()
	// Quem saiu da lista (resolvida, cancelada ou prazo estendido) sai do
	// dedup e pode alertar de novo se voltar a vencer.
	for key := range s.notified {
		if _, still := current[key]; !still {
			delete(s.notified, key)
		}
	}
	s.lastRun = now
	s.lastCount = len(vencidas)
	s.mu.Unlock()

	return nil
}

// Summary resume a última varredura para o painel.
type Summary struct {
	LastRun  time.Time `json:"last_run"`
	Vencidas int       `json:"vencidas"`
}

// Summary devolve o snapshot corrente.
func (s *Service) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{LastRun: s.lastRun, Vencidas: s.lastCount}
}
