package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/prefeiturafeijo/servicedesk/internal/admin"
	"github.com/prefeiturafeijo/servicedesk/internal/config"
	"github.com/prefeiturafeijo/servicedesk/internal/events"
	httpmiddleware "github.com/prefeiturafeijo/servicedesk/internal/http/middleware"
	"github.com/prefeiturafeijo/servicedesk/internal/monitor"
	"github.com/prefeiturafeijo/servicedesk/internal/schedule"
	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
	"github.com/prefeiturafeijo/servicedesk/internal/storage"
	"github.com/prefeiturafeijo/servicedesk/internal/supportchat"
	"github.com/prefeiturafeijo/servicedesk/internal/wizard"
)

type Handler struct {
	cfg           *config.Config
	pool          *pgxpool.Pool
	redis         *redis.Client
	admins        *admin.Service
	tickets       *solicitacao.Service
	support       *supportchat.Service
	wizard        *wizard.Engine
	agenda        *schedule.Service
	monitor       *monitor.Service
	monitorOn     bool
	feed          *events.Feed
	storage       storage.FileStore
	publicLimiter *httpmiddleware.RateLimiter
	adminLimiter  *httpmiddleware.RateLimiter
}

// NewRouter monta serviços e devolve o roteador configurado.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, redisClient *redis.Client, adminService *admin.Service) (http.Handler, *monitor.Service, error) {
	bus := events.NewDispatcher()

	feed := events.NewFeed(200)
	feed.Bind(bus,
		events.SolicitacaoCriada,
		events.SolicitacaoStatus,
		events.SolicitacaoPrazoVencido,
		events.ChatMensagem,
		events.SupportMensagem,
	)

	agendaRepo := schedule.NewRepository(pool)
	agendaService := schedule.NewService(agendaRepo)

	ticketRepo := solicitacao.NewRepository(pool)
	ticketService := solicitacao.NewService(ticketRepo, agendaService, bus)

	supportRepo := supportchat.NewRepository(pool)
	supportService := supportchat.NewService(supportRepo, bus)

	sessions := wizard.NewRedisStore(redisClient, cfg.WizardSessionTTL)
	wizardEngine := wizard.NewEngine(sessions, ticketService, agendaService)

	var fileStore storage.FileStore = storage.NoopStore{}
	switch cfg.Storage.Provider {
	case "", "noop":
		// mantém o armazenamento padrão
	case "s3", "r2", "minio":
		s3Cfg := storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		}
		store, err := storage.NewS3Store(s3Cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: %w", err)
		}
		fileStore = store
	default:
		return nil, nil, fmt.Errorf("storage: provedor %s não suportado", cfg.Storage.Provider)
	}

	monitorLogger := log.With().Str("component", "monitor").Logger()
	monitorService := monitor.NewService(ticketService, bus, cfg.Monitor, monitorLogger)
	if cfg.Monitor.Enabled {
		monitorService.Start(context.Background())
	}

	h := &Handler{
		cfg:           cfg,
		pool:          pool,
		redis:         redisClient,
		admins:        adminService,
		tickets:       ticketService,
		support:       supportService,
		wizard:        wizardEngine,
		agenda:        agendaService,
		monitor:       monitorService,
		monitorOn:     cfg.Monitor.Enabled,
		feed:          feed,
		storage:       fileStore,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		adminLimiter:  httpmiddleware.NewRateLimiter(cfg.RateLimitAdmin.RequestsPerSecond, cfg.RateLimitAdmin.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)
		public.Get("/ready", h.Ready)

		public.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Login)
			auth.Post("/refresh", h.Refresh)
			auth.Post("/logout", h.Logout)
		})

		public.Get("/atendimento", h.AtendimentoStatus)

		public.Route("/chat/sessoes", func(c chi.Router) {
			c.Post("/", h.WizardStart)
			c.Get("/{id}", h.WizardSession)
			c.Post("/{id}/mensagens", h.WizardMessage)
			c.Post("/{id}/anexo", h.WizardAttach)
			c.Post("/{id}/pular-anexo", h.WizardSkipAttach)
		})

		public.Route("/solicitacoes", func(s chi.Router) {
			s.Post("/", h.CreateSolicitacao)
			s.Get("/{id}", h.GetSolicitacao)
			s.Get("/protocolo/{protocolo}", h.GetSolicitacaoByProtocolo)
			s.Get("/{id}/mensagens", h.ListTicketMessages)
			s.Post("/{id}/mensagens", h.SendTicketMessage)
		})

		public.Route("/suporte/chats", func(s chi.Router) {
			s.Post("/", h.OpenSupportChat)
			s.Get("/{id}", h.GetSupportChat)
			s.Get("/{id}/mensagens", h.ListSupportMessages)
			s.Post("/{id}/mensagens", h.SendSupportMessage)
		})
	})

	r.Route("/admin", func(adminRouter chi.Router) {
		adminRouter.Use(httpmiddleware.Auth(adminService.JWT()))
		adminRouter.Use(httpmiddleware.UserRateLimit(h.adminLimiter))

		adminRouter.Get("/me", h.Me)

		adminRouter.Route("/solicitacoes", func(s chi.Router) {
			s.Get("/", h.ListSolicitacoes)
			s.Get("/{id}", h.GetSolicitacao)
			s.Put("/{id}", h.UpdateSolicitacao)
			s.Delete("/{id}", h.DeleteSolicitacao)
			s.Post("/{id}/aceitar", h.AceitarSolicitacao)
			s.Post("/{id}/cancelar", h.CancelarSolicitacao)
			s.Post("/{id}/resolver", h.ResolverSolicitacao)
			s.Post("/{id}/bloquear", h.LockSolicitacao)
			s.Post("/{id}/desbloquear", h.UnlockSolicitacao)
			s.Get("/{id}/comprovante", h.Comprovante)
			s.Post("/{id}/mensagens", h.SendTicketMessageAdmin)
			s.Post("/{id}/mensagens/lidas", h.MarkTicketMessagesRead)
		})

		adminRouter.Get("/relatorio", h.Relatorio)

		adminRouter.Route("/suporte/chats", func(s chi.Router) {
			s.Get("/", h.ListSupportChats)
			s.Post("/{id}/fechar", h.CloseSupportChat)
			s.Post("/{id}/mensagens", h.SendSupportMessageAdmin)
		})

		adminRouter.Route("/monitor", func(m chi.Router) {
			m.Get("/resumo", h.MonitorSummary)
			m.Post("/executar", h.MonitorRun)
		})

		adminRouter.Get("/notificacoes", h.Notificacoes)

		adminRouter.Group(func(master chi.Router) {
			master.Use(httpmiddleware.RequireMaster)

			master.Route("/usuarios", func(u chi.Router) {
				u.Get("/", h.ListAdminUsers)
				u.Post("/", h.CreateAdminUser)
				u.Patch("/{id}", h.SetAdminUserActive)
				u.Post("/{id}/senha", h.ResetAdminPassword)
				u.Delete("/{id}", h.DeleteAdminUser)
			})

			master.Get("/atendimento", h.AtendimentoConfig)
			master.Put("/atendimento", h.UpdateAtendimentoConfig)
		})
	})

	return r, monitorService, nil
}

// Health responde status simples.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.pool.Ping(ctx)
	redisErr := h.redis.Ping(ctx).Err()

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
