package admin

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/prefeiturafeijo/servicedesk/internal/auth"
	"github.com/prefeiturafeijo/servicedesk/internal/util"
)

// Store abstrai a persistência de contas administrativas.
type Store interface {
	Count(ctx context.Context) (int, error)
	GetByUsername(ctx context.Context, username string) (*Credential, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Credential, error)
	List(ctx context.Context) ([]Credential, error)
	Create(ctx context.Context, username, passwordHash string, isMaster bool, createdBy *uuid.UUID) (*Credential, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*Credential, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Service concentra autenticação e gestão de contas administrativas.
type Service struct {
	store      Store
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewService cria novo serviço.
func NewService(store Store, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *Service {
	return &Service{store: store, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *Service) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno da autenticação.
type LoginResult struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	Admin        Credential `json:"admin"`
}

type refreshState struct {
	Subject string `json:"subject"`
}

// Bootstrap cria a conta padrão admin/admin123 quando a tabela está
// vazia, replicando o seed do sistema de origem. A senha deve ser
// trocada no primeiro acesso.
func (s *Service) Bootstrap(ctx context.Context) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.Hash("admin123")
	if err != nil {
		return err
	}

	if _, err := s.store.Create(ctx, "admin", hash, true, nil); err != nil {
		return err
	}

	log.Warn().Msg("conta padrão criada: usuário=admin senha=admin123 — troque a senha")
	return nil
}

// Login autentica por usuário/senha e emite o par de tokens.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	cred, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, cred.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if !cred.Active {
		return nil, ErrAccountDisabled
	}

	if err := s.store.TouchLastLogin(ctx, cred.ID); err != nil {
		log.Warn().Err(err).Msg("falha ao registrar last_login")
	}

	return s.issueTokens(ctx, cred)
}

// Refresh troca um refresh token válido por novo par (rotação).
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(strings.TrimSpace(rawRefresh))
	key := auth.RefreshRedisKey(hash)

	stateRaw, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrInvalidRefresh
		}
		return nil, err
	}

	var state refreshState
	if err := json.Unmarshal([]byte(stateRaw), &state); err != nil {
		return nil, auth.ErrInvalidRefresh
	}

	subject, err := uuid.Parse(state.Subject)
	if err != nil {
		return nil, auth.ErrInvalidRefresh
	}

	cred, err := s.store.GetByID(ctx, subject)
	if err != nil {
		return nil, auth.ErrInvalidRefresh
	}
	if !cred.Active {
		return nil, ErrAccountDisabled
	}

	// rotação: invalida o token usado antes de emitir o próximo
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, cred)
}

// Logout revoga o refresh token corrente.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	hash := auth.HashRefreshToken(strings.TrimSpace(rawRefresh))
	return s.redis.Del(ctx, auth.RefreshRedisKey(hash)).Err()
}

func (s *Service) issueTokens(ctx context.Context, cred *Credential) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(cred.ID.String(), cred.Roles())
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	stateRaw, err := json.Marshal(refreshState{Subject: cred.ID.String()})
	if err != nil {
		return nil, err
	}

	if err := s.redis.Set(ctx, auth.RefreshRedisKey(refreshHash), stateRaw, s.refreshTTL).Err(); err != nil {
		return nil, err
	}

	return &LoginResult{AccessToken: access, RefreshToken: rawRefresh, Admin: *cred}, nil
}

// GetByID carrega a conta pelo UUID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Credential, error) {
	return s.store.GetByID(ctx, id)
}

// List lista contas (somente MASTER).
func (s *Service) List(ctx context.Context) ([]Credential, error) {
	return s.store.List(ctx)
}

// CreateUser cria nova conta administrativa.
func (s *Service) CreateUser(ctx context.Context, username, password string, isMaster bool, createdBy uuid.UUID) (*Credential, error) {
	if err := util.RequireString(username, "usuário"); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.Hash(password)
	if err != nil {
		return nil, err
	}

	return s.store.Create(ctx, username, hash, isMaster, &createdBy)
}

// SetActive ativa/desativa conta; a master é protegida.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Credential, error) {
	cred, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cred.IsMaster && !active {
		return nil, ErrMasterProtected
	}
	return s.store.SetActive(ctx, id, active)
}

// ResetPassword define nova senha para a conta.
func (s *Service) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if err := util.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := auth.Hash(password)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, id, hash)
}

// DeleteUser remove conta; a master é protegida.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	cred, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cred.IsMaster {
		return ErrMasterProtected
	}
	return s.store.Delete(ctx, id)
}
