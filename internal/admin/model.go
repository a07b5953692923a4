package admin

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("administrador não encontrado")
	ErrInvalidCredentials = errors.New("usuário ou senha inválidos")
	ErrAccountDisabled    = errors.New("conta desativada")
	ErrMasterProtected    = errors.New("conta master não pode ser desativada ou removida")
	ErrUsernameTaken      = errors.New("nome de usuário já existe")
)

// Papéis carregados no JWT de acesso.
const (
	RoleAdmin  = "ADMIN"
	RoleMaster = "MASTER"
)

// Credential representa uma conta do painel administrativo.
type Credential struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	IsMaster     bool       `json:"is_master"`
	CreatedAt    time.Time  `json:"created_at"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Roles devolve os papéis correspondentes à conta.
func (c Credential) Roles() []string {
	if c.IsMaster {
		return []string{RoleAdmin, RoleMaster}
	}
	return []string{RoleAdmin}
}
