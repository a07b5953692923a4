package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const credentialColumns = `id, username, password_hash, active, is_master, created_at, created_by, last_login`

// Repository provê acesso à tabela admin_credentials.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Count conta as contas cadastradas (usado no bootstrap).
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admin_credentials`).Scan(&count)
	return count, err
}

// GetByUsername localiza conta pelo nome de usuário.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM admin_credentials WHERE username = $1`
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(username))
	return scanCredential(row)
}

// GetByID localiza conta pelo UUID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM admin_credentials WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanCredential(row)
}

// List lista todas as contas.
func (r *Repository) List(ctx context.Context) ([]Credential, error) {
	query := `SELECT ` + credentialColumns + ` FROM admin_credentials ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *c)
	}

	return creds, rows.Err()
}

// Create insere nova conta.
func (r *Repository) Create(ctx context.Context, username, passwordHash string, isMaster bool, createdBy *uuid.UUID) (*Credential, error) {
	query := `
        INSERT INTO admin_credentials (username, password_hash, is_master, created_by)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + credentialColumns

	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(username), passwordHash, isMaster, createdBy)
	cred, err := scanCredential(row)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return cred, nil
}

// SetActive liga/desliga uma conta.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*Credential, error) {
	query := `
        UPDATE admin_credentials SET active = $2 WHERE id = $1
        RETURNING ` + credentialColumns
	row := r.pool.QueryRow(ctx, query, id, active)
	return scanCredential(row)
}

// UpdatePassword troca o hash de senha.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE admin_credentials SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastLogin registra o instante do login.
func (r *Repository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE admin_credentials SET last_login = now() WHERE id = $1`, id)
	return err
}

// Delete remove a conta.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM admin_credentials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCredential(row pgx.Row) (*Credential, error) {
	var c Credential
	err := row.Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Active, &c.IsMaster, &c.CreatedAt, &c.CreatedBy, &c.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
