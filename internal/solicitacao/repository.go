package solicitacao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prefeiturafeijo/servicedesk/internal/db"
)

const solicitacaoColumns = `id, protocolo, secretaria, subsecretaria, setor, funcao, nome, endereco, sala,
        descricao, anexo_url, data_registro, prazo, status, responsavel, local_atendimento, nivel,
        locked, data_agendamento, aceita_em, created_at, updated_at`

// Repository provê acesso às tabelas de solicitações e seus chats.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create insere uma nova solicitação.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Solicitacao, error) {
	query := `
        INSERT INTO solicitacoes (protocolo, secretaria, subsecretaria, setor, funcao, nome, endereco, sala,
            descricao, anexo_url, data_registro, prazo, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING ` + solicitacaoColumns

	row := r.pool.QueryRow(ctx, query,
		strings.TrimSpace(input.Protocolo),
		strings.TrimSpace(input.Secretaria),
		input.Subsecretaria,
		input.Setor,
		strings.TrimSpace(input.Funcao),
		strings.TrimSpace(input.Nome),
		strings.TrimSpace(input.Endereco),
		input.Sala,
		strings.TrimSpace(input.Descricao),
		input.AnexoURL,
		input.DataRegistro,
		input.Prazo,
		StatusAguardando,
	)

	return scanSolicitacao(row)
}

// Get busca uma solicitação pelo UUID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Solicitacao, error) {
	query := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanSolicitacao(row)
}

// GetByProtocolo localiza a solicitação mais recente com o protocolo informado.
func (r *Repository) GetByProtocolo(ctx context.Context, protocolo string) (*Solicitacao, error) {
	query := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes WHERE protocolo = $1 ORDER BY created_at DESC LIMIT 1`
	row := r.pool.QueryRow(ctx, query, strings.TrimSpace(protocolo))
	return scanSolicitacao(row)
}

// List lista solicitações aplicando filtros simples.
func (r *Repository) List(ctx context.Context, filter Filter) ([]Solicitacao, error) {
	base := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes`

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if len(filter.Status) > 0 {
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", idx))
		args = append(args, filter.Status)
		idx++
	}

	if filter.Secretaria != "" {
		clauses = append(clauses, fmt.Sprintf("secretaria = $%d", idx))
		args = append(args, strings.TrimSpace(filter.Secretaria))
		idx++
	}

	query := base
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var itens []Solicitacao
	for rows.Next() {
		s, err := scanSolicitacao(rows)
		if err != nil {
			return nil, err
		}
		itens = append(itens, *s)
	}

	return itens, rows.Err()
}

// ListVencidas retorna solicitações aceitas cujo prazo já expirou.
func (r *Repository) ListVencidas(ctx context.Context) ([]Solicitacao, error) {
	query := `SELECT ` + solicitacaoColumns + ` FROM solicitacoes WHERE status = $1 AND prazo < now() ORDER BY prazo ASC`

	rows, err := r.pool.Query(ctx, query, StatusAceita)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var itens []Solicitacao
	for rows.Next() {
		s, err := scanSolicitacao(rows)
		if err != nil {
			return nil, err
		}
		itens = append(itens, *s)
	}

	return itens, rows.Err()
}

// Update sobrescreve campos editáveis pelo administrador.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Solicitacao, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	set := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if input.Setor != nil {
		set("setor", *input.Setor)
	}
	if input.Funcao != nil {
		set("funcao", *input.Funcao)
	}
	if input.Nome != nil {
		set("nome", *input.Nome)
	}
	if input.Endereco != nil {
		set("endereco", *input.Endereco)
	}
	if input.Descricao != nil {
		set("descricao", *input.Descricao)
	}
	if input.Responsavel != nil {
		set("responsavel", *input.Responsavel)
	}
	if input.LocalAtendimento != nil {
		set("local_atendimento", *input.LocalAtendimento)
	}
	if input.DataAgendamento != nil {
		set("data_agendamento", *input.DataAgendamento)
	}
	if input.Prazo != nil {
		set("prazo", *input.Prazo)
	}

	if len(setParts) == 0 {
		return r.Get(ctx, id)
	}

	setParts = append(setParts, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE solicitacoes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setParts, ", "), idx, solicitacaoColumns)

	row := r.pool.QueryRow(ctx, query, args...)
	return scanSolicitacao(row)
}

// Aceitar marca a solicitação como aceita, registrando agendamento,
// nível e o novo prazo fixo.
func (r *Repository) Aceitar(ctx context.Context, id uuid.UUID, input AceitarParams) (*Solicitacao, error) {
	query := `
        UPDATE solicitacoes
        SET status = $2, aceita_em = $3, prazo = $4, data_agendamento = $5, nivel = $6,
            responsavel = COALESCE($7, responsavel), updated_at = now()
        WHERE id = $1
        RETURNING ` + solicitacaoColumns

	row := r.pool.QueryRow(ctx, query, id, StatusAceita, input.AceitaEm, input.Prazo,
		input.DataAgendamento, input.Nivel, input.Responsavel)
	return scanSolicitacao(row)
}

// AceitarParams carrega os campos gravados no aceite.
type AceitarParams struct {
	AceitaEm        time.Time
	Prazo           time.Time
	DataAgendamento time.Time
	Nivel           string
	Responsavel     *string
}

// SetStatus grava um status terminal (Cancelada/Resolvida).
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Solicitacao, error) {
	query := `
        UPDATE solicitacoes
        SET status = $2, updated_at = now()
        WHERE id = $1
        RETURNING ` + solicitacaoColumns

	row := r.pool.QueryRow(ctx, query, id, status)
	return scanSolicitacao(row)
}

// SetLocked liga/desliga o bloqueio do chat da solicitação.
func (r *Repository) SetLocked(ctx context.Context, id uuid.UUID, locked bool) (*Solicitacao, error) {
	query := `
        UPDATE solicitacoes
        SET locked = $2, updated_at = now()
        WHERE id = $1
        RETURNING ` + solicitacaoColumns

	row := r.pool.QueryRow(ctx, query, id, locked)
	return scanSolicitacao(row)
}

// Delete remove a solicitação e todo o histórico de chat em uma única
// transação, ao contrário dos dois statements soltos da versão original.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chat_messages WHERE solicitacao_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM solicitacoes WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CreateMessage insere mensagem no chat da solicitação.
func (r *Repository) CreateMessage(ctx context.Context, solicitacaoID uuid.UUID, senderID, senderType, message string) (*ChatMessage, error) {
	const query = `
        INSERT INTO chat_messages (solicitacao_id, sender_id, sender_type, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, solicitacao_id, sender_id, sender_type, message, "timestamp", read
    `

	row := r.pool.QueryRow(ctx, query, solicitacaoID,
		strings.TrimSpace(senderID),
		strings.ToLower(strings.TrimSpace(senderType)),
		strings.TrimSpace(message),
	)
	return scanMessage(row)
}

// ListMessages lista o chat em ordem cronológica.
func (r *Repository) ListMessages(ctx context.Context, solicitacaoID uuid.UUID) ([]ChatMessage, error) {
	const query = `
        SELECT id, solicitacao_id, sender_id, sender_type, message, "timestamp", read
        FROM chat_messages
        WHERE solicitacao_id = $1
        ORDER BY "timestamp" ASC
    `

	rows, err := r.pool.Query(ctx, query, solicitacaoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}

	return msgs, rows.Err()
}

// MarkMessagesRead marca como lidas as mensagens do outro remetente.
func (r *Repository) MarkMessagesRead(ctx context.Context, solicitacaoID uuid.UUID, readerType string) error {
	const query = `
        UPDATE chat_messages
        SET read = TRUE
        WHERE solicitacao_id = $1 AND sender_type <> $2 AND read = FALSE
    `
	_, err := r.pool.Exec(ctx, query, solicitacaoID, strings.ToLower(strings.TrimSpace(readerType)))
	return err
}

func scanSolicitacao(row pgx.Row) (*Solicitacao, error) {
	var s Solicitacao
	err := row.Scan(&s.ID, &s.Protocolo, &s.Secretaria, &s.Subsecretaria, &s.Setor, &s.Funcao,
		&s.Nome, &s.Endereco, &s.Sala, &s.Descricao, &s.AnexoURL, &s.DataRegistro, &s.Prazo,
		&s.Status, &s.Responsavel, &s.LocalAtendimento, &s.Nivel, &s.Locked, &s.DataAgendamento,
		&s.AceitaEm, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func scanMessage(row pgx.Row) (*ChatMessage, error) {
	var m ChatMessage
	err := row.Scan(&m.ID, &m.SolicitacaoID, &m.SenderID, &m.SenderType, &m.Message, &m.Timestamp, &m.Read)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
