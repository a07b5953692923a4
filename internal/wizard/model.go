package wizard

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("sessão não encontrada ou expirada")
	ErrSessionDone     = errors.New("sessão já finalizada")
	ErrNotAttachStep   = errors.New("sessão não está na etapa de anexo")
	ErrEmptyInput      = errors.New("resposta vazia")
	ErrInvalidOption   = errors.New("opção inválida")
)

// Os campos são coletados nesta ordem fixa. Secretarias com sub-opções
// têm uma etapa extra de ramificação antes da sequência comum.
const (
	fieldSetor = iota
	fieldFuncao
	fieldNome
	fieldEndereco
	fieldDescricao
	fieldAnexo
	fieldCount
)

var prompts = [fieldCount]string{
	fieldSetor:     "Qual é o setor ou subsetor da sua solicitação?",
	fieldFuncao:    "Qual é a sua função/cargo no setor?",
	fieldNome:      "Por favor, informe seu nome completo:",
	fieldEndereco:  "Informe seu endereço completo:",
	fieldDescricao: "Descreva detalhadamente o problema ou solicitação:",
	fieldAnexo:     "Gostaria de anexar algum arquivo ou imagem? (opcional)",
}

var acknowledgements = [fieldCount]string{
	fieldSetor:     "Obrigado! ",
	fieldFuncao:    "Perfeito! ",
	fieldNome:      "Ótimo! ",
	fieldEndereco:  "Perfeito! ",
	fieldDescricao: "",
	fieldAnexo:     "",
}

// branchOptions lista as sub-unidades das três secretarias com menu.
var branchOptions = map[string][]string{
	"Secretaria Municipal de Saúde":         {"Própria Secretaria", "Posto de Saúde (UBS)", "Balsa (UBS Fluvial)"},
	"Secretaria Municipal de Educação":      {"Própria Secretaria", "Escolas"},
	"Secretaria Municipal de Administração": {"Própria Secretaria", "RH", "CPC", "Contabilidade"},
}

// greetingPattern filtra saudações genéricas que não são respostas.
var greetingPattern = regexp.MustCompile(`(?i)^(oi|olá|ola|oie|hey|hi|hello|bom|boa|dia|tarde|noite|tudo|bem|como|vai|opa|e\s*ai)$`)

const greetingReply = "Por favor, responda à pergunta específica acima."

// Draft acumula as respostas coletadas até a finalização.
type Draft struct {
	Subsecretaria string `json:"subsecretaria,omitempty"`
	Setor         string `json:"setor,omitempty"`
	Funcao        string `json:"funcao,omitempty"`
	Nome          string `json:"nome,omitempty"`
	Endereco      string `json:"endereco,omitempty"`
	Descricao     string `json:"descricao,omitempty"`
	AnexoURL      string `json:"anexo_url,omitempty"`
}

// Session é o estado da conversa, persistido entre requisições.
type Session struct {
	ID            uuid.UUID  `json:"id"`
	Secretaria    string     `json:"secretaria"`
	Step          int        `json:"step"`
	HasBranch     bool       `json:"has_branch"`
	Draft         Draft      `json:"draft"`
	Finalizada    bool       `json:"finalizada"`
	Protocolo     string     `json:"protocolo,omitempty"`
	SolicitacaoID *uuid.UUID `json:"solicitacao_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Reply é a resposta do bot a uma interação.
type Reply struct {
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
	Done    bool     `json:"done"`
}

// fieldIndex converte o contador de etapas no índice do campo,
// descontando a etapa de ramificação quando existir.
func (s *Session) fieldIndex() int {
	if s.HasBranch {
		return s.Step - 1
	}
	return s.Step
}

// isGreeting detecta token de saudação isolado (match exato, sem case).
func isGreeting(input string) bool {
	return greetingPattern.MatchString(input)
}
