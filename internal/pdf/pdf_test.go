package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

func sample() *solicitacao.Solicitacao {
	nivel := solicitacao.NivelI
	return &solicitacao.Solicitacao{
		ID:           uuid.New(),
		Protocolo:    "OS-2026-0042",
		Secretaria:   "Secretaria Municipal de Saúde",
		Funcao:       "Enfermeiro",
		Nome:         "Maria Silva",
		Endereco:     "Posto Central",
		Descricao:    "Computador da recepção não liga",
		DataRegistro: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
		Prazo:        time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC),
		Status:       solicitacao.StatusAceita,
		Nivel:        &nivel,
	}
}

func TestComprovanteFileName(t *testing.T) {
	if got := ComprovanteFileName("OS-2026-0042"); got != "Comprovante-OS-2026-0042.pdf" {
		t.Fatalf("nome = %q", got)
	}
}

func TestRelatorioFileName(t *testing.T) {
	at := time.Date(2026, time.March, 2, 15, 4, 0, 0, time.UTC)
	if got := RelatorioFileName(at); got != "relatorio_2026-03-02.pdf" {
		t.Fatalf("nome = %q", got)
	}
}

func TestComprovanteProducesPDF(t *testing.T) {
	content, err := Comprovante(sample())
	if err != nil {
		t.Fatalf("Comprovante: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("saída não é um PDF")
	}
}

func TestRelatorioProducesPDF(t *testing.T) {
	items := []*solicitacao.Solicitacao{sample()}
	aguardando := sample()
	aguardando.Status = solicitacao.StatusAguardando
	items = append(items, aguardando)

	content, err := Relatorio(items, time.Now())
	if err != nil {
		t.Fatalf("Relatorio: %v", err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		t.Fatal("saída não é um PDF")
	}
}

func TestRelatorioEmptyList(t *testing.T) {
	content, err := Relatorio(nil, time.Now())
	if err != nil {
		t.Fatalf("Relatorio vazio: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("relatório vazio ainda deve gerar documento")
	}
}
