package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

const (
	pageWidth  = 210.0
	pageHeight = 297.0
)

// ComprovanteFileName segue o padrão Comprovante-<protocolo>.pdf.
func ComprovanteFileName(protocolo string) string {
	return fmt.Sprintf("Comprovante-%s.pdf", protocolo)
}

// Comprovante gera o recibo em PDF de uma solicitação: fundo escuro,
// cabeçalho institucional e a lista de campos preenchidos.
func Comprovante(s *solicitacao.Solicitacao) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	// fundo escuro de página inteira
	doc.SetFillColor(15, 15, 15)
	doc.Rect(0, 0, pageWidth, pageHeight, "F")

	// cabeçalho com borda verde
	doc.SetFillColor(25, 25, 25)
	doc.SetDrawColor(34, 197, 133)
	doc.SetLineWidth(0.5)
	doc.RoundedRect(10, 10, 190, 40, 5, "1234", "FD")

	doc.SetTextColor(34, 197, 94)
	doc.SetFont("Helvetica", "B", 18)
	doc.SetXY(10, 18)
	doc.CellFormat(190, 8, tr("PREFEITURA MUNICIPAL DE FEIJÓ"), "", 0, "C", false, 0, "")

	doc.SetFont("Helvetica", "B", 14)
	doc.SetXY(10, 28)
	doc.CellFormat(190, 8, tr("COMPROVANTE DE ORDEM DE SERVIÇO"), "", 0, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.SetTextColor(120, 220, 150)
	doc.SetXY(10, 38)
	doc.CellFormat(190, 8, "SERVICE DESK DE TI", "", 0, "C", false, 0, "")

	// cartão de informações
	cardTop := 60.0
	doc.SetFillColor(25, 25, 25)
	doc.RoundedRect(10, cardTop, 190, 120, 5, "1234", "FD")

	y := cardTop + 12
	writeField := func(label, value string) {
		if value == "" {
			return
		}
		doc.SetTextColor(34, 197, 94)
		doc.SetFont("Helvetica", "B", 11)
		doc.SetXY(20, y)
		doc.CellFormat(55, 6, tr(label+":"), "", 0, "L", false, 0, "")

		doc.SetTextColor(240, 240, 240)
		doc.SetFont("Helvetica", "", 11)
		doc.SetXY(75, y)
		doc.CellFormat(120, 6, tr(value), "", 0, "L", false, 0, "")
		y += 8
	}

	writeField("Protocolo", s.Protocolo)
	writeField("Secretaria", s.Secretaria)
	if s.Subsecretaria != nil {
		writeField("Subsecretaria", *s.Subsecretaria)
	}
	if s.Setor != nil {
		writeField("Setor", *s.Setor)
	}
	writeField("Função", s.Funcao)
	writeField("Nome", s.Nome)
	writeField("Endereço", s.Endereco)
	writeField("Data de registro", s.DataRegistro.Format("02/01/2006 15:04"))
	writeField("Prazo", s.Prazo.Format("02/01/2006 15:04"))
	writeField("Status", s.Status)
	if s.Nivel != nil {
		writeField("Nível", *s.Nivel)
	}
	if s.DataAgendamento != nil {
		writeField("Agendamento", s.DataAgendamento.Format("02/01/2006"))
	}

	// descrição em bloco próprio
	doc.SetTextColor(34, 197, 94)
	doc.SetFont("Helvetica", "B", 11)
	doc.SetXY(20, y+4)
	doc.CellFormat(170, 6, tr("Descrição:"), "", 0, "L", false, 0, "")

	doc.SetTextColor(240, 240, 240)
	doc.SetFont("Helvetica", "", 10)
	doc.SetXY(20, y+12)
	doc.MultiCell(170, 5, tr(s.Descricao), "", "L", false)

	// rodapé
	doc.SetTextColor(120, 220, 150)
	doc.SetFont("Helvetica", "I", 9)
	doc.SetXY(10, 280)
	doc.CellFormat(190, 6, tr(fmt.Sprintf("Emitido em %s", time.Now().Format("02/01/2006 15:04"))), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
