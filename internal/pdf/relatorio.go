package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/prefeiturafeijo/servicedesk/internal/solicitacao"
)

// RelatorioFileName segue o padrão relatorio_<yyyy-mm-dd>.pdf.
func RelatorioFileName(at time.Time) string {
	return fmt.Sprintf("relatorio_%s.pdf", at.Format("2006-01-02"))
}

var statusOrder = []string{
	solicitacao.StatusAguardando,
	solicitacao.StatusAceita,
	solicitacao.StatusResolvida,
	solicitacao.StatusCancelada,
}

// Relatorio gera o relatório gerencial em PDF: contagem por status e uma
// tabela das solicitações agrupadas na mesma ordem.
func Relatorio(items []*solicitacao.Solicitacao, at time.Time) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(20, 20, 20)
	doc.CellFormat(0, 10, tr("Relatório de Solicitações - Service Desk"), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(90, 90, 90)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Gerado em %s", at.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	doc.Ln(4)

	byStatus := make(map[string][]*solicitacao.Solicitacao, len(statusOrder))
	for _, s := range items {
		byStatus[s.Status] = append(byStatus[s.Status], s)
	}

	// resumo
	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(20, 20, 20)
	doc.CellFormat(0, 7, tr(fmt.Sprintf("Total: %d", len(items))), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, st := range statusOrder {
		doc.CellFormat(0, 6, tr(fmt.Sprintf("%s: %d", st, len(byStatus[st]))), "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	colWidths := []float64{35, 45, 45, 35, 30}
	headers := []string{"Protocolo", "Secretaria", "Solicitante", "Registro", "Prazo"}

	writeHeader := func(status string, count int) {
		doc.SetFont("Helvetica", "B", 12)
		doc.SetFillColor(230, 230, 230)
		doc.SetTextColor(20, 20, 20)
		doc.CellFormat(0, 8, tr(fmt.Sprintf("%s (%d)", status, count)), "", 1, "L", true, 0, "")

		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(245, 245, 245)
		for i, h := range headers {
			doc.CellFormat(colWidths[i], 6, tr(h), "1", 0, "L", true, 0, "")
		}
		doc.Ln(-1)
	}

	for _, st := range statusOrder {
		group := byStatus[st]
		if len(group) == 0 {
			continue
		}
		writeHeader(st, len(group))

		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(40, 40, 40)
		for _, s := range group {
			cells := []string{
				s.Protocolo,
				s.Secretaria,
				s.Nome,
				s.DataRegistro.Format("02/01/2006"),
				s.Prazo.Format("02/01/2006"),
			}
			for i, c := range cells {
				doc.CellFormat(colWidths[i], 6, tr(truncate(c, 28)), "1", 0, "L", false, 0, "")
			}
			doc.Ln(-1)
		}
		doc.Ln(4)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
