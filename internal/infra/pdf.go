package infra

// pdf.go — OS printout generation using go-pdf/fpdf.
// Produces the A4 sheet handed to the customer at check-in and again at
// pickup: header, OS number, customer data, equipment description,
// reported problem, values and the warranty line.
//
// The output file is saved to storagePath/os_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"assistec/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateOSPDF renders the printed sheet for an OrdemServico.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateOSPDF(ordem *model.OrdemServico, empresaNome, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("os_%d.pdf", ordem.NumeroOS)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, empresaNome, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Ordem de Serviço", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW/2, 7, fmt.Sprintf("OS Nº %d", ordem.NumeroOS), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 7, ordem.CreatedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Cliente ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Cliente", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if ordem.Cliente != nil {
		pdf.CellFormat(contentW, 5, ordem.Cliente.Nome, "", 1, "L", false, 0, "")
		if ordem.Cliente.Celular != nil {
			pdf.CellFormat(contentW, 5, "Celular: "+*ordem.Cliente.Celular, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(3)

	// ── Equipamento ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Equipamento", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s  %s %s  %s", ordem.Categoria, ordem.Marca, ordem.Modelo, ordem.Cor), "", 1, "L", false, 0, "")
	if ordem.NumeroSerie != "" {
		pdf.CellFormat(contentW, 5, "Nº de série: "+ordem.NumeroSerie, "", 1, "L", false, 0, "")
	}
	if ordem.Acessorios != "" {
		pdf.CellFormat(contentW, 5, "Acessórios: "+ordem.Acessorios, "", 1, "L", false, 0, "")
	}
	if ordem.CondicoesEquipamento != "" {
		pdf.MultiCell(contentW, 5, "Condições: "+ordem.CondicoesEquipamento, "", "L", false)
	}
	pdf.Ln(3)

	// ── Relato ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Problema relatado", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(contentW, 5, ordem.Relato, "", "L", false)
	pdf.Ln(3)

	// ── Valores ──────────────────────────────────────────────────────────────
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(3)
	col := contentW * 0.7
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col, 5, "Peças:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW-col, 5, "R$ "+ordem.ValorPeca.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col, 5, "Serviço:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW-col, 5, "R$ "+ordem.ValorServico.StringFixed(2), "", 1, "R", false, 0, "")
	if !ordem.Desconto.IsZero() {
		pdf.CellFormat(col, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW-col, 5, "-R$ "+ordem.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW-col, 7, "R$ "+ordem.ValorFaturado.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Garantia ─────────────────────────────────────────────────────────────
	if ordem.VencimentoGarantia != nil {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5,
			"Garantia do serviço até "+ordem.VencimentoGarantia.Format("02/01/2006"),
			"", 1, "L", false, 0, "")
	}

	// ── Assinaturas ──────────────────────────────────────────────────────────
	pdf.Ln(15)
	half := contentW / 2
	pdf.Line(20, pdf.GetY(), 15+half-10, pdf.GetY())
	pdf.Line(15+half+10, pdf.GetY(), pageW-20, pdf.GetY())
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(half, 5, "Cliente", "", 0, "C", false, 0, "")
	pdf.CellFormat(half, 5, "Responsável", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
