package infra

// pdf.go — receipt PDF generation using go-pdf/fpdf.
// Renders a finalized shopping trip (history entry) as an A7-size
// thermal-receipt-style document: market header, date, item table
// (name, quantity, unit price, subtotal) and bold total.
//
// The output file is saved to storagePath/recibo_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/vinecunha/riscae/internal/model"
)

// GenerateReceiptPDF renders a history entry as a PDF receipt.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(entry *model.HistoryEntry, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", entry.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "RISCAÊ", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprovante de Compra", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Trip info ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, entry.ListName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, entry.Market, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, entry.Date.Format("02/01/2006"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // item name
	col2 := contentW * 0.20 // quantity
	col3 := contentW * 0.34 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range entry.Items {
		name := item.Name
		if len(name) > 20 {
			name = name[:19] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, formatQuantity(item), "", 0, "C", false, 0, "")
		subtotal := item.Price.Mul(item.Amount)
		pdf.CellFormat(col3, 5, "R$ "+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.5, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 6, "R$ "+entry.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.Ln(2)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d itens riscados de %d", entry.CompletedCount, entry.ItemsCount), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// formatQuantity renders UNIT amounts as "x2" and WEIGHT amounts in kg.
func formatQuantity(item model.HistoryItem) string {
	if item.UnitType == model.UnitTypeWeight {
		return item.Amount.String() + " kg"
	}
	// Unit quantities are whole in practice; trim trailing zeros either way
	return "x" + item.Amount.Truncate(0).String()
}
