package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/reobote/leadflow/internal/table"
)

// Checkbox cell texts for the printable call sheets. The Excel variant
// uses the ☐ glyph; the PDF core fonts lack it, so brackets stand in.
const (
	pdfSingleCheckbox = "[  ]"
	pdfDoubleCheckbox = "[  ]   [  ]"
)

// targetWidths pins the column widths (mm) of the known lead-sheet
// columns. Unknown columns share the leftover page width.
var targetWidths = map[string]float64{
	"Razao":             55,
	"Logradouro":        45,
	"Numero":            12,
	"Bairro":            25,
	"Cidade":            22,
	"UF":                8,
	"NOME":              63,
	"Whats":             29,
	"CEL":               28,
	"1º Contato":        22,
	"2º Contato":        22,
	"3º Contato":        22,
	"Atend. Lig.(S/N)":  33,
	"Visita Marc.(S/N)": 33,
}

// PDFOptions select which columns render as checkboxes instead of data.
type PDFOptions struct {
	SingleCheckbox []string
	DoubleCheckbox []string
}

// PDFBytes renders a table as a landscape A4 call sheet: dark blue header
// band, zebra-striped body, page number footer and the title on the first
// page only. Rendering an empty table is an error.
func PDFBytes(t *table.Table, title string, opts PDFOptions) ([]byte, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("no rows to render for %q", title)
	}
	if len(t.Columns) == 0 {
		return nil, fmt.Errorf("no columns to render for %q", title)
	}

	const margin = 5.0
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, 10)

	// Core fonts are CP1252; translate the UTF-8 cell texts.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 5, tr(title), "", 1, "C", false, 0, "")
		} else {
			pdf.Ln(5)
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*margin

	widths := make(map[string]float64, len(t.Columns))
	fixedTotal := 0.0
	variable := 0
	for _, c := range t.Columns {
		if w, ok := targetWidths[c]; ok {
			widths[c] = w
			fixedTotal += w
		} else {
			variable++
		}
	}
	if variable > 0 {
		w := (usable - fixedTotal) / float64(variable)
		if w < 10 {
			w = 10
		}
		for _, c := range t.Columns {
			if _, ok := widths[c]; !ok {
				widths[c] = w
			}
		}
	}

	single := make(map[string]bool, len(opts.SingleCheckbox))
	for _, c := range opts.SingleCheckbox {
		single[c] = true
	}
	double := make(map[string]bool, len(opts.DoubleCheckbox))
	for _, c := range opts.DoubleCheckbox {
		double[c] = true
	}

	pdf.SetLineWidth(0.1)
	pdf.SetX(margin)
	pdf.SetFillColor(22, 54, 92)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range t.Columns {
		pdf.CellFormat(widths[c], 8, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(225, 235, 250)

	fill := false
	for _, row := range t.Rows {
		pdf.SetX(margin)
		fill = !fill
		for _, c := range t.Columns {
			text := row[c]
			switch {
			case single[c]:
				text = pdfSingleCheckbox
			case double[c]:
				text = pdfDoubleCheckbox
			}
			text = fitCell(pdf, tr(text), widths[c]-4)
			pdf.CellFormat(widths[c], 6, text, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// fitCell truncates text rune by rune until it fits the cell width.
func fitCell(pdf *fpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
