package export

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reobote/leadflow/internal/pkg/logger"
	"github.com/reobote/leadflow/internal/table"
)

var titleCaser = cases.Title(language.BrazilianPortuguese)

// Checkbox columns appended to every distributed call sheet. The operator
// ticks them during follow-up calls.
var (
	SingleCheckboxColumns = []string{"1º Contato", "2º Contato", "3º Contato"}
	DoubleCheckboxColumns = []string{"Atend. Lig.(S/N)", "Visita Marc.(S/N)"}
)

const (
	excelSingleCheckbox = "☐"
	excelDoubleCheckbox = "☐   ☐"
)

// SplitOptions configure a round-robin lead distribution.
type SplitOptions struct {
	// Consultants receive batches in order; the date advances one business
	// day after each full round.
	Consultants   []string
	LeadsPerBatch int
	StartDate     time.Time
	// Niche labels the generated files, e.g. "AUTOMOVEIS".
	Niche string
	// TeamOf resolves the ZIP folder for a consultant; nil puts everyone
	// at the archive root.
	TeamOf func(consultant string) string
}

// Batch is one consultant's slice of the lead list for one working day.
type Batch struct {
	Consultant string
	Team       string
	Date       time.Time
	Table      *table.Table
}

// Split deals the table's rows into consecutive batches of LeadsPerBatch,
// cycling through the consultants. All batches of one cycle share a date;
// the next cycle moves to the following business day.
func Split(t *table.Table, opts SplitOptions) []Batch {
	if len(opts.Consultants) == 0 || opts.LeadsPerBatch <= 0 {
		return nil
	}

	var batches []Batch
	date := opts.StartDate
	processed := 0
	total := t.Len()

	for processed < total {
		for _, consultant := range opts.Consultants {
			if processed >= total {
				break
			}
			end := processed + opts.LeadsPerBatch
			if end > total {
				end = total
			}

			batch := table.New(t.Columns...)
			batch.Rows = append(batch.Rows, t.Rows[processed:end]...)

			team := ""
			if opts.TeamOf != nil {
				team = opts.TeamOf(consultant)
			}
			batches = append(batches, Batch{
				Consultant: consultant,
				Team:       team,
				Date:       date,
				Table:      batch,
			})
			processed = end
		}
		date = NextBusinessDay(date)
	}
	return batches
}

// DistributionZip renders each batch as an Excel workbook and a printable
// PDF, named LEADS_<NICHE>_<FIRSTNAME>_<dd_mm_yyyy> under the consultant's
// team folder, and bundles everything into one ZIP. It returns the archive
// and the number of batches rendered.
func DistributionZip(t *table.Table, opts SplitOptions) ([]byte, int, error) {
	batches := Split(t, opts)
	if len(batches) == 0 {
		return nil, 0, fmt.Errorf("nothing to distribute")
	}

	files := make(map[string][]byte, len(batches)*2)
	used := make(map[string]int, len(batches))
	for _, b := range batches {
		sheet := withCheckboxColumns(b.Table)

		dir := ""
		if b.Team != "" {
			dir = b.Team + "/"
		}
		base := uniqueName(used, dir+fmt.Sprintf("LEADS_%s_%s_%s",
			sanitizeToken(opts.Niche), FirstName(b.Consultant), b.Date.Format("02_01_2006")))

		xlsx, err := ExcelBytes(sheet, "")
		if err != nil {
			return nil, 0, fmt.Errorf("batch %s: %w", base, err)
		}
		files[base+".xlsx"] = xlsx

		title := fmt.Sprintf("Leads %s - %s %s",
			titleCaser.String(strings.ToLower(opts.Niche)), firstWord(b.Consultant), b.Date.Format("02/01"))
		pdf, err := PDFBytes(sheet, title, PDFOptions{
			SingleCheckbox: SingleCheckboxColumns,
			DoubleCheckbox: DoubleCheckboxColumns,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("batch %s: %w", base, err)
		}
		files[base+".pdf"] = pdf
	}

	archive, err := ZipBytes(files)
	if err != nil {
		return nil, 0, err
	}
	logger.Info("distribution rendered",
		"batches", len(batches),
		"consultants", len(opts.Consultants),
		"leads", t.Len())
	return archive, len(batches), nil
}

// withCheckboxColumns clones a batch and appends the follow-up checkbox
// columns with their Excel glyphs.
func withCheckboxColumns(t *table.Table) *table.Table {
	out := t.Clone()
	for _, c := range SingleCheckboxColumns {
		out.AddColumn(c)
		for _, row := range out.Rows {
			row[c] = excelSingleCheckbox
		}
	}
	for _, c := range DoubleCheckboxColumns {
		out.AddColumn(c)
		for _, row := range out.Rows {
			row[c] = excelDoubleCheckbox
		}
	}
	return out
}

// FirstName returns the uppercased first word of a consultant name, the
// token used in generated file names.
func FirstName(name string) string {
	return strings.ToUpper(firstWord(name))
}

func firstWord(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// sanitizeToken uppercases and replaces spaces so a value is safe inside a
// file name.
func sanitizeToken(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
}
