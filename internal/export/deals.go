package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/reobote/leadflow/internal/phone"
	"github.com/reobote/leadflow/internal/table"
)

// DealsColumns is the column set of the CRM "Negócios" import template,
// extended with the phone status flag operators use to triage bad numbers.
var DealsColumns = []string{
	"Título do negócio", "Empresa relacionada", "Pessoa relacionada",
	"Usuário responsável", "Data de início", "Data de conclusão",
	"Valor Total", "Funil", "Etapa", "Status", "Motivo de perda",
	"Descrição do motivo de perda", "Ranking", "Descrição", "Produtos e Serviços",
	"Status Telefone",
}

// Fixed pipeline position of every generated deal.
const (
	dealFunnel = "Funil de Vendas"
	dealStage  = "Prospecção"
	dealStatus = "Em andamento"
)

// DealsOptions configure a CRM deals export.
type DealsOptions struct {
	Niche string
	// LocalitySuffix extends the niche in titles and file names, e.g. a UF
	// tag when one upload mixes regions.
	LocalitySuffix string
	// DealsPerFile caps each generated workbook; consecutive files advance
	// one business day.
	DealsPerFile int
	StartDate    time.Time
	// CountryCode qualifies the carried WhatsApp numbers; empty means +55.
	CountryCode string
	// UsernameOf resolves a consultant's registered CRM login. When nil or
	// returning "", the login is derived from the display name.
	UsernameOf func(consultant string) string
}

// DealsTable converts a people-template table into CRM deal rows for one
// consultant on one date. Deal titles follow
// "MM/yy - RB - NICHE - Name/ESPs". The conclusion-date column is not a
// date: the CRM importer ignores it, so it carries the DDI-qualified
// WhatsApp number for the raw upload flow, with its status flagged in the
// last column.
func DealsTable(people *table.Table, consultant string, date time.Time, opts DealsOptions) *table.Table {
	out := table.New(DealsColumns...)
	username := resolveUsername(consultant, opts.UsernameOf)

	countryCode := opts.CountryCode
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}

	niche := sanitizeToken(opts.Niche)
	if opts.LocalitySuffix != "" {
		niche += " " + sanitizeToken(opts.LocalitySuffix)
	}

	for i := range people.Rows {
		name := people.Get(i, "Nome")

		raw := phone.CleanPreserveFull(people.Get(i, "WhatsApp"))
		formatted, status := phone.FormatForMessagingCode(raw, countryCode, true)

		row := make(table.Row, len(DealsColumns))
		for _, c := range DealsColumns {
			row[c] = ""
		}
		row["Título do negócio"] = fmt.Sprintf("%s - RB - %s - %s/ESPs", date.Format("01/06"), niche, name)
		row["Pessoa relacionada"] = name
		row["Usuário responsável"] = username
		row["Data de início"] = date.Format("02/01/2006")
		row["Data de conclusão"] = formatted
		row["Funil"] = dealFunnel
		row["Etapa"] = dealStage
		row["Status"] = dealStatus
		row["Status Telefone"] = string(status)

		out.AddRow(row)
	}
	return out
}

// DealsFiles splits each consultant's people rows into workbooks of at
// most DealsPerFile deals, advancing one business day per file, named
// NEGOCIOS_<FIRSTNAME>_<NICHE>[_<LOCALITY>]_<dd-mm-yyyy>.xlsx.
func DealsFiles(sharesByConsultant map[string]*table.Table, opts DealsOptions) (map[string][]byte, error) {
	if opts.DealsPerFile <= 0 {
		return nil, fmt.Errorf("deals per file must be positive")
	}

	consultants := make([]string, 0, len(sharesByConsultant))
	for c := range sharesByConsultant {
		consultants = append(consultants, c)
	}
	sort.Strings(consultants)

	files := make(map[string][]byte)
	used := make(map[string]int)
	for _, consultant := range consultants {
		people := sharesByConsultant[consultant]
		date := opts.StartDate
		for start := 0; start < people.Len(); start += opts.DealsPerFile {
			end := start + opts.DealsPerFile
			if end > people.Len() {
				end = people.Len()
			}
			chunk := table.New(people.Columns...)
			chunk.Rows = append(chunk.Rows, people.Rows[start:end]...)

			deals := DealsTable(chunk, consultant, date, opts)
			data, err := ExcelBytes(deals, "")
			if err != nil {
				return nil, fmt.Errorf("deals file for %s: %w", consultant, err)
			}

			name := fmt.Sprintf("NEGOCIOS_%s_%s", FirstName(consultant), sanitizeToken(opts.Niche))
			if opts.LocalitySuffix != "" {
				name += "_" + sanitizeToken(opts.LocalitySuffix)
			}
			name += "_" + date.Format("02-01-2006")
			files[uniqueName(used, name)+".xlsx"] = data

			date = NextBusinessDay(date)
		}
	}
	return files, nil
}
