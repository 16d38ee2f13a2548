package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/reobote/leadflow/internal/phone"
	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

// PeopleColumns is the full column set of the CRM "Pessoas" import
// template. Columns the pipeline cannot fill stay empty but must be
// present for the import to succeed.
var PeopleColumns = []string{
	"Nome", "CPF", "Empresa", "Cargo", "Aniversário", "Ano de nascimento",
	"Usuário responsável", "Categoria", "Origem", "Descrição", "E-mail",
	"WhatsApp", "Telefone", "Celular", "Fax", "Ramal", "CEP", "País",
	"Estado", "Cidade", "Bairro", "Rua", "Número", "Complemento",
	"Produto", "Facebook", "Twitter", "LinkedIn", "Skype", "Instagram", "Ranking",
}

// Fixed cell values of every generated person row.
const (
	peopleCategory = "Lead"
	peopleOrigin   = "Reobote"
)

// PeopleOptions configure a CRM people export.
type PeopleOptions struct {
	// Role fills the Cargo column.
	Role string
	// Description fills Descrição when non-empty; otherwise each row falls
	// back to its company name.
	Description string
	// UF fills Estado when the row has none.
	UF string
	// Niche and Date feed the generated file names.
	Niche string
	Date  time.Time
	// CountryCode prefixes WhatsApp numbers; empty means +55.
	CountryCode string
	// UsernameOf resolves a consultant's registered CRM login. When nil or
	// returning "", the login is derived from the display name.
	UsernameOf func(consultant string) string
}

// CRMUsername derives the CRM login from a consultant's display name:
// lowercase, words joined by dots.
func CRMUsername(consultant string) string {
	return strings.ToLower(strings.Join(strings.Fields(consultant), "."))
}

// resolveUsername prefers the registered login over the derived one.
func resolveUsername(consultant string, usernameOf func(string) string) string {
	if usernameOf != nil {
		if u := strings.TrimSpace(usernameOf(consultant)); u != "" {
			return u
		}
	}
	return CRMUsername(consultant)
}

// PeopleTable converts cleaned leads into rows of the CRM people template,
// owned by the given consultant. WhatsApp numbers gain the DDI prefix; the
// secondary number passes through as-is.
func PeopleTable(leads *table.Table, consultant string, opts PeopleOptions) *table.Table {
	out := table.New(PeopleColumns...)
	username := resolveUsername(consultant, opts.UsernameOf)

	countryCode := opts.CountryCode
	if countryCode == "" {
		countryCode = phone.DefaultCountryCode
	}

	for i := range leads.Rows {
		row := make(table.Row, len(PeopleColumns))
		for _, c := range PeopleColumns {
			row[c] = ""
		}

		whats := strings.TrimSpace(leads.Get(i, schema.FieldWhats))
		if whats != "" {
			whats = countryCode + whats
		}

		desc := strings.TrimSpace(opts.Description)
		if desc == "" {
			desc = strings.TrimSpace(leads.Get(i, schema.FieldRazao))
		}

		uf := strings.TrimSpace(leads.Get(i, schema.FieldUF))
		if len(uf) >= 2 {
			uf = strings.ToUpper(uf[:2])
		} else if uf == "" {
			uf = opts.UF
		}

		row["Nome"] = leads.Get(i, schema.FieldNome)
		row["Cargo"] = opts.Role
		row["Usuário responsável"] = username
		row["Categoria"] = peopleCategory
		row["Origem"] = peopleOrigin
		row["Descrição"] = desc
		row["WhatsApp"] = whats
		row["Celular"] = leads.Get(i, schema.FieldCel)
		row["Estado"] = uf
		row["Cidade"] = leads.Get(i, schema.FieldCidade)
		row["Bairro"] = leads.Get(i, schema.FieldBairro)
		row["Rua"] = leads.Get(i, schema.FieldLogradouro)
		row["Número"] = leads.Get(i, schema.FieldNumero)
		row["CEP"] = phone.NormalizeCEP(leads.Get(i, schema.FieldCEP))

		out.AddRow(row)
	}
	return out
}

// PeopleFiles deals the leads round-robin among the consultants in chunks
// of leadsPerBatch, accumulates each consultant's share and renders one
// PESSOAS_<NICHE>_<FIRSTNAME>_<dd-mm-yyyy>.xlsx per consultant.
func PeopleFiles(leads *table.Table, consultants []string, leadsPerBatch int, opts PeopleOptions) (map[string][]byte, error) {
	if len(consultants) == 0 || leadsPerBatch <= 0 {
		return nil, fmt.Errorf("nothing to distribute")
	}

	shares := make(map[string]*table.Table, len(consultants))
	processed := 0
	for processed < leads.Len() {
		for _, consultant := range consultants {
			if processed >= leads.Len() {
				break
			}
			end := processed + leadsPerBatch
			if end > leads.Len() {
				end = leads.Len()
			}
			share, ok := shares[consultant]
			if !ok {
				share = table.New(leads.Columns...)
				shares[consultant] = share
			}
			share.Rows = append(share.Rows, leads.Rows[processed:end]...)
			processed = end
		}
	}

	files := make(map[string][]byte, len(shares))
	used := make(map[string]int, len(shares))
	for _, consultant := range consultants {
		share, ok := shares[consultant]
		if !ok {
			continue
		}
		people := PeopleTable(share, consultant, opts)
		data, err := ExcelBytes(people, "Pessoas")
		if err != nil {
			return nil, fmt.Errorf("people file for %s: %w", consultant, err)
		}
		base := fmt.Sprintf("PESSOAS_%s_%s_%s",
			sanitizeToken(opts.Niche), FirstName(consultant), opts.Date.Format("02-01-2006"))
		files[uniqueName(used, base)+".xlsx"] = data
	}
	return files, nil
}
