// Package schema detects which provider layout an input table uses and
// maps its columns onto the canonical contact field set.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical field names. These are the only column names that survive the
// pipeline; everything upstream is an alias of one of them.
const (
	FieldRazao         = "Razao"
	FieldLogradouro    = "Logradouro"
	FieldNumero        = "Numero"
	FieldBairro        = "Bairro"
	FieldCidade        = "Cidade"
	FieldUF            = "UF"
	FieldCEP           = "CEP"
	FieldCNPJ          = "CNPJ"
	FieldSocio1Nome    = "SOCIO1Nome"
	FieldSocio1Cel1    = "SOCIO1Celular1"
	FieldSocio1Cel2    = "SOCIO1Celular2"
	FieldNome          = "NOME"
	FieldWhats         = "Whats"
	FieldCel           = "CEL"
	FieldDDD           = "DDD"
	FieldFone          = "FONE"
)

// Secondary-partner source columns consumed by the fallback pass and the
// primary-partner CPF. They never appear in canonical output.
const (
	fieldSocio1CPF  = "SOCIO1CPF"
	fieldSocio2Nome = "SOCIO2Nome"
	fieldSocio2Cel1 = "SOCIO2Celular1"
	fieldSocio2Cel2 = "SOCIO2Celular2"
	fieldSocio2CPF  = "SOCIO2CPF"
)

// FixedOutputOrder is the canonical column order of a reconciled table.
var FixedOutputOrder = []string{
	FieldRazao, FieldLogradouro, FieldNumero, FieldBairro, FieldCidade, FieldUF,
	FieldNome, FieldWhats, FieldCel,
}

// AssertivaEssentials are the canonical fields extracted from an Assertiva
// export (company registry dumps with partner blocks).
var AssertivaEssentials = []string{
	FieldRazao, FieldLogradouro, FieldNumero, FieldBairro, FieldCidade, FieldUF,
	FieldCEP, FieldSocio1Nome, FieldSocio1Cel1, FieldSocio1Cel2,
}

// LemitEssentials are the canonical fields extracted from a Lemit export
// (person-centric lists with split DDD/number columns).
var LemitEssentials = []string{
	FieldNome, FieldWhats, FieldCel, FieldDDD, FieldFone,
}

// fieldAliases lists acceptable source-column names per canonical field,
// tried in order.
var fieldAliases = map[string][]string{
	FieldRazao:      {"Razao", "RAZAO_SOCIAL", "NOME/RAZAO_SOCIAL", "Fantasia"},
	FieldSocio1Nome: {"SOCIO1Nome", "NOME"},
	FieldLogradouro: {"Logradouro", "FULL-LOGRADOURO", "FULL_LOGRADOURO", "Endereco", "ENDERECO_COMPLETO", "TIPO-LOGRADOURO"},
	FieldNumero:     {"Numero", "NUMERO"},
	FieldBairro:     {"Bairro", "BAIRRO"},
	FieldCidade:     {"Cidade", "CIDADE"},
	FieldUF:         {"UF", "ESTADO"},
	FieldCNPJ:       {"CNPJ", "CPF/CNPJ"},
	FieldWhats:      {"Whats", "WhatsApp", "Telefone", "Celular", "Contato", "POSSUI-WHATSAPP"},
	FieldCel:        {"CEL", "Celular", "Telefone", "Whats", "WhatsApp"},
	FieldDDD:        {"DDD", "TELEFONE_DDD", "FONE_DDD"},
	FieldFone:       {"FONE", "TELEFONE_NUMERO", "FONE_NUMERO", "NUMERO_TELEFONE"},
}

// addressVariants lists the numbered-suffix source names for address-like
// fields. A second address block in the source shows up as NUMERO.1,
// BAIRRO.1 and so on; the base name is preferred, then the variants in
// order.
var addressVariants = map[string][]string{
	FieldLogradouro: {
		"Logradouro", "FULL-LOGRADOURO",
		"Logradouro.1", "FULL-LOGRADOURO.1",
		"Logradouro.2", "FULL-LOGRADOURO.2",
		"Logradouro.3", "FULL-LOGRADOURO.3",
	},
	FieldNumero: {"NUMERO", "NUMERO.1", "NUMERO.2", "NUMERO.3"},
	FieldBairro: {"BAIRRO", "BAIRRO.1", "BAIRRO.2", "BAIRRO.3"},
	FieldCidade: {"CIDADE", "CIDADE.1", "CIDADE.2", "CIDADE.3"},
	FieldUF:     {"UF", "UF.1", "UF.2", "UF.3"},
}

var diacriticStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeColName strips diacritics and spaces and lowercases, so that
// "Razão Social", "RAZAO SOCIAL" and "razaosocial" all compare equal.
func NormalizeColName(name string) string {
	out, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		out = name
	}
	out = strings.ReplaceAll(out, " ", "")
	return strings.ToLower(out)
}

func normalizeSet(columns []string) map[string]bool {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[NormalizeColName(c)] = true
	}
	return set
}
