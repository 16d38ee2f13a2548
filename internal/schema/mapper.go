package schema

import (
	"sort"
	"strings"

	"github.com/reobote/leadflow/internal/match"
	"github.com/reobote/leadflow/internal/phone"
	"github.com/reobote/leadflow/internal/table"
)

// fuzzyMinScore is the matcher threshold for the fallback lookup. Direct
// name matches do not go through the matcher at all.
const fuzzyMinScore = 60

// maxPhoneVariants bounds the DDD/FONE/CEL suffix scan: DDD..DDD.7 and the
// matching FONE/CEL variants.
const maxPhoneVariants = 8

// MapOptions tune a projection. Zero values use the package defaults.
type MapOptions struct {
	// FuzzyMinScore overrides the fuzzy-fallback matcher threshold.
	FuzzyMinScore float64
	// CountryCode overrides the DDI assumed when normalizing phone values.
	CountryCode string
}

func (o MapOptions) withDefaults() MapOptions {
	if o.FuzzyMinScore == 0 {
		o.FuzzyMinScore = fuzzyMinScore
	}
	if o.CountryCode == "" {
		o.CountryCode = phone.DefaultCountryCode
	}
	return o
}

// Map projects a source table onto the canonical fields of the detected
// structure. It resolves one source column per essential field (direct
// content-aware match first, fuzzy fallback second), reconstructs phone
// numbers from split DDD/number columns for Lemit-like tables, formats all
// phone fields for messaging, applies the partner fallback for
// Assertiva-like tables and unifies partner data into the primary contact
// fields.
//
// The second return value lists essential fields for which no usable
// source column was found; those columns exist in the output but are
// entirely empty.
func Map(src *table.Table, structure Structure) (*table.Table, []string) {
	return MapOpts(src, structure, MapOptions{})
}

// MapOpts is Map with tunable thresholds and country code.
func MapOpts(src *table.Table, structure Structure, opts MapOptions) (*table.Table, []string) {
	opts = opts.withDefaults()
	essentials := EssentialsFor(structure)
	essSet := make(map[string]bool, len(essentials))
	for _, e := range essentials {
		essSet[e] = true
	}

	out := table.New()
	out.Rows = make([]table.Row, src.Len())
	for i := range out.Rows {
		out.Rows[i] = table.Row{}
	}

	var missing []string
	for _, field := range essentials {
		out.AddColumn(field)
		srcCol := resolveSource(src, field, opts.FuzzyMinScore)
		if srcCol == "" {
			missing = append(missing, field)
			continue
		}
		for i := range out.Rows {
			out.Rows[i][field] = src.Get(i, srcCol)
		}
	}

	mapPhones(src, out, essSet)
	formatPhones(out, essSet, opts.CountryCode)

	if essSet[FieldSocio1Nome] {
		applyPartnerFallback(src, out, opts.CountryCode)
	}

	unifyPartnerData(out)

	return out, missing
}

// resolveSource finds the source column for a canonical field: numbered
// address variants or the alias list, filtered to existing columns, sorted
// to prefer shorter (base) names, accepting the first with any non-blank
// content; then a fuzzy fallback over the same candidates.
func resolveSource(src *table.Table, field string, minScore float64) string {
	options := fieldAliases[field]
	if len(options) == 0 {
		options = []string{field}
	}

	var potential []string
	if variants, ok := addressVariants[field]; ok {
		for _, v := range variants {
			if src.HasColumn(v) {
				potential = append(potential, v)
			}
		}
	} else {
		for _, v := range options {
			if src.HasColumn(v) {
				potential = append(potential, v)
			}
		}
	}

	sort.SliceStable(potential, func(i, j int) bool {
		if len(potential[i]) != len(potential[j]) {
			return len(potential[i]) < len(potential[j])
		}
		return potential[i] < potential[j]
	})

	for _, cand := range potential {
		if src.ColumnHasContent(cand) {
			return cand
		}
	}

	candidates := append(append([]string{}, options...), potential...)
	if best := match.BestMatch(src.Columns, candidates, minScore); best != "" {
		if src.ColumnHasContent(best) {
			return best
		}
	}
	return ""
}

// mapPhones fills the phone fields. Lemit-like tables (split DDD/number
// columns among the essentials) get per-row reconstruction; everything
// else takes the mapped columns directly with strict cleaning.
func mapPhones(src *table.Table, out *table.Table, essSet map[string]bool) {
	lemitLike := essSet[FieldDDD] || essSet[FieldFone]

	if !lemitLike {
		for i := range out.Rows {
			if essSet[FieldSocio1Cel1] {
				out.Rows[i][FieldSocio1Cel1] = phone.CleanStrict11(out.Rows[i][FieldSocio1Cel1])
			}
			if essSet[FieldSocio1Cel2] {
				out.Rows[i][FieldSocio1Cel2] = phone.CleanStrict11(out.Rows[i][FieldSocio1Cel2])
			}
		}
		return
	}

	for i := range out.Rows {
		phones := collectRowPhones(src, i)
		if len(phones) > 0 {
			switch {
			case essSet[FieldSocio1Cel1]:
				out.Rows[i][FieldSocio1Cel1] = phones[0]
			case essSet[FieldWhats]:
				out.Rows[i][FieldWhats] = phones[0]
			}
		}
		if len(phones) > 1 {
			switch {
			case essSet[FieldSocio1Cel2]:
				out.Rows[i][FieldSocio1Cel2] = phones[1]
			case essSet[FieldCel]:
				out.Rows[i][FieldCel] = phones[1]
			}
		}
	}
}

// collectRowPhones scans the indexed DDD/FONE/CEL variants of one source
// row and accumulates up to two distinct valid numbers. Scan order per
// index: DDD+FONE, DDD+CEL, then FONE or CEL alone when no DDD accompanies
// them (those are assumed to already carry their area code).
func collectRowPhones(src *table.Table, row int) []string {
	var phones []string

	// add cleans and appends a candidate; reports whether the quota of two
	// distinct numbers is reached.
	add := func(raw string) bool {
		cleaned := phone.CleanStrict11(raw)
		if cleaned == "" {
			return false
		}
		for _, p := range phones {
			if p == cleaned {
				return false
			}
		}
		phones = append(phones, cleaned)
		return len(phones) >= 2
	}

	for i := 0; i < maxPhoneVariants; i++ {
		ddd := strings.TrimSpace(src.Get(row, variantName(FieldDDD, i)))
		fone := strings.TrimSpace(src.Get(row, variantName(FieldFone, i)))
		cel := strings.TrimSpace(src.Get(row, variantName(FieldCel, i)))

		if ddd != "" && fone != "" && add(ddd+fone) {
			break
		}
		if ddd != "" && cel != "" && add(ddd+cel) {
			break
		}
		if ddd == "" && fone != "" && add(fone) {
			break
		}
		if ddd == "" && cel != "" && add(cel) {
			break
		}
	}
	return phones
}

func variantName(base string, i int) string {
	if i == 0 {
		return base
	}
	return base + "." + string(rune('0'+i))
}

var phoneFields = []string{FieldSocio1Cel1, FieldSocio1Cel2, FieldWhats, FieldCel}

// formatPhones runs every phone-bearing canonical field through the
// messaging formatter without country code. Unformattable values become
// empty strings.
func formatPhones(out *table.Table, essSet map[string]bool, countryCode string) {
	for _, f := range phoneFields {
		if !essSet[f] {
			continue
		}
		for i := range out.Rows {
			formatted, _ := phone.FormatForMessagingCode(out.Rows[i][f], countryCode, false)
			out.Rows[i][f] = formatted
		}
	}
}

// partnerField pairs a primary-partner column with its secondary-partner
// source column and a validity rule.
type partnerField struct {
	primary   string
	secondary string
	valid     func(string) bool
}

// applyPartnerFallback substitutes second-partner data wherever the first
// partner's is invalid, drops rows where neither partner has a single
// valid field, and removes the partner bookkeeping columns afterwards.
func applyPartnerFallback(src *table.Table, out *table.Table, countryCode string) {
	nonEmpty := func(v string) bool { return strings.TrimSpace(v) != "" }
	cpfValid := func(v string) bool { return nonEmpty(v) && phone.IsValidCPF(v) }

	fields := []partnerField{
		{FieldSocio1Nome, fieldSocio2Nome, nonEmpty},
		{FieldSocio1Cel1, fieldSocio2Cel1, nonEmpty},
		{FieldSocio1Cel2, fieldSocio2Cel2, nonEmpty},
		{fieldSocio1CPF, fieldSocio2CPF, cpfValid},
	}

	out.AddColumn(fieldSocio1CPF)
	for i := range out.Rows {
		out.Rows[i][fieldSocio1CPF] = strings.TrimSpace(src.Get(i, fieldSocio1CPF))
	}

	secondaryValue := func(row int, f partnerField) string {
		v := src.Get(row, f.secondary)
		if f.secondary == fieldSocio2Cel1 || f.secondary == fieldSocio2Cel2 {
			// Secondary phones get the same cleaning as primaries so a
			// substituted value is indistinguishable downstream.
			formatted, _ := phone.FormatForMessagingCode(phone.CleanStrict11(v), countryCode, false)
			return formatted
		}
		return strings.TrimSpace(v)
	}

	kept := out.Rows[:0]
	for i, row := range out.Rows {
		hasValid := false
		for _, f := range fields {
			if f.valid(row[f.primary]) {
				hasValid = true
				continue
			}
			if s := secondaryValue(i, f); f.valid(s) {
				row[f.primary] = s
				hasValid = true
			} else {
				row[f.primary] = ""
			}
		}
		if hasValid {
			kept = append(kept, row)
		}
	}
	out.Rows = kept
	out.RemoveColumn(fieldSocio1CPF)
}

// unifyPartnerData fills the primary business-contact fields from partner
// fields where empty. Partner data is a fallback, never an override.
func unifyPartnerData(out *table.Table) {
	unify := func(dst, from string) {
		if !out.HasColumn(from) {
			return
		}
		out.AddColumn(dst)
		for _, row := range out.Rows {
			if strings.TrimSpace(row[dst]) == "" && strings.TrimSpace(row[from]) != "" {
				row[dst] = row[from]
			}
		}
	}
	unify(FieldNome, FieldSocio1Nome)
	unify(FieldWhats, FieldSocio1Cel1)
	unify(FieldCel, FieldSocio1Cel2)
}
