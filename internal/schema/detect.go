package schema

import "errors"

// Structure identifies which provider layout an input table follows.
type Structure string

const (
	StructureAssertiva Structure = "Assertiva"
	StructureLemit     Structure = "Lemit"
	StructureUnknown   Structure = "Unknown"
)

// ErrUnknownStructure means the table matches neither provider layout.
// Processing must stop for that file; no best-effort mapping is attempted.
var ErrUnknownStructure = errors.New("unrecognized spreadsheet structure")

// possuiWhatsappMarker is exclusive to Lemit exports and decides detection
// on its own.
const possuiWhatsappMarker = "POSSUI-WHATSAPP"

// lemitPhoneMarkers are phone-ish columns typical of Lemit exports.
var lemitPhoneMarkers = []string{FieldWhats, FieldCel, FieldFone, FieldDDD, "Telefone", "Celular"}

// Detect classifies a column set. Lemit signals are checked first and win
// unconditionally; Assertiva needs a name column plus at least three of
// its non-name essential markers; anything else is Unknown.
func Detect(columns []string) Structure {
	set := normalizeSet(columns)

	hasPossuiWhatsapp := set[NormalizeColName(possuiWhatsappMarker)]

	hasNome := set[NormalizeColName(FieldNome)]
	hasLemitPhone := false
	for _, m := range lemitPhoneMarkers {
		if set[NormalizeColName(m)] {
			hasLemitPhone = true
			break
		}
	}
	if hasPossuiWhatsapp || (hasNome && hasLemitPhone) {
		return StructureLemit
	}

	hasRazao := set[NormalizeColName(FieldRazao)]
	markers := 0
	for _, c := range AssertivaEssentials {
		if c == FieldRazao || c == FieldSocio1Nome {
			continue
		}
		if set[NormalizeColName(c)] {
			markers++
		}
	}
	if (hasRazao || hasNome) && markers >= 3 {
		return StructureAssertiva
	}

	return StructureUnknown
}

// EssentialsFor returns the canonical fields a structure is expected to
// provide. Unknown structures have no essentials.
func EssentialsFor(s Structure) []string {
	switch s {
	case StructureAssertiva:
		return AssertivaEssentials
	case StructureLemit:
		return LemitEssentials
	default:
		return nil
	}
}
