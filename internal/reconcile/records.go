// Package reconcile turns mapped tables into deliverable lead lists: final
// dedup and ordering of cleaned records, and cross-referencing CRM error
// reports against the submitted originals.
package reconcile

import (
	"strings"

	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

var textColumns = []string{
	schema.FieldRazao, schema.FieldLogradouro, schema.FieldBairro,
	schema.FieldCidade, schema.FieldUF, schema.FieldNome,
	schema.FieldWhats, schema.FieldCel,
}

// Finalize produces the canonical output table from a mapped one: rows
// without a usable Whats number are dropped, the remainder is deduplicated
// on the Whats value keeping the first occurrence, text cells are trimmed,
// the fixed column order is imposed (absent columns materialize empty) and
// rows are sorted by Bairro then Razao.
func Finalize(t *table.Table) *table.Table {
	out := t.Filter(func(r table.Row) bool {
		return strings.TrimSpace(r[schema.FieldWhats]) != ""
	})

	seen := make(map[string]bool, out.Len())
	out = out.Filter(func(r table.Row) bool {
		w := r[schema.FieldWhats]
		if seen[w] {
			return false
		}
		seen[w] = true
		return true
	})

	for _, row := range out.Rows {
		for _, c := range textColumns {
			row[c] = strings.TrimSpace(row[c])
		}
	}

	out = out.Select(schema.FixedOutputOrder...)
	out.SortBy(schema.FieldBairro, schema.FieldRazao)
	return out
}
