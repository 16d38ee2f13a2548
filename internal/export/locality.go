package export

import (
	"strings"

	"github.com/reobote/leadflow/internal/table"
)

var ufColumns = []string{"UF", "Estado", "Estado/UF", "UF/Estado"}

// Locality derives a short locality tag for file names from the first row
// of a batch: a two-letter UF wins, then a city value of at most three
// characters, then the fallback. Long city names never leak into file
// names.
func Locality(t *table.Table, fallback string) string {
	if t == nil || t.Len() == 0 {
		return fallback
	}

	for _, col := range ufColumns {
		if !t.HasColumn(col) {
			continue
		}
		if v := strings.TrimSpace(t.Get(0, col)); len(v) == 2 {
			return strings.ToUpper(v)
		}
	}

	if t.HasColumn("Cidade") {
		if v := strings.TrimSpace(t.Get(0, "Cidade")); len(v) > 0 && len(v) <= 3 {
			return strings.ToUpper(v)
		}
	}
	return fallback
}
