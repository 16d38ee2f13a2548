package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

func makeTable(cols []string, rows ...[]string) *table.Table {
	t := table.New(cols...)
	for _, vals := range rows {
		row := table.Row{}
		for i, c := range cols {
			if i < len(vals) {
				row[c] = vals[i]
			}
		}
		t.AddRow(row)
	}
	return t
}

func TestFinalizeDropsEmptyAndDuplicatePhones(t *testing.T) {
	src := makeTable(
		[]string{"Razao", "Bairro", "Whats"},
		[]string{"B LTDA", "CENTRO", "67981783902"},
		[]string{"A LTDA", "CENTRO", ""},
		[]string{"C LTDA", "CENTRO", "67981783902"}, // duplicate of first
		[]string{"D LTDA", "AMAMBAI", "67911112222"},
	)

	out := Finalize(src)
	require.Equal(t, 2, out.Len())

	// sorted by Bairro then Razao
	assert.Equal(t, "D LTDA", out.Get(0, schema.FieldRazao))
	assert.Equal(t, "B LTDA", out.Get(1, schema.FieldRazao))
}

func TestFinalizeKeepsFirstOccurrence(t *testing.T) {
	src := makeTable(
		[]string{"Razao", "Bairro", "Whats", "NOME"},
		[]string{"X LTDA", "CENTRO", "67981783902", "JOAO"},
		[]string{"Y LTDA", "CENTRO", "67981783902", "MARIA"},
	)

	out := Finalize(src)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "JOAO", out.Get(0, schema.FieldNome))
}

func TestFinalizeImposesFixedColumns(t *testing.T) {
	src := makeTable(
		[]string{"Whats", "Razao"},
		[]string{"67981783902", "  A LTDA  "},
	)

	out := Finalize(src)
	assert.Equal(t, schema.FixedOutputOrder, out.Columns)
	assert.Equal(t, "A LTDA", out.Get(0, schema.FieldRazao))
	assert.Equal(t, "", out.Get(0, schema.FieldCidade))
}

func TestFinalizeEmptyInput(t *testing.T) {
	out := Finalize(table.New("Whats"))
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, schema.FixedOutputOrder, out.Columns)
}
