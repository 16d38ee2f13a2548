package hygiene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

func TestRunAssertivaEndToEnd(t *testing.T) {
	csv := strings.Join([]string{
		"Razao;Logradouro;NUMERO;BAIRRO;CIDADE;UF;CEP;SOCIO1Nome;SOCIO1Celular1;SOCIO1Celular2",
		"B LTDA;RUA UM;100;CENTRO;CAMPO GRANDE;MS;79002070;JOAO;5567981783902;",
		"A LTDA;RUA DOIS;200;AMAMBAI;CAMPO GRANDE;MS;79002070;MARIA;67911112222;",
		"C LTDA;RUA TRES;300;CENTRO;CAMPO GRANDE;MS;79002070;PEDRO;67981783902;", // dup phone
	}, "\n")

	res, err := Process("leads.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, schema.StructureAssertiva, res.Structure)
	assert.Equal(t, 3, res.RowsIn)
	assert.Equal(t, 2, res.RowsOut)
	assert.Equal(t, schema.FixedOutputOrder, res.Table.Columns)

	// sorted by Bairro, Razao
	assert.Equal(t, "A LTDA", res.Table.Get(0, schema.FieldRazao))
	assert.Equal(t, "B LTDA", res.Table.Get(1, schema.FieldRazao))
	assert.Equal(t, "67981783902", res.Table.Get(1, schema.FieldWhats))
	assert.Equal(t, "JOAO", res.Table.Get(1, schema.FieldNome))
}

func TestRunLemitEndToEnd(t *testing.T) {
	csv := strings.Join([]string{
		"NOME,DDD,FONE",
		"MARIA,67,981783902",
		"PEDRO,,",
	}, "\n")

	res, err := Process("pessoas.csv", []byte(csv))
	require.NoError(t, err)

	assert.Equal(t, schema.StructureLemit, res.Structure)
	require.Equal(t, 1, res.RowsOut)
	assert.Equal(t, "MARIA", res.Table.Get(0, schema.FieldNome))
	assert.Equal(t, "67981783902", res.Table.Get(0, schema.FieldWhats))
}

func TestRunWithFuzzyMinScore(t *testing.T) {
	// NOME plus five address markers detects as Assertiva; the company name
	// column only resolves through the fuzzy fallback, which the stricter
	// threshold rejects.
	csv := strings.Join([]string{
		"Razao Social Completa;Logradouro;NUMERO;BAIRRO;CIDADE;UF;NOME",
		"ACME LTDA;RUA UM;100;CENTRO;CAMPO GRANDE;MS;JOAO",
	}, "\n")

	res, err := ProcessWith("leads.csv", []byte(csv), Options{})
	require.NoError(t, err)
	assert.NotContains(t, res.Missing, schema.FieldRazao)

	res, err = ProcessWith("leads.csv", []byte(csv), Options{FuzzyMinScore: 110})
	require.NoError(t, err)
	assert.Contains(t, res.Missing, schema.FieldRazao)
}

func TestRunUnknownStructure(t *testing.T) {
	src := table.New("foo", "bar")
	src.AddRow(table.Row{"foo": "1", "bar": "2"})

	_, err := Run(src)
	assert.ErrorIs(t, err, schema.ErrUnknownStructure)
}

func TestRunEmptyTable(t *testing.T) {
	_, err := Run(table.New("Razao"))
	assert.ErrorIs(t, err, table.ErrEmptyTable)

	_, err = Run(nil)
	assert.ErrorIs(t, err, table.ErrEmptyTable)
}
