package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestMapAssertivaDirect(t *testing.T) {
	src := makeTable(
		[]string{"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "100", "CENTRO", "CAMPO GRANDE", "MS", "79002-070", "JOAO", "5567981783902.0", "6732223333"},
	)

	out, missing := Map(src, StructureAssertiva)
	require.Equal(t, 1, out.Len())
	assert.Empty(t, missing)

	assert.Equal(t, "ACME LTDA", out.Get(0, FieldRazao))
	assert.Equal(t, "RUA UM", out.Get(0, FieldLogradouro))
	assert.Equal(t, "CENTRO", out.Get(0, FieldBairro))
	// strict cleaning keeps the national 11 digits, float artifact removed
	assert.Equal(t, "67981783902", out.Get(0, FieldSocio1Cel1))
	assert.Equal(t, "6732223333", out.Get(0, FieldSocio1Cel2))

	// partner data unified into the primary contact fields
	assert.Equal(t, "JOAO", out.Get(0, FieldNome))
	assert.Equal(t, "67981783902", out.Get(0, FieldWhats))
	assert.Equal(t, "6732223333", out.Get(0, FieldCel))
}

func TestMapFuzzyColumn(t *testing.T) {
	src := makeTable(
		[]string{"Razao Social Completa", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "100", "CENTRO", "CAMPO GRANDE", "MS", "79002070", "JOAO", "67981783902", ""},
	)

	out, _ := Map(src, StructureAssertiva)
	assert.Equal(t, "ACME LTDA", out.Get(0, FieldRazao))
}

func TestMapOptsFuzzyMinScore(t *testing.T) {
	// "Razao Social Completa" only reaches Razao through the fuzzy
	// fallback; a stricter threshold leaves the field unresolved.
	src := makeTable(
		[]string{"Razao Social Completa", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "100", "CENTRO", "CAMPO GRANDE", "MS", "79002070", "JOAO", "67981783902", ""},
	)

	_, missing := MapOpts(src, StructureAssertiva, MapOptions{FuzzyMinScore: 110})
	assert.Contains(t, missing, FieldRazao)
}

func TestMapOptsCountryCode(t *testing.T) {
	src := makeTable(
		[]string{"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "100", "CENTRO", "CAMPO GRANDE", "MS", "79002070", "JOAO", "15551234567", ""},
	)

	out, _ := MapOpts(src, StructureAssertiva, MapOptions{CountryCode: "+1"})
	// the configured DDI is recognized and stripped from the national number
	assert.Equal(t, "5551234567", out.Get(0, FieldSocio1Cel1))

	out, _ = Map(src, StructureAssertiva)
	assert.Equal(t, "15551234567", out.Get(0, FieldSocio1Cel1))
}

func TestMapPrefersColumnWithContent(t *testing.T) {
	// Base NUMERO exists but is blank; the numbered variant carries the data.
	src := makeTable(
		[]string{"Razao", "Logradouro", "NUMERO", "NUMERO.1", "BAIRRO", "CIDADE", "UF", "CEP", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "", "250", "CENTRO", "CAMPO GRANDE", "MS", "79002070", "JOAO", "67981783902", ""},
	)

	out, _ := Map(src, StructureAssertiva)
	assert.Equal(t, "250", out.Get(0, FieldNumero))
}

func TestMapMissingColumns(t *testing.T) {
	src := makeTable(
		[]string{"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2"},
		[]string{"ACME LTDA", "RUA UM", "100", "CENTRO", "CAMPO GRANDE", "MS", "JOAO", "67981783902", ""},
	)

	out, missing := Map(src, StructureAssertiva)
	assert.Contains(t, missing, FieldCEP)
	assert.True(t, out.HasColumn(FieldCEP))
	assert.Equal(t, "", out.Get(0, FieldCEP))
}

func TestMapLemitReconstruction(t *testing.T) {
	src := makeTable(
		[]string{"NOME", "DDD", "FONE", "CEL"},
		[]string{"MARIA", "67", "981783902", "32223333"},
		[]string{"PEDRO", "", "67981783902", "67981783902"}, // duplicate number
		[]string{"ANA", "", "", ""},
	)

	out, _ := Map(src, StructureLemit)
	require.Equal(t, 3, out.Len())

	assert.Equal(t, "67981783902", out.Get(0, FieldWhats))
	assert.Equal(t, "6732223333", out.Get(0, FieldCel))

	// reconstruction found a single number; the mapped CEL cell is kept
	// and formatted rather than cleared
	assert.Equal(t, "67981783902", out.Get(1, FieldWhats))
	assert.Equal(t, "67981783902", out.Get(1, FieldCel))

	assert.Equal(t, "", out.Get(2, FieldWhats))
	assert.Equal(t, "ANA", out.Get(2, FieldNome))
}

func TestCollectRowPhonesDeduplicates(t *testing.T) {
	src := makeTable(
		[]string{"DDD", "FONE", "CEL"},
		[]string{"67", "981783902", "981783902"},
	)
	phones := collectRowPhones(src, 0)
	require.Len(t, phones, 1)
	assert.Equal(t, "67981783902", phones[0])
}

func TestCollectRowPhonesStopsAtTwo(t *testing.T) {
	src := makeTable(
		[]string{"DDD", "FONE", "CEL", "DDD.1", "FONE.1"},
		[]string{"67", "981783902", "32223333", "67", "944445555"},
	)
	phones := collectRowPhones(src, 0)
	require.Len(t, phones, 2)
	assert.Equal(t, []string{"67981783902", "6732223333"}, phones)
}

func TestMapLemitIndexedVariants(t *testing.T) {
	src := makeTable(
		[]string{"NOME", "DDD", "FONE", "DDD.1", "FONE.1"},
		[]string{"MARIA", "", "", "67", "981783902"},
	)

	out, _ := Map(src, StructureLemit)
	assert.Equal(t, "67981783902", out.Get(0, FieldWhats))
}

func TestPartnerFallback(t *testing.T) {
	cols := []string{
		"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP",
		"SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2", "SOCIO1CPF",
		"SOCIO2Nome", "SOCIO2Celular1", "SOCIO2Celular2", "SOCIO2CPF",
	}
	src := makeTable(cols,
		// primary partner fully valid
		[]string{"A LTDA", "RUA UM", "1", "CENTRO", "CG", "MS", "79002070",
			"JOAO", "67981783902", "", "52998224725", "MARIA", "67911112222", "", ""},
		// primary empty, secondary name is the only valid field
		[]string{"B LTDA", "RUA DOIS", "2", "CENTRO", "CG", "MS", "79002070",
			"", "", "", "", "MARIA", "", "", ""},
		// nothing valid on either partner
		[]string{"C LTDA", "RUA TRES", "3", "CENTRO", "CG", "MS", "79002070",
			"", "123", "", "99", "", "456", "", "12"},
	)

	out, _ := Map(src, StructureAssertiva)
	require.Equal(t, 2, out.Len())

	assert.Equal(t, "A LTDA", out.Get(0, FieldRazao))
	assert.Equal(t, "JOAO", out.Get(0, FieldSocio1Nome))

	assert.Equal(t, "B LTDA", out.Get(1, FieldRazao))
	assert.Equal(t, "MARIA", out.Get(1, FieldSocio1Nome))
	assert.Equal(t, "", out.Get(1, FieldSocio1Cel1))

	assert.False(t, out.HasColumn("SOCIO1CPF"))
}

func TestPartnerFallbackSubstitutesPhones(t *testing.T) {
	cols := []string{
		"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP",
		"SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2",
		"SOCIO2Celular1",
	}
	src := makeTable(cols,
		[]string{"A LTDA", "RUA UM", "1", "CENTRO", "CG", "MS", "79002070",
			"JOAO", "", "", "(67) 91111-2222"},
	)

	out, _ := Map(src, StructureAssertiva)
	require.Equal(t, 1, out.Len())
	// secondary phone is cleaned exactly like a primary one
	assert.Equal(t, "67911112222", out.Get(0, FieldSocio1Cel1))
	assert.Equal(t, "67911112222", out.Get(0, FieldWhats))
}

func TestPartnerFallbackKeepsRowOnCPFOnly(t *testing.T) {
	cols := []string{
		"Razao", "Logradouro", "NUMERO", "BAIRRO", "CIDADE", "UF", "CEP",
		"SOCIO1Nome", "SOCIO1Celular1", "SOCIO1Celular2", "SOCIO2CPF",
	}
	src := makeTable(cols,
		[]string{"A LTDA", "RUA UM", "1", "CENTRO", "CG", "MS", "79002070",
			"", "", "", "52998224725"},
	)

	out, _ := Map(src, StructureAssertiva)
	assert.Equal(t, 1, out.Len())
}
