package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSeparatesDuplicatesAndErrors(t *testing.T) {
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "67981783902"}, // clean
		[]string{"B LTDA", "67911112222"}, // duplicate in CRM
		[]string{"C LTDA", "67933334444"}, // invalid email error
	)
	errors := makeTable(
		[]string{"WhatsApp", "Motivo"},
		[]string{"67911112222", "Registro em duplicidade"},
		[]string{"67933334444", "Email inválido"},
	)

	safe, manual, stats := Report(original, errors, ReportOptions{})

	require.Equal(t, 1, safe.Len())
	assert.Equal(t, "A LTDA", safe.Get(0, "Razao"))

	require.Equal(t, 1, manual.Len())
	assert.Equal(t, "C LTDA", manual.Get(0, "Razao"))
	assert.Equal(t, "Email inválido", manual.Get(0, ReasonColumn))
	// reason column leads for operator visibility
	assert.Equal(t, ReasonColumn, manual.Columns[0])

	assert.Equal(t, 3, stats.OriginalTotal)
	assert.Equal(t, 2, stats.ErrorTotal)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 1, stats.ManualFixNeeded)
	assert.Equal(t, 1, stats.SafeTotal)
}

func TestReportKeyNormalization(t *testing.T) {
	// Error report phones come back formatted differently than submitted;
	// matching happens on the national digit key.
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "67981783902"},
	)
	errors := makeTable(
		[]string{"Celular", "Erro"},
		[]string{"+55 (67) 98178-3902", "Telefone já existe cadastrado"},
	)

	safe, manual, stats := Report(original, errors, ReportOptions{})
	assert.Equal(t, 0, safe.Len())
	assert.Equal(t, 0, manual.Len())
	assert.Equal(t, 1, stats.DuplicatesRemoved)
}

func TestReportAbortsWithoutPhoneColumn(t *testing.T) {
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "67981783902"},
	)
	errors := makeTable(
		[]string{"Codigo", "Motivo"},
		[]string{"42", "duplicidade"},
	)

	safe, manual, stats := Report(original, errors, ReportOptions{})
	assert.Equal(t, 1, safe.Len())
	assert.Equal(t, 0, manual.Len())
	assert.Equal(t, 1, stats.SafeTotal)
	assert.Equal(t, 0, stats.DuplicatesRemoved)
}

func TestReportUnkeyableRowsNeverMatch(t *testing.T) {
	// Two unkeyable phones must not cross-match through the sentinel.
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "n/a"},
	)
	errors := makeTable(
		[]string{"WhatsApp", "Motivo"},
		[]string{"sem numero", "duplicidade"},
	)

	safe, _, stats := Report(original, errors, ReportOptions{})
	assert.Equal(t, 1, safe.Len())
	assert.Equal(t, 0, stats.DuplicatesRemoved)
}

func TestReportMinScore(t *testing.T) {
	// The scoring weights are additive, so an exact column name still tops
	// out below 300. Above that nothing can qualify as a phone column and
	// the run aborts, keeping every original row safe.
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "67981783902"},
	)
	errors := makeTable(
		[]string{"WhatsApp", "Motivo"},
		[]string{"67981783902", "Registro em duplicidade"},
	)

	safe, manual, stats := Report(original, errors, ReportOptions{MinScore: 300})
	assert.Equal(t, 1, safe.Len())
	assert.Equal(t, 0, manual.Len())
	assert.Equal(t, 1, stats.SafeTotal)
	assert.Equal(t, 0, stats.DuplicatesRemoved)
}

func TestReportCustomMarkers(t *testing.T) {
	original := makeTable(
		[]string{"Razao", "Whats"},
		[]string{"A LTDA", "67981783902"},
	)
	errors := makeTable(
		[]string{"WhatsApp", "Motivo"},
		[]string{"67981783902", "REJECTED: already present"},
	)

	_, manual, stats := Report(original, errors, ReportOptions{DuplicateMarkers: []string{"already present"}})
	assert.Equal(t, 0, manual.Len())
	assert.Equal(t, 1, stats.DuplicatesRemoved)
}
