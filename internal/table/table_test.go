package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupeHeaders(t *testing.T) {
	got := dedupeHeaders([]string{"DDD", "FONE", "DDD", "FONE", "DDD"})
	want := []string{"DDD", "FONE", "DDD.1", "FONE.1", "DDD.2"}
	assert.Equal(t, want, got)
}

func TestReadCSVSemicolon(t *testing.T) {
	data := []byte("NOME;Whats;CEL\nMaria;67981783902;\nJoao;;67999990000\n")
	tbl, err := ReadCSV(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"NOME", "Whats", "CEL"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Maria", tbl.Get(0, "NOME"))
	assert.Equal(t, "67981783902", tbl.Get(0, "Whats"))
	assert.Equal(t, "67999990000", tbl.Get(1, "CEL"))
}

func TestReadCSVShortRowsPadded(t *testing.T) {
	data := []byte("A,B,C\n1,2\n")
	tbl, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "", tbl.Get(0, "C"))
}

func TestReadCSVLatin1Fallback(t *testing.T) {
	// "Razão" with 0xE3 (ã) in Windows-1252, invalid as UTF-8
	data := []byte{'R', 'a', 'z', 0xE3, 'o', ',', 'U', 'F', '\n', 'x', ',', 'M', 'S', '\n'}
	tbl, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "Razão", tbl.Columns[0])
}

func TestReadCSVUTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("NOME,Whats\na,1\n")...)
	tbl, err := ReadCSV(data)
	require.NoError(t, err)
	assert.Equal(t, "NOME", tbl.Columns[0])
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		sample string
		want   rune
	}{
		{"a;b;c\n1;2;3", ';'},
		{"a,b,c\n1,2,3", ','},
		{"a\tb\tc", '\t'},
		{"a|b|c", '|'},
		{"plain text without separators", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter(tt.sample); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.sample, got, tt.want)
		}
	}
}

func TestLoadBytesUnsupported(t *testing.T) {
	_, err := LoadBytes("leads.pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSelectMaterializesMissing(t *testing.T) {
	tbl := New("A")
	tbl.AddRow(Row{"A": "1"})
	out := tbl.Select("A", "B")
	assert.Equal(t, []string{"A", "B"}, out.Columns)
	assert.Equal(t, "", out.Get(0, "B"))
}

func TestSortByStable(t *testing.T) {
	tbl := New("Bairro", "Razao", "id")
	tbl.AddRow(Row{"Bairro": "Centro", "Razao": "B", "id": "1"})
	tbl.AddRow(Row{"Bairro": "Amambai", "Razao": "Z", "id": "2"})
	tbl.AddRow(Row{"Bairro": "Centro", "Razao": "A", "id": "3"})
	tbl.AddRow(Row{"Bairro": "Centro", "Razao": "A", "id": "4"})
	tbl.SortBy("Bairro", "Razao")

	assert.Equal(t, "2", tbl.Get(0, "id"))
	assert.Equal(t, "3", tbl.Get(1, "id"))
	assert.Equal(t, "4", tbl.Get(2, "id")) // stable: 3 before 4
	assert.Equal(t, "1", tbl.Get(3, "id"))
}

func TestRemoveColumn(t *testing.T) {
	tbl := New("A", "B")
	tbl.AddRow(Row{"A": "1", "B": "2"})
	tbl.RemoveColumn("B")
	assert.Equal(t, []string{"A"}, tbl.Columns)
	_, ok := tbl.Rows[0]["B"]
	assert.False(t, ok)
}
