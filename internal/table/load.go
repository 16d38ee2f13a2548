package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")

// ErrEmptyTable is returned when a file parses but contains no header row.
var ErrEmptyTable = errors.New("file contains no data")

// LoadBytes parses a fully-buffered upload into a Table, dispatching on the
// file name extension. CSV text encoding and delimiter are sniffed;
// duplicated header names are made unique with .1/.2 suffixes in first-seen
// order.
func LoadBytes(filename string, data []byte) (*Table, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return ReadCSV(data)
	case strings.HasSuffix(name, ".xlsx"):
		return ReadXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadCSV parses CSV bytes with encoding detection and delimiter sniffing.
func ReadCSV(data []byte) (*Table, error) {
	text := decodeText(data)
	delim := sniffDelimiter(text)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return fromRecords(records), nil
}

// ReadXLSX parses the first sheet of an XLSX workbook, first row as header.
func ReadXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyTable
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return fromRecords(records), nil
}

func fromRecords(records [][]string) *Table {
	header := dedupeHeaders(records[0])
	t := New(header...)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// dedupeHeaders makes header names unique by appending .1, .2, ... to
// repeated occurrences, in first-seen order. The first occurrence keeps
// its original name.
func dedupeHeaders(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		n := seen[h]
		seen[h] = n + 1
		if n == 0 {
			out[i] = h
		} else {
			out[i] = h + "." + strconv.Itoa(n)
		}
	}
	return out
}

// decodeText returns the byte stream as a string, decoding from
// Windows-1252 when it is not valid UTF-8. Upstream exports are either
// UTF-8 (with or without BOM) or a Latin-1 variant.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// sniffDelimiter picks the most frequent of the known delimiters in a
// sample of the file. Comma wins when nothing is found.
func sniffDelimiter(text string) rune {
	sample := text
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	best := ','
	bestCount := 0
	for _, d := range []rune{';', ',', '\t', '|'} {
		if c := strings.Count(sample, string(d)); c > bestCount {
			best = d
			bestCount = c
		}
	}
	return best
}
