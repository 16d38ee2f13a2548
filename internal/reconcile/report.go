package reconcile

import (
	"strings"

	"github.com/reobote/leadflow/internal/match"
	"github.com/reobote/leadflow/internal/phone"
	"github.com/reobote/leadflow/internal/table"
)

// ReasonColumn is injected as the first column of the manual-fix table so
// the operator sees why each lead bounced.
const ReasonColumn = "MOTIVO_ERRO"

// DefaultDuplicateMarkers are the substrings, matched case-insensitively
// against the CRM's rejection reason, that classify an error as a
// duplicate rather than a fixable problem.
var DefaultDuplicateMarkers = []string{"duplicidade", "duplicate", "já existe", "cadastrado"}

var (
	reasonCandidates = []string{"Motivo", "Erro", "Reason", "Status", "Importação"}
	phoneCandidates  = []string{"WhatsApp", "Whats", "Celular", "Phone"}
)

// reasonMinScore is the matcher threshold when locating the reason and
// phone columns of the two report tables.
const reasonMinScore = 50

// ReportOptions tune a reconciliation run. Zero values use the package
// defaults.
type ReportOptions struct {
	// DuplicateMarkers overrides DefaultDuplicateMarkers.
	DuplicateMarkers []string
	// MinScore overrides the column-matcher threshold.
	MinScore float64
}

// ReportStats summarizes a reconciliation run.
type ReportStats struct {
	OriginalTotal     int `json:"original_total"`
	ErrorTotal        int `json:"error_total"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	AutoFixed         int `json:"auto_fixed"`
	ManualFixNeeded   int `json:"manual_fix_needed"`
	SafeTotal         int `json:"safe_total"`
}

// Report cross-references the CRM import error report against the
// originally submitted table. Rows of the original whose phone key appears
// in the error report are withheld from the safe table; among those, the
// ones rejected for a reason other than duplication come back in the
// manual-fix table (original row data, reason injected first) for operator
// editing. Duplicate rejections are simply discarded.
//
// Phone keys are the national digit strings of whichever column of each
// table fuzzy-matches a phone name. When either table has no such column
// the reconciliation aborts: the original comes back untouched as safe and
// the manual table is empty.
func Report(original, errors *table.Table, opts ReportOptions) (*table.Table, *table.Table, ReportStats) {
	stats := ReportStats{
		OriginalTotal: original.Len(),
		ErrorTotal:    errors.Len(),
	}
	markers := opts.DuplicateMarkers
	if len(markers) == 0 {
		markers = DefaultDuplicateMarkers
	}
	minScore := opts.MinScore
	if minScore == 0 {
		minScore = reasonMinScore
	}

	reasonCol := match.BestMatch(errors.Columns, reasonCandidates, minScore)
	phoneColOrig := match.BestMatch(original.Columns, phoneCandidates, minScore)
	phoneColErr := match.BestMatch(errors.Columns, phoneCandidates, minScore)

	if phoneColOrig == "" || phoneColErr == "" {
		stats.SafeTotal = original.Len()
		return original, table.New(original.Columns...), stats
	}

	// Per-key classification of the error report. A key is a duplicate when
	// any of its rejection reasons carries a duplicate marker; the first
	// reason seen per key is the one surfaced to the operator.
	dupKeys := make(map[string]bool)
	otherKeys := make(map[string]bool)
	reasonByKey := make(map[string]string)

	for i := range errors.Rows {
		key := phone.Key(errors.Get(i, phoneColErr))

		reason := ""
		if reasonCol != "" {
			reason = errors.Get(i, reasonCol)
			if _, ok := reasonByKey[key]; !ok {
				reasonByKey[key] = reason
			}
		}

		if key == phone.MissingKey {
			continue
		}
		if isDuplicateReason(reason, markers) {
			dupKeys[key] = true
		} else {
			otherKeys[key] = true
		}
	}
	stats.DuplicatesRemoved = len(dupKeys)

	allErrorKeys := make(map[string]bool, len(dupKeys)+len(otherKeys))
	for k := range dupKeys {
		allErrorKeys[k] = true
	}
	for k := range otherKeys {
		allErrorKeys[k] = true
	}

	safe := table.New(original.Columns...)
	manualCols := original.Columns
	if reasonCol != "" {
		manualCols = append([]string{ReasonColumn}, original.Columns...)
	}
	manual := table.New(manualCols...)

	for i, row := range original.Rows {
		key := phone.Key(original.Get(i, phoneColOrig))
		if !allErrorKeys[key] {
			safe.AddRow(row)
			continue
		}
		if otherKeys[key] {
			fix := make(table.Row, len(row)+1)
			for k, v := range row {
				fix[k] = v
			}
			if reasonCol != "" {
				fix[ReasonColumn] = reasonByKey[key]
			}
			manual.AddRow(fix)
		}
	}

	stats.ManualFixNeeded = manual.Len()
	stats.SafeTotal = safe.Len()
	return safe, manual, stats
}

func isDuplicateReason(reason string, markers []string) bool {
	r := strings.ToLower(reason)
	if r == "" {
		return false
	}
	for _, m := range markers {
		if strings.Contains(r, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
