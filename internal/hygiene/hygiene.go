// Package hygiene runs the full spreadsheet cleaning pipeline: structure
// detection, schema mapping and record reconciliation.
package hygiene

import (
	"github.com/reobote/leadflow/internal/pkg/logger"
	"github.com/reobote/leadflow/internal/reconcile"
	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

// Options tune the mapping stage. Zero values use the package defaults.
type Options struct {
	// FuzzyMinScore overrides the schema mapper's fuzzy-fallback threshold.
	FuzzyMinScore float64
	// CountryCode overrides the DDI assumed when normalizing phones.
	CountryCode string
}

// Result carries the cleaned table and the run's bookkeeping.
type Result struct {
	Structure schema.Structure
	Table     *table.Table
	// Missing lists essential fields no source column could satisfy.
	Missing []string
	RowsIn  int
	RowsOut int
}

// Run cleans an already-loaded table. It fails with
// schema.ErrUnknownStructure when the column set matches no known provider
// layout; no best-effort cleaning is attempted in that case.
func Run(src *table.Table) (*Result, error) {
	return RunWith(src, Options{})
}

// RunWith is Run with tunable mapping options.
func RunWith(src *table.Table, opts Options) (*Result, error) {
	if src == nil || src.Len() == 0 {
		return nil, table.ErrEmptyTable
	}

	structure := schema.Detect(src.Columns)
	if structure == schema.StructureUnknown {
		logger.Warn("unrecognized structure", "columns", len(src.Columns))
		return nil, schema.ErrUnknownStructure
	}
	logger.Info("structure detected", "structure", string(structure))

	mapped, missing := schema.MapOpts(src, structure, schema.MapOptions{
		FuzzyMinScore: opts.FuzzyMinScore,
		CountryCode:   opts.CountryCode,
	})
	if len(missing) > 0 {
		logger.Warn("essential columns not found", "missing", missing)
	}

	out := reconcile.Finalize(mapped)
	logger.Info("cleaning complete",
		"structure", string(structure),
		"rows_in", src.Len(),
		"rows_out", out.Len())

	return &Result{
		Structure: structure,
		Table:     out,
		Missing:   missing,
		RowsIn:    src.Len(),
		RowsOut:   out.Len(),
	}, nil
}

// Process loads a raw spreadsheet payload and runs the pipeline on it. The
// filename selects the parser by extension.
func Process(filename string, data []byte) (*Result, error) {
	return ProcessWith(filename, data, Options{})
}

// ProcessWith is Process with tunable mapping options.
func ProcessWith(filename string, data []byte, opts Options) (*Result, error) {
	src, err := table.LoadBytes(filename, data)
	if err != nil {
		return nil, err
	}
	return RunWith(src, opts)
}
