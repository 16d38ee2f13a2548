package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reobote/leadflow/internal/export"
	"github.com/reobote/leadflow/internal/hygiene"
	"github.com/reobote/leadflow/internal/reconcile"
	"github.com/reobote/leadflow/internal/table"
)

const usage = `leadflow - spreadsheet hygiene and lead distribution

Usage:
  leadflow clean      -in <file> -out <file.xlsx>
  leadflow distribute -in <file> -consultants "A,B" [-per N] [-niche X] [-date YYYY-MM-DD] -out <file.zip>
  leadflow report     -original <file> -errors <file> -outdir <dir>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "clean":
		err = runClean(os.Args[2:])
	case "distribute":
		err = runDistribute(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}
}

func loadTable(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return table.LoadBytes(filepath.Base(path), data)
}

func runClean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	in := fs.String("in", "", "input spreadsheet (.csv or .xlsx)")
	out := fs.String("out", "", "output workbook (.xlsx)")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return fmt.Errorf("both -in and -out are required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	res, err := hygiene.Process(filepath.Base(*in), data)
	if err != nil {
		return err
	}

	xlsx, err := export.ExcelBytes(res.Table, "")
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		return err
	}

	fmt.Printf("Structure:  %s\n", res.Structure)
	fmt.Printf("Rows in:    %d\n", res.RowsIn)
	fmt.Printf("Rows out:   %d\n", res.RowsOut)
	if len(res.Missing) > 0 {
		fmt.Printf("Missing:    %s\n", strings.Join(res.Missing, ", "))
	}
	fmt.Printf("Written to: %s\n", *out)
	return nil
}

func runDistribute(args []string) error {
	fs := flag.NewFlagSet("distribute", flag.ExitOnError)
	in := fs.String("in", "", "input spreadsheet (.csv or .xlsx)")
	out := fs.String("out", "", "output archive (.zip)")
	consultants := fs.String("consultants", "", "comma-separated consultant names")
	per := fs.Int("per", 50, "leads per batch")
	niche := fs.String("niche", "GERAL", "niche label for file names")
	dateStr := fs.String("date", "", "start date (YYYY-MM-DD, default today)")
	fs.Parse(args)
	if *in == "" || *out == "" || *consultants == "" {
		return fmt.Errorf("-in, -out and -consultants are required")
	}

	start := time.Now()
	if *dateStr != "" {
		t, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		start = t
	}

	var names []string
	for _, n := range strings.Split(*consultants, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	res, err := hygiene.Process(filepath.Base(*in), data)
	if err != nil {
		return err
	}

	archive, batches, err := export.DistributionZip(res.Table, export.SplitOptions{
		Consultants:   names,
		LeadsPerBatch: *per,
		StartDate:     start,
		Niche:         *niche,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, archive, 0o644); err != nil {
		return err
	}

	fmt.Printf("Leads:      %d\n", res.RowsOut)
	fmt.Printf("Batches:    %d\n", batches)
	fmt.Printf("Written to: %s\n", *out)
	return nil
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	origPath := fs.String("original", "", "originally submitted spreadsheet")
	errPath := fs.String("errors", "", "CRM error report spreadsheet")
	outDir := fs.String("outdir", ".", "output directory")
	fs.Parse(args)
	if *origPath == "" || *errPath == "" {
		return fmt.Errorf("both -original and -errors are required")
	}

	original, err := loadTable(*origPath)
	if err != nil {
		return fmt.Errorf("original: %w", err)
	}
	errTable, err := loadTable(*errPath)
	if err != nil {
		return fmt.Errorf("errors: %w", err)
	}

	safe, manual, stats := reconcile.Report(original, errTable, reconcile.ReportOptions{})

	safeX, err := export.ExcelBytes(safe, "")
	if err != nil {
		return err
	}
	manualX, err := export.ExcelBytes(manual, "")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*outDir, "LEADS_SEGUROS.xlsx"), safeX, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(*outDir, "CORRIGIR_MANUAL.xlsx"), manualX, 0o644); err != nil {
		return err
	}

	fmt.Printf("Original:          %d\n", stats.OriginalTotal)
	fmt.Printf("Errors:            %d\n", stats.ErrorTotal)
	fmt.Printf("Duplicates:        %d\n", stats.DuplicatesRemoved)
	fmt.Printf("Manual fix needed: %d\n", stats.ManualFixNeeded)
	fmt.Printf("Safe:              %d\n", stats.SafeTotal)
	return nil
}
