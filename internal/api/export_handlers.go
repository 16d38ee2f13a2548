package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/reobote/leadflow/internal/export"
	"github.com/reobote/leadflow/internal/reconcile"
	"github.com/reobote/leadflow/internal/table"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	zipContentType  = "application/zip"
)

// HygieneWorkbook cleans an uploaded spreadsheet and returns the result as
// an Excel download.
//
//	POST /api/hygiene/workbook  (multipart field "file")
func (h *Handlers) HygieneWorkbook(w http.ResponseWriter, r *http.Request) {
	res, ok := h.runHygieneUpload(w, r)
	if !ok {
		return
	}

	data, err := export.ExcelBytes(res.Table, "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := fmt.Sprintf("HIGIENIZADO_%s.xlsx", time.Now().Format("02-01-2006"))
	respondAttachment(w, name, xlsxContentType, data)
}

// Distribute cleans an uploaded spreadsheet and splits it into per
// consultant call-sheet batches, returned as one ZIP.
//
//	POST /api/distribute  (multipart field "file"; form fields "teams",
//	"exclude" (repeatable), "leads_per_batch", "niche", "start_date")
func (h *Handlers) Distribute(w http.ResponseWriter, r *http.Request) {
	res, ok := h.runHygieneUpload(w, r)
	if !ok {
		return
	}

	pool := h.store.Pool(r.PostForm["teams"], r.PostForm["exclude"])
	if len(pool) == 0 {
		respondError(w, http.StatusBadRequest, "no consultants match the selection")
		return
	}

	opts := export.SplitOptions{
		Consultants:   pool,
		LeadsPerBatch: h.formInt(r, "leads_per_batch", h.config.Export.LeadsPerBatch),
		StartDate:     formDate(r, "start_date"),
		Niche:         formString(r, "niche", h.config.Export.DefaultNiche),
		TeamOf:        h.store.TeamOf,
	}

	archive, batches, err := export.DistributionZip(res.Table, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("X-Batches", strconv.Itoa(batches))
	name := fmt.Sprintf("Listas_Consultores_%s.zip", time.Now().Format("02-01-2006"))
	respondAttachment(w, name, zipContentType, archive)
}

// CRMPeople cleans an uploaded spreadsheet and renders the CRM people
// import files, one per consultant, bundled as a ZIP.
//
//	POST /api/crm/people
func (h *Handlers) CRMPeople(w http.ResponseWriter, r *http.Request) {
	res, ok := h.runHygieneUpload(w, r)
	if !ok {
		return
	}

	pool := h.store.Pool(r.PostForm["teams"], r.PostForm["exclude"])
	if len(pool) == 0 {
		respondError(w, http.StatusBadRequest, "no consultants match the selection")
		return
	}

	opts := export.PeopleOptions{
		Role:        formString(r, "role", h.config.Export.DefaultRole),
		Description: r.PostFormValue("description"),
		UF:          formString(r, "uf", h.config.Export.DefaultUF),
		Niche:       formString(r, "niche", h.config.Export.DefaultNiche),
		Date:        formDate(r, "start_date"),
		CountryCode: h.config.Phone.DefaultCountryCode,
		UsernameOf:  h.store.Username,
	}
	files, err := export.PeopleFiles(res.Table, pool,
		h.formInt(r, "leads_per_batch", h.config.Export.LeadsPerBatch), opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	archive, err := export.ZipBytes(files)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := fmt.Sprintf("PESSOAS_%s.zip", time.Now().Format("02-01-2006"))
	respondAttachment(w, name, zipContentType, archive)
}

// CRMDeals converts an uploaded people-template spreadsheet into CRM deal
// import files for one consultant, bundled as a ZIP.
//
//	POST /api/crm/deals  (multipart field "file"; form fields "consultant",
//	"niche", "locality", "deals_per_file", "start_date")
func (h *Handlers) CRMDeals(w http.ResponseWriter, r *http.Request) {
	name, data, err := readUpload(r, "file")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	people, err := table.LoadBytes(name, data)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	consultant := r.PostFormValue("consultant")
	if consultant == "" {
		respondError(w, http.StatusBadRequest, "consultant is required")
		return
	}

	locality := r.PostFormValue("locality")
	if locality == "" {
		locality = export.Locality(people, h.config.Export.DefaultLocality)
	}

	opts := export.DealsOptions{
		Niche:          formString(r, "niche", h.config.Export.DefaultNiche),
		LocalitySuffix: locality,
		DealsPerFile:   h.formInt(r, "deals_per_file", h.config.Export.LeadsPerBatch),
		StartDate:      formDate(r, "start_date"),
		CountryCode:    h.config.Phone.DefaultCountryCode,
		UsernameOf:     h.store.Username,
	}
	files, err := export.DealsFiles(map[string]*table.Table{consultant: people}, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	archive, err := export.ZipBytes(files)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := fmt.Sprintf("NEGOCIOS_%s.zip", time.Now().Format("02-01-2006"))
	respondAttachment(w, out, zipContentType, archive)
}

// ReconcileReport cross-references a CRM error report against the
// submitted lead file and returns a ZIP with the safe leads, the
// manual-fix sheet and the run stats.
//
//	POST /api/crm/report  (multipart fields "original" and "errors")
func (h *Handlers) ReconcileReport(w http.ResponseWriter, r *http.Request) {
	origName, origData, err := readUpload(r, "original")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	errName, errData, err := readUpload(r, "errors")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	original, err := table.LoadBytes(origName, origData)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("original: %v", err))
		return
	}
	errTable, err := table.LoadBytes(errName, errData)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("errors: %v", err))
		return
	}

	safe, manual, stats := reconcile.Report(original, errTable, reconcile.ReportOptions{
		DuplicateMarkers: h.config.Reconcile.DuplicateMarkers,
		MinScore:         h.config.Matching.MinScore,
	})

	files := make(map[string][]byte, 3)
	if files["LEADS_SEGUROS.xlsx"], err = export.ExcelBytes(safe, ""); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files["CORRIGIR_MANUAL.xlsx"], err = export.ExcelBytes(manual, ""); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	statsJSON, err := jsonBytes(stats)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	files["stats.json"] = statsJSON

	archive, err := export.ZipBytes(files)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := fmt.Sprintf("RECONCILIACAO_%s.zip", time.Now().Format("02-01-2006"))
	respondAttachment(w, out, zipContentType, archive)
}

// Form helpers

func formString(r *http.Request, field, fallback string) string {
	if v := r.PostFormValue(field); v != "" {
		return v
	}
	return fallback
}

func (h *Handlers) formInt(r *http.Request, field string, fallback int) int {
	if v := r.PostFormValue(field); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// formDate parses a YYYY-MM-DD form field, defaulting to today.
func formDate(r *http.Request, field string) time.Time {
	if v := r.PostFormValue(field); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
