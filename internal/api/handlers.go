package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reobote/leadflow/internal/config"
	"github.com/reobote/leadflow/internal/hygiene"
	"github.com/reobote/leadflow/internal/roster"
	"github.com/reobote/leadflow/internal/schema"
	"github.com/reobote/leadflow/internal/table"
)

// maxUploadBytes bounds multipart uploads; lead spreadsheets are small.
const maxUploadBytes = 64 << 20

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	config    *config.Config
	store     *roster.Store
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(cfg *config.Config, store *roster.Store) *Handlers {
	return &Handlers{
		config:    cfg,
		store:     store,
		startTime: time.Now(),
	}
}

// HealthCheck reports process liveness and uptime.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}

// hygieneResponse is the JSON shape of a cleaning run.
type hygieneResponse struct {
	RunID     string      `json:"run_id"`
	Structure string      `json:"structure"`
	RowsIn    int         `json:"rows_in"`
	RowsOut   int         `json:"rows_out"`
	Missing   []string    `json:"missing_columns,omitempty"`
	Columns   []string    `json:"columns"`
	Records   []table.Row `json:"records"`
}

// RunHygiene cleans an uploaded spreadsheet and returns the records as
// JSON.
//
//	POST /api/hygiene  (multipart field "file")
func (h *Handlers) RunHygiene(w http.ResponseWriter, r *http.Request) {
	res, ok := h.runHygieneUpload(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, hygieneResponse{
		RunID:     uuid.NewString(),
		Structure: string(res.Structure),
		RowsIn:    res.RowsIn,
		RowsOut:   res.RowsOut,
		Missing:   res.Missing,
		Columns:   res.Table.Columns,
		Records:   res.Table.Rows,
	})
}

// runHygieneUpload parses the upload, runs the pipeline and writes the
// error response itself when something fails.
func (h *Handlers) runHygieneUpload(w http.ResponseWriter, r *http.Request) (*hygiene.Result, bool) {
	name, data, err := readUpload(r, "file")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	res, err := hygiene.ProcessWith(name, data, hygiene.Options{
		FuzzyMinScore: h.config.Matching.MinScoreFuzzy,
		CountryCode:   h.config.Phone.DefaultCountryCode,
	})
	switch {
	case errors.Is(err, schema.ErrUnknownStructure):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	case errors.Is(err, table.ErrUnsupportedFormat), errors.Is(err, table.ErrEmptyTable):
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return res, true
}

// readUpload extracts one multipart file field.
func readUpload(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", nil, fmt.Errorf("invalid multipart request: %w", err)
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("missing upload field %q", field)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("reading upload: %w", err)
	}
	return header.Filename, data, nil
}

// respondAttachment writes a binary download.
func respondAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func jsonBytes(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
