package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/reobote/leadflow/internal/roster"
)

// ListConsultants returns the registered consultants.
//
//	GET /api/roster/consultants
func (h *Handlers) ListConsultants(w http.ResponseWriter, r *http.Request) {
	list := h.store.Consultants()
	if list == nil {
		list = []roster.Consultant{}
	}
	respondJSON(w, http.StatusOK, list)
}

// AddConsultant registers a consultant.
//
//	POST /api/roster/consultants  {"consultor": "...", "usuario": "..."}
func (h *Handlers) AddConsultant(w http.ResponseWriter, r *http.Request) {
	var c roster.Consultant
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.store.AddConsultant(c); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// RemoveConsultant drops a consultant from the registry and all teams.
//
//	DELETE /api/roster/consultants/{name}
func (h *Handlers) RemoveConsultant(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondError(w, http.StatusBadRequest, "invalid consultant name")
		return
	}
	if err := h.store.RemoveConsultant(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"removed": name})
}

// ListTeams returns the registered teams.
//
//	GET /api/roster/teams
func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	list := h.store.Teams()
	if list == nil {
		list = []roster.Team{}
	}
	respondJSON(w, http.StatusOK, list)
}

// SaveTeam creates or replaces a team.
//
//	POST /api/roster/teams  {"nome": "...", "consultores": ["..."]}
func (h *Handlers) SaveTeam(w http.ResponseWriter, r *http.Request) {
	var t roster.Team
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.store.SaveTeam(t); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, t)
}

// RemoveTeam drops a team; its consultants stay registered.
//
//	DELETE /api/roster/teams/{name}
func (h *Handlers) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondError(w, http.StatusBadRequest, "invalid team name")
		return
	}
	if err := h.store.RemoveTeam(name); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"removed": name})
}
