// Package roster persists the consultant and team registry backing lead
// distribution. Storage is two JSON files under a data directory; both are
// created on demand and a corrupted file reads as empty rather than
// failing the caller.
package roster

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reobote/leadflow/internal/pkg/logger"
)

// DefaultTeam is the folder leads fall into when their consultant belongs
// to no registered team.
const DefaultTeam = "Outros"

const (
	consultantsFile = "consultores.json"
	teamsFile       = "equipes.json"
)

// Consultant is a person receiving lead batches. Username is their CRM
// login, used as the deal owner on exports.
type Consultant struct {
	Name     string `json:"consultor"`
	Username string `json:"usuario"`
}

// Team groups consultants under a supervisor name.
type Team struct {
	Name        string   `json:"nome"`
	Consultants []string `json:"consultores"`
}

// teamsEnvelope matches the on-disk layout of equipes.json.
type teamsEnvelope struct {
	Teams []Team `json:"equipes"`
}

// Store is a file-backed consultant/team registry safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore opens the registry rooted at dir, creating the directory and
// empty registry files when absent.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating roster dir: %w", err)
	}
	s := &Store{dir: dir}

	if _, err := os.Stat(s.path(consultantsFile)); os.IsNotExist(err) {
		if err := s.writeJSON(consultantsFile, []Consultant{}); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(s.path(teamsFile)); os.IsNotExist(err) {
		if err := s.writeJSON(teamsFile, teamsEnvelope{Teams: []Team{}}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) path(name string) string { return filepath.Join(s.dir, name) }

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Consultants returns the registered consultants. A missing or corrupted
// file reads as an empty roster.
func (s *Store) Consultants() []Consultant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadConsultants()
}

func (s *Store) loadConsultants() []Consultant {
	data, err := os.ReadFile(s.path(consultantsFile))
	if err != nil {
		return nil
	}
	var out []Consultant
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("consultant registry unreadable, treating as empty", "error", err.Error())
		return nil
	}
	return out
}

// Username returns the stored CRM login of a consultant, "" when the
// consultant is unknown or has none recorded.
func (s *Store) Username(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.loadConsultants() {
		if c.Name == name {
			return c.Username
		}
	}
	return ""
}

// AddConsultant registers a consultant. Names are unique.
func (s *Store) AddConsultant(c Consultant) error {
	if c.Name == "" {
		return fmt.Errorf("consultant name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.loadConsultants()
	for _, existing := range list {
		if existing.Name == c.Name {
			return fmt.Errorf("consultant %q already registered", c.Name)
		}
	}
	list = append(list, c)
	return s.writeJSON(consultantsFile, list)
}

// RemoveConsultant drops a consultant from the roster and from every team.
func (s *Store) RemoveConsultant(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.loadConsultants()
	kept := list[:0]
	found := false
	for _, c := range list {
		if c.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("consultant %q not registered", name)
	}
	if err := s.writeJSON(consultantsFile, kept); err != nil {
		return err
	}

	teams := s.loadTeams()
	for i := range teams {
		members := teams[i].Consultants[:0]
		for _, m := range teams[i].Consultants {
			if m != name {
				members = append(members, m)
			}
		}
		teams[i].Consultants = members
	}
	return s.writeJSON(teamsFile, teamsEnvelope{Teams: teams})
}

// Teams returns the registered teams. A missing or corrupted file reads as
// no teams.
func (s *Store) Teams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTeams()
}

func (s *Store) loadTeams() []Team {
	data, err := os.ReadFile(s.path(teamsFile))
	if err != nil {
		return nil
	}
	var env teamsEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn("team registry unreadable, treating as empty", "error", err.Error())
		return nil
	}
	return env.Teams
}

// SaveTeam creates or replaces a team definition.
func (s *Store) SaveTeam(t Team) error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := s.loadTeams()
	replaced := false
	for i := range teams {
		if teams[i].Name == t.Name {
			teams[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		teams = append(teams, t)
	}
	return s.writeJSON(teamsFile, teamsEnvelope{Teams: teams})
}

// RemoveTeam drops a team. Its consultants stay registered.
func (s *Store) RemoveTeam(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := s.loadTeams()
	kept := teams[:0]
	found := false
	for _, t := range teams {
		if t.Name == name {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return fmt.Errorf("team %q not registered", name)
	}
	return s.writeJSON(teamsFile, teamsEnvelope{Teams: kept})
}

// TeamOf returns the team a consultant belongs to, or DefaultTeam when
// unassigned. First registered team wins when a consultant appears twice.
func (s *Store) TeamOf(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.loadTeams() {
		for _, m := range t.Consultants {
			if m == name {
				return t.Name
			}
		}
	}
	return DefaultTeam
}

// Pool resolves the consultant names eligible for a distribution: members
// of the selected teams (all consultants when no team is selected), minus
// the excluded names, sorted and deduplicated.
func (s *Store) Pool(teams []string, excluded []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := make(map[string]bool)
	if len(teams) == 0 {
		for _, c := range s.loadConsultants() {
			set[c.Name] = true
		}
	} else {
		registered := s.loadTeams()
		for _, want := range teams {
			for _, t := range registered {
				if t.Name == want {
					for _, m := range t.Consultants {
						set[m] = true
					}
				}
			}
		}
	}

	for _, x := range excluded {
		delete(set, x)
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
