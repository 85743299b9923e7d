// Package session holds the operator's working state between commands:
// parameter overrides with their explanations, the run configuration slots,
// and the last raw AI response. The session is explicit and persisted; no
// command reads state it did not load from disk or receive as input.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"digestsim/internal/assist"
	"digestsim/internal/logging"
	"digestsim/internal/registry"
)

// SlotCount is the number of side-by-side run configurations.
const SlotCount = 3

// Slot is one run configuration. Three slots share the session's flow,
// horizon, and step so runs differ only where the operator made them differ.
type Slot struct {
	Temperature float64 `yaml:"temperature"` // K
	HRT         float64 `yaml:"hrt"`         // d
	Method      string  `yaml:"method"`
}

// Session is the complete persisted working state.
type Session struct {
	// Overrides keyed by parameter name. Only registry keys are ever
	// stored; values here win over the registry defaults at resolve time.
	FeedstockOverrides map[string]float64 `yaml:"feedstock_overrides"`
	KineticOverrides   map[string]float64 `yaml:"kinetic_overrides"`

	// Explanations captured alongside AI-recommended values.
	FeedstockNotes map[string]string `yaml:"feedstock_notes"`
	KineticNotes   map[string]string `yaml:"kinetic_notes"`

	// UseKinetics selects whether runs pass the resolved kinetic map to the
	// solver or let it fall back to its built-in defaults.
	UseKinetics bool `yaml:"use_kinetics"`

	Flow    float64          `yaml:"flow"`    // m3/d, shared by all slots
	Slots   [SlotCount]Slot  `yaml:"slots"`
	Horizon float64          `yaml:"horizon"` // d
	Step    float64          `yaml:"step"`    // d

	// LastRaw is the most recent unparsed AI response, kept for display.
	LastRaw string `yaml:"last_raw,omitempty"`
}

// New returns a session with the standard defaults: three mesophilic slots
// at increasing retention times.
func New() *Session {
	s := &Session{
		FeedstockOverrides: map[string]float64{},
		KineticOverrides:   map[string]float64{},
		FeedstockNotes:     map[string]string{},
		KineticNotes:       map[string]string{},
		Flow:               170,
		Horizon:            150,
		Step:               0.1,
	}
	hrts := [SlotCount]float64{30, 45, 60}
	for i := range s.Slots {
		s.Slots[i] = Slot{Temperature: 308.15, HRT: hrts[i], Method: "BDF"}
	}
	return s
}

// ApplyExtraction merges an AI extraction into the session: recommended
// values update the override sets per key, notes travel with their values,
// and everything already set but not mentioned survives. The extractor has
// already discarded unknown keys and malformed entries.
func (s *Session) ApplyExtraction(ex assist.Extraction, raw string) {
	for k, v := range ex.FeedstockValues {
		s.FeedstockOverrides[k] = v
	}
	for k, n := range ex.FeedstockNotes {
		s.FeedstockNotes[k] = n
	}
	for k, v := range ex.KineticValues {
		s.KineticOverrides[k] = v
	}
	for k, n := range ex.KineticNotes {
		s.KineticNotes[k] = n
	}
	s.LastRaw = raw
	logging.Session("[Apply] merged %d feedstock and %d kinetic recommendations",
		len(ex.FeedstockValues), len(ex.KineticValues))
}

// SetFeedstock stores a manual feedstock override. Unknown names are
// rejected so typos cannot silently create dead keys.
func (s *Session) SetFeedstock(name string, value float64) error {
	if !registry.FeedstockNames()[name] {
		return fmt.Errorf("unknown feedstock parameter %q", name)
	}
	s.FeedstockOverrides[name] = value
	delete(s.FeedstockNotes, name) // a manual edit invalidates the AI note
	return nil
}

// SetKinetic stores a manual kinetic override.
func (s *Session) SetKinetic(name string, value float64) error {
	if !registry.KineticNames()[name] {
		return fmt.Errorf("unknown kinetic parameter %q", name)
	}
	s.KineticOverrides[name] = value
	delete(s.KineticNotes, name)
	return nil
}

// ClearOverrides drops all overrides and notes, returning the session to
// registry defaults without touching the run configuration.
func (s *Session) ClearOverrides() {
	s.FeedstockOverrides = map[string]float64{}
	s.KineticOverrides = map[string]float64{}
	s.FeedstockNotes = map[string]string{}
	s.KineticNotes = map[string]string{}
	s.LastRaw = ""
}

// ResolvedFeedstock resolves the full influent composition for a run.
func (s *Session) ResolvedFeedstock() map[string]float64 {
	return registry.Resolve(registry.Feedstock(), s.FeedstockOverrides)
}

// ResolvedKinetics resolves the kinetic parameter map for a run, or nil when
// the session leaves kinetics to the solver's built-in defaults.
func (s *Session) ResolvedKinetics() map[string]float64 {
	if !s.UseKinetics {
		return nil
	}
	return registry.Resolve(registry.Kinetics(), s.KineticOverrides)
}

func sessionPath(workspace string) string {
	return filepath.Join(workspace, ".digestsim", "session.yaml")
}

// Load reads the session for a workspace. A missing file yields a fresh
// default session; a corrupt file is an error, never a silent reset.
func Load(workspace string) (*Session, error) {
	data, err := os.ReadFile(sessionPath(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, nil
}

// Save writes the session to the workspace dot-dir.
func (s *Session) Save(workspace string) error {
	path := sessionPath(workspace)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	logging.SessionDebug("[Save] wrote %s", path)
	return nil
}
