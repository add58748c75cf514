package slot

import (
	"fmt"
	"time"
)

// Preset represents worker model preset
type Preset string

const (
	PresetMonomer       Preset = "monomer"
	PresetMonomerCasp14 Preset = "monomer_casp14"
	PresetMonomerPTM    Preset = "monomer_ptm"
	PresetMultimer      Preset = "multimer"
)

// Presets lists supported presets
var Presets = []Preset{PresetMonomer, PresetMonomerCasp14, PresetMonomerPTM, PresetMultimer}

// RelaxMode represents which predicted models worker relaxes
type RelaxMode string

const (
	RelaxAll  RelaxMode = "all"
	RelaxBest RelaxMode = "best"
	RelaxNone RelaxMode = "none"
)

// RelaxModes lists supported relax modes
var RelaxModes = []RelaxMode{RelaxAll, RelaxBest, RelaxNone}

// DateLayout is the max template date layout
const DateLayout = "2006-01-02"

// TaskRequest represents a single worker submission
type TaskRequest struct {
	InputPath       string    `json:"inputPath" yaml:"inputPath"`
	Preset          Preset    `json:"preset,omitempty" yaml:"preset,omitempty"`
	RelaxMode       RelaxMode `json:"relaxMode,omitempty" yaml:"relaxMode,omitempty"`
	MaxTemplateDate string    `json:"maxTemplateDate,omitempty" yaml:"maxTemplateDate,omitempty"`
}

// Defaults represents request defaults
type Defaults struct {
	Preset          Preset    `json:"preset,omitempty" yaml:"preset,omitempty"`
	RelaxMode       RelaxMode `json:"relaxMode,omitempty" yaml:"relaxMode,omitempty"`
	MaxTemplateDate string    `json:"maxTemplateDate,omitempty" yaml:"maxTemplateDate,omitempty"`
}

// DefaultDefaults returns defaults used by the submission form
func DefaultDefaults() Defaults {
	return Defaults{
		Preset:          PresetMultimer,
		RelaxMode:       RelaxNone,
		MaxTemplateDate: "2020-05-14",
	}
}

// Init fills empty request fields with defaults
func (r *TaskRequest) Init(defaults Defaults) {
	if r.Preset == "" {
		r.Preset = defaults.Preset
	}
	if r.RelaxMode == "" {
		r.RelaxMode = defaults.RelaxMode
	}
	if r.MaxTemplateDate == "" {
		r.MaxTemplateDate = defaults.MaxTemplateDate
	}
}

// Validate checks if request can be passed to a worker
func (r *TaskRequest) Validate() error {
	if r == nil {
		return fmt.Errorf("request was nil")
	}
	if r.InputPath == "" {
		return fmt.Errorf("input path was empty")
	}
	if !r.Preset.IsValid() {
		return fmt.Errorf("unsupported preset: %q", r.Preset)
	}
	if !r.RelaxMode.IsValid() {
		return fmt.Errorf("unsupported relax mode: %q", r.RelaxMode)
	}
	if _, err := time.Parse(DateLayout, r.MaxTemplateDate); err != nil {
		return fmt.Errorf("invalid max template date %q, expected YYYY-MM-DD", r.MaxTemplateDate)
	}
	return nil
}

// IsValid returns true for a supported preset
func (p Preset) IsValid() bool {
	for _, candidate := range Presets {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsValid returns true for a supported relax mode
func (m RelaxMode) IsValid() bool {
	for _, candidate := range RelaxModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Acknowledgement represents accepted submission
type Acknowledgement struct {
	SlotID    int    `json:"slotID"`
	TaskID    string `json:"taskID"`
	OutputDir string `json:"outputDir"`
}

// Message returns human readable acknowledgement
func (a *Acknowledgement) Message() string {
	return fmt.Sprintf("started task on GPU %d, output directory: %s", a.SlotID, a.OutputDir)
}
