package worker

import (
	"fmt"
	"path"
	"strconv"

	"github.com/viant/gpuslot/model/slot"
)

// Config represents worker invocation configuration
type Config struct {
	Executable  string            `json:"executable,omitempty" yaml:"executable,omitempty"`   //worker executable
	Args        []string          `json:"args,omitempty" yaml:"args,omitempty"`               //leading arguments, i.e. worker script
	DataDir     string            `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`         //model parameters and databases location
	DBPreset    string            `json:"dbPreset,omitempty" yaml:"dbPreset,omitempty"`       //database preset
	Workdir     string            `json:"workdir,omitempty" yaml:"workdir,omitempty"`         //directory where worker starts
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`                 //additional environment variables
	MergeStderr bool              `json:"mergeStderr,omitempty" yaml:"mergeStderr,omitempty"` //whether stderr is collected with stdout
}

// DefaultConfig returns default worker configuration
func DefaultConfig() Config {
	return Config{
		Executable: "python3",
		Args:       []string{"docker/run_docker.py"},
		DBPreset:   "reduced_dbs",
	}
}

// Init fills empty settings with defaults
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.Executable == "" {
		c.Executable = defaults.Executable
		if len(c.Args) == 0 {
			c.Args = defaults.Args
		}
	}
	if c.DBPreset == "" {
		c.DBPreset = defaults.DBPreset
	}
}

// Validate checks worker configuration
func (c *Config) Validate() error {
	if c.Executable == "" {
		return fmt.Errorf("worker.executable was empty")
	}
	return nil
}

// OutputDir returns per slot output directory
func OutputDir(outputRoot string, slotID int) string {
	return path.Join(outputRoot, strconv.Itoa(slotID))
}

// NewCommand builds worker invocation for the request bound to the slot
func (c *Config) NewCommand(slotID int, outputDir string, request *slot.TaskRequest) *Command {
	args := make([]string, 0, len(c.Args)+10)
	args = append(args, c.Args...)
	args = append(args,
		"--fasta_paths="+request.InputPath,
		"--max_template_date="+request.MaxTemplateDate,
		"--model_preset="+string(request.Preset),
		"--db_preset="+c.DBPreset,
	)
	if c.DataDir != "" {
		args = append(args, "--data_dir="+c.DataDir)
	}
	args = append(args,
		"--output_dir="+outputDir,
		"--use_gpu",
		"--enable_gpu_relax",
		"--models_to_relax="+string(request.RelaxMode),
		"--gpu_devices="+strconv.Itoa(slotID),
	)
	return &Command{
		Executable:  c.Executable,
		Args:        args,
		Workdir:     c.Workdir,
		Env:         c.Env,
		MergeStderr: c.MergeStderr,
	}
}
