// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package simcfg loads a YAML run file into the three nsat configuration
aggregates: nsat.CarlParams, nsat.SimParams and nsat.FileNames.

Loading order is defaults, then the run file, then environment overrides
(NSAT_SIM_MODE, NSAT_INPUT_TYPE, NSAT_RANDOM_SEED, NSAT_GPU_INDEX).
Relative file paths are resolved against the directory of the run file.
*/
package simcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emer/nsat/nsat"
	"gopkg.in/yaml.v3"
)

// RunFile is the YAML form of a run configuration
type RunFile struct {
	Carl  CarlConfig  `yaml:"carlsim"`
	Sim   SimConfig   `yaml:"simulation"`
	Files FilesConfig `yaml:"files"`
}

// CarlConfig is the carlsim section
type CarlConfig struct {
	Name       string `yaml:"name"`
	Mode       string `yaml:"mode"`
	Logger     string `yaml:"logger"`
	GPUIndex   int    `yaml:"gpu_index"`
	RandomSeed int    `yaml:"random_seed"`
}

// SimConfig is the simulation section
type SimConfig struct {
	Integration  string   `yaml:"integration"`
	IntSteps     int      `yaml:"integration_steps"`
	MaxWt        float32  `yaml:"max_weight"`
	TimeSec      int      `yaml:"time_sec"`
	TimeMsec     int      `yaml:"time_msec"`
	NConns       *int     `yaml:"num_connections"`
	InputType    string   `yaml:"input_type"`
	PrintSummary bool     `yaml:"print_summary"`
	CopyState    bool     `yaml:"copy_state"`
	RemoveTmpMem bool     `yaml:"remove_tmp_mem"`
	Coba         CobaFlag `yaml:"coba"`
}

// FilesConfig is the files section
type FilesConfig struct {
	Spkg        string   `yaml:"spkg"`
	NSAT        string   `yaml:"nsat"`
	STDP        string   `yaml:"stdp"`
	Connections []string `yaml:"connections"`
	Delays      []string `yaml:"delays"`
	InputSpikes []string `yaml:"input_spikes"`
}

// CobaFlag is the coba setting, which may be written as a YAML boolean or
// as the string "true" or "false".
type CobaFlag bool

func (cf *CobaFlag) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: coba at line %d is not a scalar", nsat.ErrInvalidConductanceFlag, value.Line)
	}
	switch {
	case value.Tag == "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("%w: %v", nsat.ErrInvalidConductanceFlag, err)
		}
		*cf = CobaFlag(b)
	case strings.EqualFold(value.Value, "true"):
		*cf = true
	case strings.EqualFold(value.Value, "false"):
		*cf = false
	default:
		return fmt.Errorf("%w: coba %q at line %d", nsat.ErrInvalidConductanceFlag, value.Value, value.Line)
	}
	return nil
}

// Config is a loaded run configuration
type Config struct {
	Carl  nsat.CarlParams
	Sim   nsat.SimParams
	Files nsat.FileNames
}

// Default returns the run file holding the nsat defaults
func Default() *RunFile {
	var carl nsat.CarlParams
	carl.Defaults()
	var sim nsat.SimParams
	sim.Defaults()
	return &RunFile{
		Carl: CarlConfig{
			Name:       carl.Name,
			Mode:       "cpu",
			Logger:     "user",
			GPUIndex:   carl.GPUIndex,
			RandomSeed: carl.RandomSeed,
		},
		Sim: SimConfig{
			Integration:  "forward_euler",
			IntSteps:     sim.IntSteps,
			MaxWt:        sim.MaxWt,
			TimeSec:      sim.TimeSec,
			TimeMsec:     sim.TimeMsec,
			InputType:    sim.InputType,
			PrintSummary: sim.PrintSummary,
			CopyState:    sim.CopyState,
			RemoveTmpMem: sim.RemoveTmpMem,
			Coba:         sim.Conductances == nsat.COBA,
		},
	}
}

// Load reads the run file at path, applies the environment overrides and
// returns the resulting configuration.
func Load(path string) (*Config, error) {
	rf, err := LoadRunFile(path)
	if err != nil {
		return nil, err
	}
	if err := rf.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	rf.Files.Resolve(filepath.Dir(path))
	return rf.Config()
}

// LoadRunFile reads the run file at path over the defaults, without
// environment overrides or path resolution.
func LoadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &nsat.IOError{Op: "read", Path: path, Err: err}
	}
	rf := Default()
	if err := yaml.Unmarshal(data, rf); err != nil {
		return nil, fmt.Errorf("simcfg: parsing %s: %w", path, err)
	}
	return rf, nil
}

// ApplyEnv applies the NSAT_* overrides found through getenv
func (rf *RunFile) ApplyEnv(getenv func(string) string) error {
	if v := getenv("NSAT_SIM_MODE"); v != "" {
		rf.Carl.Mode = v
	}
	if v := getenv("NSAT_INPUT_TYPE"); v != "" {
		rf.Sim.InputType = v
	}
	if v := getenv("NSAT_RANDOM_SEED"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("simcfg: NSAT_RANDOM_SEED: %w", err)
		}
		rf.Carl.RandomSeed = n
	}
	if v := getenv("NSAT_GPU_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("simcfg: NSAT_GPU_INDEX: %w", err)
		}
		rf.Carl.GPUIndex = n
	}
	return nil
}

// Resolve makes every relative path absolute with respect to dir
func (fc *FilesConfig) Resolve(dir string) {
	res := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	fc.Spkg = res(fc.Spkg)
	fc.NSAT = res(fc.NSAT)
	fc.STDP = res(fc.STDP)
	for _, ps := range [][]string{fc.Connections, fc.Delays, fc.InputSpikes} {
		for i := range ps {
			ps[i] = res(ps[i])
		}
	}
}

// Config converts the run file into the nsat aggregates, validating the
// enumerated settings.
func (rf *RunFile) Config() (*Config, error) {
	cfg := &Config{}
	cfg.Carl.Defaults()
	cfg.Sim.Defaults()

	cp := &cfg.Carl
	cp.Name = rf.Carl.Name
	mode, ok := nsat.ParseSimMode(rf.Carl.Mode)
	if !ok {
		return nil, fmt.Errorf("simcfg: invalid mode %q", rf.Carl.Mode)
	}
	cp.Mode = mode
	lm, ok := nsat.ParseLoggerMode(rf.Carl.Logger)
	if !ok {
		return nil, fmt.Errorf("simcfg: invalid logger %q", rf.Carl.Logger)
	}
	cp.Logger = lm
	cp.GPUIndex = rf.Carl.GPUIndex
	cp.RandomSeed = rf.Carl.RandomSeed

	sp := &cfg.Sim
	im, ok := nsat.ParseIntegrationMethod(rf.Sim.Integration)
	if !ok {
		return nil, fmt.Errorf("%w: %q", nsat.ErrInvalidIntegrationConfig, rf.Sim.Integration)
	}
	sp.IntMethod = im
	sp.IntSteps = rf.Sim.IntSteps
	sp.MaxWt = rf.Sim.MaxWt
	sp.TimeSec = rf.Sim.TimeSec
	sp.TimeMsec = rf.Sim.TimeMsec
	sp.NConns = len(rf.Files.Connections)
	if rf.Sim.NConns != nil {
		sp.NConns = *rf.Sim.NConns
	}
	sp.InputType = rf.Sim.InputType
	sp.PrintSummary = rf.Sim.PrintSummary
	sp.CopyState = rf.Sim.CopyState
	sp.RemoveTmpMem = rf.Sim.RemoveTmpMem
	sp.Conductances = nsat.ConductanceFromBool(bool(rf.Sim.Coba))
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	fc := &rf.Files
	cfg.Files = nsat.FileNames{
		Spkg:        fc.Spkg,
		NSAT:        fc.NSAT,
		STDP:        fc.STDP,
		Conns:       fc.Connections,
		Delays:      fc.Delays,
		InputSpikes: fc.InputSpikes,
	}
	cfg.Files = cfg.Files.Clone()
	return cfg, nil
}
