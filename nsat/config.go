// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"
	"slices"
)

// Integration sub-step limits, per ms
const (
	MinIntSteps = 1
	MaxIntSteps = 100
)

// CarlParams identify and configure the engine
type CarlParams struct {
	Name       string     `desc:"simulation name"`
	Mode       SimMode    `desc:"execution mode"`
	Logger     LoggerMode `desc:"engine logger mode -- Silent also silences Core informational logging"`
	GPUIndex   int        `desc:"device index in GPU and hybrid modes"`
	RandomSeed int        `desc:"seed of the engine random number generator"`
}

func (cp *CarlParams) Defaults() {
	cp.Name = "nsat"
	cp.Mode = CPUMode
	cp.Logger = User
	cp.GPUIndex = 0
	cp.RandomSeed = 42
}

// SimParams are the run parameters
type SimParams struct {
	IntMethod    IntegrationMethod `desc:"numerical integration method"`
	IntSteps     int               `min:"1" max:"100" desc:"integration sub-steps per ms, in [1, 100]"`
	MaxWt        float32           `desc:"fixed max weight of non-plastic synapses"`
	TimeSec      int               `desc:"run duration, whole seconds"`
	TimeMsec     int               `desc:"run duration, additional ms"`
	NConns       int               `desc:"number of connection files to read"`
	InputType    string            `desc:"input modality: poisson, periodical, vectorial or fromfile (case-insensitive)"`
	PrintSummary bool              `desc:"engine prints a run summary"`
	CopyState    bool              `desc:"copy device state back to host after the run"`
	RemoveTmpMem bool              `desc:"free temporary build memory after SetupNetwork"`
	Conductances ConductanceMode   `desc:"COBA or CUBA synapses"`
}

func (sp *SimParams) Defaults() {
	sp.IntMethod = ForwardEuler
	sp.IntSteps = 2
	sp.MaxWt = 10
	sp.TimeSec = 1
	sp.TimeMsec = 0
	sp.InputType = "poisson"
	sp.PrintSummary = true
	sp.CopyState = false
	sp.RemoveTmpMem = true
	sp.Conductances = CUBA
}

// DurationMsec returns the total run time in ms
func (sp *SimParams) DurationMsec() int {
	return sp.TimeSec*1000 + sp.TimeMsec
}

// CheckIntegration validates the integration method and step count
func (sp *SimParams) CheckIntegration() error {
	if sp.IntMethod < 0 || sp.IntMethod >= IntegrationMethodN {
		return fmt.Errorf("%w: method %v", ErrInvalidIntegrationConfig, sp.IntMethod)
	}
	if sp.IntSteps < MinIntSteps || sp.IntSteps > MaxIntSteps {
		return fmt.Errorf("%w: %d steps, want [%d, %d]", ErrInvalidIntegrationConfig, sp.IntSteps, MinIntSteps, MaxIntSteps)
	}
	return nil
}

// CheckConductances validates the conductance mode
func (sp *SimParams) CheckConductances() error {
	if sp.Conductances != CUBA && sp.Conductances != COBA {
		return fmt.Errorf("%w: %d", ErrInvalidConductanceFlag, int(sp.Conductances))
	}
	return nil
}

// Modality parses InputType
func (sp *SimParams) Modality() (InputModality, error) {
	md, ok := ParseInputModality(sp.InputType)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInputModality, sp.InputType)
	}
	return md, nil
}

// Validate runs every check on the run parameters
func (sp *SimParams) Validate() error {
	if err := sp.CheckIntegration(); err != nil {
		return err
	}
	if err := sp.CheckConductances(); err != nil {
		return err
	}
	_, err := sp.Modality()
	return err
}

// FileNames are the parameter file paths. Conns, Delays and InputSpikes are
// indexed by connection and input unit respectively; Delays and
// InputSpikes may be shorter (or empty) when not used.
type FileNames struct {
	Spkg        string   `desc:"input unit parameter file"`
	NSAT        string   `desc:"network unit parameter file"`
	STDP        string   `desc:"plasticity file, empty for none"`
	Conns       []string `desc:"connection definition files"`
	Delays      []string `desc:"per-connection delay files, optional"`
	InputSpikes []string `desc:"per-input-unit spike files for the fromfile modality"`
}

// Clone returns a deep copy
func (fn *FileNames) Clone() FileNames {
	cp := *fn
	cp.Conns = slices.Clone(fn.Conns)
	cp.Delays = slices.Clone(fn.Delays)
	cp.InputSpikes = slices.Clone(fn.InputSpikes)
	return cp
}

// DelayFile returns the delay file of connection k, "" if there is none
func (fn *FileNames) DelayFile(k int) string {
	if k < len(fn.Delays) {
		return fn.Delays[k]
	}
	return ""
}
