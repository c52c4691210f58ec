// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/emer/emergent/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMonitor counts start / stop calls
type fakeMonitor struct {
	grp       int
	eng       *fakeEngine
	recording bool
}

func (fm *fakeMonitor) StartRecording() {
	fm.recording = true
	fm.eng.log("start %d", fm.grp)
}

func (fm *fakeMonitor) StopRecording() {
	fm.recording = false
	fm.eng.log("stop %d", fm.grp)
}

func (fm *fakeMonitor) NumSpikes() int { return fm.grp }

// fakeEngine records every call, failing the one named in fail
type fakeEngine struct {
	calls  []string
	fail   string
	ngrp   int
	gens   map[int]ConnGenerator
	closed int
	status int
}

func (fe *fakeEngine) log(format string, args ...any) {
	fe.calls = append(fe.calls, fmt.Sprintf(format, args...))
}

func (fe *fakeEngine) check(name string) error {
	if fe.fail == name {
		return errors.New("injected " + name)
	}
	return nil
}

func (fe *fakeEngine) CreateSpikeGeneratorGroup(name string, grid Grid3D, typ NeuronType) (int, error) {
	fe.log("CreateSpikeGeneratorGroup %s %d", name, grid.N())
	if err := fe.check("CreateSpikeGeneratorGroup"); err != nil {
		return -1, err
	}
	fe.ngrp++
	return fe.ngrp - 1, nil
}

func (fe *fakeEngine) CreateGroupNSAT(name string, grid Grid3D, typ NeuronType) (int, error) {
	fe.log("CreateGroupNSAT %s %d", name, grid.N())
	if err := fe.check("CreateGroupNSAT"); err != nil {
		return -1, err
	}
	fe.ngrp++
	return fe.ngrp - 1, nil
}

func (fe *fakeEngine) SetNeuronParametersNSAT(grpID int, np NSATParams) error {
	fe.log("SetNeuronParametersNSAT %d %g", grpID, np.Vth)
	return fe.check("SetNeuronParametersNSAT")
}

func (fe *fakeEngine) ConnectNSAT(src, dst int, gen ConnGenerator, bo BlankOut, syn SynType) (int, error) {
	fe.log("ConnectNSAT %d %d %g %v", src, dst, bo.Prob, syn)
	if err := fe.check("ConnectNSAT"); err != nil {
		return -1, err
	}
	if fe.gens == nil {
		fe.gens = make(map[int]ConnGenerator)
	}
	fe.gens[len(fe.gens)] = gen
	return len(fe.gens) - 1, nil
}

func (fe *fakeEngine) SetESTDP(grpID int, enabled bool, rule StdpType, curve StdpCurve) error {
	fe.log("SetESTDP %d %v %v %s", grpID, enabled, rule, curve.CurveName())
	return fe.check("SetESTDP")
}

func (fe *fakeEngine) SetISTDP(grpID int, enabled bool, rule StdpType, curve StdpCurve) error {
	fe.log("SetISTDP %d %v %v %s", grpID, enabled, rule, curve.CurveName())
	return fe.check("SetISTDP")
}

func (fe *fakeEngine) SetConductances(mode ConductanceMode) error {
	fe.log("SetConductances %v", mode)
	return fe.check("SetConductances")
}

func (fe *fakeEngine) SetIntegrationMethod(im IntegrationMethod, steps int) error {
	fe.log("SetIntegrationMethod %v %d", im, steps)
	return fe.check("SetIntegrationMethod")
}

func (fe *fakeEngine) SetSpikeRate(grpID int, rate *PoissonRate) error {
	fe.log("SetSpikeRate %d %g", grpID, rate.Rates[0])
	return fe.check("SetSpikeRate")
}

func (fe *fakeEngine) SetSpikeGenerator(grpID int, gen SpikeGenerator) error {
	fe.log("SetSpikeGenerator %d %T", grpID, gen)
	return fe.check("SetSpikeGenerator")
}

func (fe *fakeEngine) SetupNetwork(removeTmpMem bool) error {
	fe.log("SetupNetwork %v", removeTmpMem)
	return fe.check("SetupNetwork")
}

func (fe *fakeEngine) SetSpikeMonitor(grpID int, fname string) (SpikeMonitor, error) {
	fe.log("SetSpikeMonitor %d %s", grpID, fname)
	if err := fe.check("SetSpikeMonitor"); err != nil {
		return nil, err
	}
	return &fakeMonitor{grp: grpID, eng: fe}, nil
}

func (fe *fakeEngine) RunNetwork(sec, msec int, printSummary, copyState bool) (int, error) {
	fe.log("RunNetwork %d %d %v %v", sec, msec, printSummary, copyState)
	return fe.status, fe.check("RunNetwork")
}

func (fe *fakeEngine) Close() error {
	fe.closed++
	return nil
}

func (fe *fakeEngine) opener() Opener {
	return func(carl CarlParams) (Engine, error) { return fe, nil }
}

func newTestCore(t *testing.T) (*Core, *fakeEngine) {
	t.Helper()
	return newTestCoreWith(t, nil)
}

// newTestCoreWith applies edit to the fixture files and run parameters
// before creating the Core
func newTestCoreWith(t *testing.T, edit func(fn *FileNames, sp *SimParams)) (*Core, *fakeEngine) {
	t.Helper()
	carl, sim := testParams()
	files := testFiles(t)
	if edit != nil {
		edit(&files, &sim)
	}
	fe := &fakeEngine{}
	cr, err := New(files, carl, sim, fe.opener())
	require.NoError(t, err)
	return cr, fe
}

func TestNewCore(t *testing.T) {
	cr, fe := newTestCore(t)
	assert.Equal(t, Unconfigured, cr.Phase())
	assert.Equal(t, []Grid3D{{5, 1, 1}, {5, 1, 1}}, cr.InLayout)
	assert.Equal(t, []Grid3D{{3, 1, 1}, {2, 1, 1}}, cr.NetLayout)
	assert.Equal(t, MonitorSelection{Inputs: []int{0}, Network: []int{0}}, cr.Monitors)
	assert.Empty(t, fe.calls, "New must not call the engine")

	_, err := New(cr.Files(), cr.Carl(), cr.Sim(), nil)
	assert.Error(t, err)

	files := cr.Files()
	files.Spkg = writeFile(t, t.TempDir(), "empty.dat", "# none\n")
	files.Conns[0] = "elsewhere.dat"
	_, err = New(files, cr.Carl(), cr.Sim(), fe.opener())
	assert.ErrorIs(t, err, ErrNoGroups)
	assert.NotEqual(t, files.Spkg, cr.Files().Spkg)
	assert.NotEqual(t, "elsewhere.dat", cr.Files().Conns[0], "Files returns a copy")
}

func TestCoreConfig(t *testing.T) {
	cr, fe := newTestCore(t)
	require.NoError(t, cr.Config())
	assert.Equal(t, Configured, cr.Phase())
	assert.Equal(t, []string{
		"CreateSpikeGeneratorGroup in1 5",
		"CreateSpikeGeneratorGroup in2 5",
		"CreateGroupNSAT n1 3",
		"SetNeuronParametersNSAT 2 1",
		"CreateGroupNSAT n2 2",
		"SetNeuronParametersNSAT 3 1",
		"ConnectNSAT 0 2 1 SynPlastic",
		"SetESTDP 2 true Standard exp",
		"SetISTDP 3 false DAMod pulse",
		"SetConductances CUBA",
		"SetIntegrationMethod ForwardEuler 2",
	}, fe.calls)
	assert.Equal(t, 0, cr.Inputs.Units[0].ID)
	assert.Equal(t, 3, cr.Network.Units[1].ID)
	require.Len(t, cr.Connxs, 1)
	assert.False(t, cr.Connxs[0].Plastic())
	assert.Same(t, cr.Connxs[0], fe.gens[0])
	assert.Equal(t, "in1 -> n1", cr.Connxs[0].Name())
}

func TestCoreConfigValidationFirst(t *testing.T) {
	badConn := "in1 n1 true 1\n1 1 1 1\n"
	badStdp := "n1 E standard 3 true 1 2 3 4 5 6 7 8 9\n"
	tests := []struct {
		name string
		edit func(fn *FileNames, sp *SimParams)
		fix  func(fn FileNames)
		kind error
	}{
		{"conductance", func(fn *FileNames, sp *SimParams) { sp.Conductances = ConductanceMode(5) }, nil, ErrInvalidConductanceFlag},
		{"integration method", func(fn *FileNames, sp *SimParams) { sp.IntMethod = IntegrationMethod(7) }, nil, ErrInvalidIntegrationConfig},
		{"steps low", func(fn *FileNames, sp *SimParams) { sp.IntSteps = 0 }, nil, ErrInvalidIntegrationConfig},
		{"steps high", func(fn *FileNames, sp *SimParams) { sp.IntSteps = 101 }, nil, ErrInvalidIntegrationConfig},
		{"missing conn file", func(fn *FileNames, sp *SimParams) { sp.NConns = 2 }, nil, ErrMissingConnFile},
		{"bad conn",
			func(fn *FileNames, sp *SimParams) { require.NoError(t, os.WriteFile(fn.Conns[0], []byte(badConn), 0o644)) },
			func(fn FileNames) { require.NoError(t, os.WriteFile(fn.Conns[0], []byte(testConnOnes), 0o644)) },
			ErrMatrixShapeMismatch},
		{"bad stdp",
			func(fn *FileNames, sp *SimParams) { require.NoError(t, os.WriteFile(fn.STDP, []byte(badStdp), 0o644)) },
			func(fn FileNames) { require.NoError(t, os.WriteFile(fn.STDP, []byte(testStdp), 0o644)) },
			ErrInvalidCurveKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr, fe := newTestCoreWith(t, tt.edit)
			err := cr.Config()
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, Unconfigured, cr.Phase())
			assert.Empty(t, fe.calls, "no engine call before validation")

			// a failed validation can be retried
			assert.ErrorIs(t, cr.Config(), tt.kind)
			assert.Empty(t, fe.calls)
			if tt.fix == nil {
				return
			}
			tt.fix(cr.Files())
			require.NoError(t, cr.Config())
			assert.Equal(t, Configured, cr.Phase())
		})
	}
}

func TestCoreConnError(t *testing.T) {
	cr, _ := newTestCoreWith(t, func(fn *FileNames, sp *SimParams) {
		fn.Conns[0] = writeFile(t, t.TempDir(), "c.dat", "in1 zz true 1\n")
	})
	err := cr.Config()
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, ce.Index)
	assert.Equal(t, cr.Files().Conns[0], ce.Path)
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestCoreEngineFailurePoisons(t *testing.T) {
	cr, fe := newTestCore(t)
	fe.fail = "ConnectNSAT"
	err := cr.Config()
	assert.ErrorIs(t, err, ErrEngineFailed)
	assert.ErrorIs(t, err, ErrState)
	assert.Equal(t, Unconfigured, cr.Phase())
	assert.Error(t, cr.EngineErr())

	fe.fail = ""
	assert.ErrorIs(t, cr.Config(), ErrEngineFailed)
	assert.ErrorIs(t, cr.Setup(), ErrEngineFailed)
	assert.NoError(t, cr.Cleanup())
}

func TestCorePhaseOrder(t *testing.T) {
	cr, fe := newTestCore(t)
	assert.ErrorIs(t, cr.Setup(), ErrPhaseOrder)
	_, err := cr.Run()
	assert.ErrorIs(t, err, ErrPhaseOrder)
	assert.Empty(t, fe.calls)

	require.NoError(t, cr.Config())
	assert.ErrorIs(t, cr.Config(), ErrPhaseOrder)
	_, err = cr.Run()
	assert.ErrorIs(t, err, ErrPhaseOrder)

	require.NoError(t, cr.Setup())
	assert.ErrorIs(t, cr.Setup(), ErrPhaseOrder)
	_, err = cr.Run()
	require.NoError(t, err)
	_, err = cr.Run()
	assert.ErrorIs(t, err, ErrPhaseOrder)

	require.NoError(t, cr.Cleanup())
	assert.ErrorIs(t, cr.Cleanup(), ErrPhaseOrder)
	assert.ErrorIs(t, cr.Config(), ErrPhaseOrder)
}

func TestCoreSetupOrder(t *testing.T) {
	tests := []struct {
		modality string
		first    string
		second   string
	}{
		{"Poisson", "SetupNetwork true", "SetSpikeRate 0 10"},
		{"periodical", "SetSpikeGenerator 0 *nsat.PeriodicGen", "SetupNetwork true"},
		{"VECTORIAL", "SetSpikeGenerator 0 *nsat.VectorGen", "SetupNetwork true"},
	}
	for _, tt := range tests {
		t.Run(tt.modality, func(t *testing.T) {
			cr, fe := newTestCoreWith(t, func(fn *FileNames, sp *SimParams) { sp.InputType = tt.modality })
			require.NoError(t, cr.InitCustomInput([][]int{{1, 2}, {3}}))
			require.NoError(t, cr.Config())
			fe.calls = nil
			require.NoError(t, cr.Setup())
			assert.Equal(t, tt.first, fe.calls[0])
			assert.Contains(t, fe.calls, tt.second)
			assert.Len(t, fe.calls, 3)
			assert.Equal(t, SetUp, cr.Phase())
			assert.Equal(t, 2, cr.Input.Len())
		})
	}
}

func TestCoreSetupErrors(t *testing.T) {
	tests := []struct {
		modality string
		kind     error
	}{
		{"random", ErrInvalidInputModality},
		{"vectorial", ErrMissingSpikeTrains},
		{"fromfile", ErrMissingSpikeFiles},
	}
	for _, tt := range tests {
		t.Run(tt.modality, func(t *testing.T) {
			cr, fe := newTestCoreWith(t, func(fn *FileNames, sp *SimParams) { sp.InputType = tt.modality })
			require.NoError(t, cr.Config())
			fe.calls = nil
			assert.ErrorIs(t, cr.Setup(), tt.kind)
			assert.Empty(t, fe.calls)
			assert.Equal(t, Configured, cr.Phase())
		})
	}

	// custom trains given late still allow Setup
	cr, _ := newTestCoreWith(t, func(fn *FileNames, sp *SimParams) { sp.InputType = "vectorial" })
	require.NoError(t, cr.Config())
	assert.ErrorIs(t, cr.Setup(), ErrMissingSpikeTrains)
	require.NoError(t, cr.InitCustomInput([][]int{{1}, {2}}))
	require.NoError(t, cr.Setup())
	assert.Equal(t, SetUp, cr.Phase())
}

func TestCoreRunMonitors(t *testing.T) {
	cr, fe := newTestCore(t)
	cr.Network.Units[1].Monitor = true
	cr.Monitors = NewMonitorSelection(cr.Inputs, cr.Network)
	require.NoError(t, cr.Config())
	require.NoError(t, cr.Setup())
	fe.calls = nil
	fe.status = 3
	status, err := cr.Run()
	require.NoError(t, err)
	assert.Equal(t, 3, status)
	assert.Equal(t, []string{
		"SetSpikeMonitor 0 DEFAULT", "start 0",
		"SetSpikeMonitor 2 DEFAULT", "start 2",
		"SetSpikeMonitor 3 DEFAULT", "start 3",
		"RunNetwork 1 0 true false",
		"stop 0", "stop 2", "stop 3",
	}, fe.calls)
	assert.Equal(t, []MonitorCount{{"in1", true, 0}, {"n1", false, 2}, {"n2", false, 3}}, cr.Counts)
	assert.Equal(t, Ran, cr.Phase())
}

func TestCoreRunFailure(t *testing.T) {
	cr, fe := newTestCore(t)
	require.NoError(t, cr.Config())
	require.NoError(t, cr.Setup())
	fe.fail = "RunNetwork"
	fe.status = -2
	status, err := cr.Run()
	assert.Equal(t, -2, status)
	assert.EqualError(t, err, "injected RunNetwork")
	assert.Contains(t, fe.calls, "stop 0")
	assert.NoError(t, cr.Cleanup())
}

func TestCoreCleanup(t *testing.T) {
	cr, fe := newTestCore(t)
	require.NoError(t, cr.Config())
	require.NoError(t, cr.Setup())
	drv := cr.Input.(*PoissonDriver)
	require.NoError(t, cr.Cleanup())
	assert.Equal(t, CleanedUp, cr.Phase())
	assert.Nil(t, cr.Input)
	assert.Nil(t, cr.Connxs)
	assert.Nil(t, cr.InLayout)
	assert.Zero(t, drv.Len())

	require.NoError(t, cr.Close())
	require.NoError(t, cr.Close())
	assert.Equal(t, 1, fe.closed)
}

func TestInitCustomInputFlat(t *testing.T) {
	cr, _ := newTestCore(t)
	require.NoError(t, cr.InitCustomInputFlat([]int{1, 2, 3, 4, 5, 6}, 2, 3))
	assert.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}}, cr.Trains)
	assert.ErrorIs(t, cr.InitCustomInputFlat([]int{1, 2}, 2, 3), ErrMissingSpikeTrains)

	require.NoError(t, cr.Config())
	require.NoError(t, cr.Setup())
	assert.ErrorIs(t, cr.InitCustomInput([][]int{{1}}), ErrPhaseOrder)
}

func TestCoreApplyParams(t *testing.T) {
	cr, fe := newTestCore(t)
	sets := params.Sets{
		{Name: "Base", Desc: "test overrides", Sheets: params.Sheets{
			"Network": &params.Sheet{
				{Sel: "NetworkUnit", Desc: "all thresholds",
					Params: params.Params{
						"NetworkUnit.NSAT.Vth": "0.5",
					}},
				{Sel: "#in2", Desc: "one input",
					Params: params.Params{
						"InputUnit.Spkg.Rate": "40",
					}},
				{Sel: ".inhibitory_neuron", Desc: "by neuron type",
					Params: params.Params{
						"NetworkUnit.NSAT.TauRef": "4",
					}},
			},
		}},
	}
	require.NoError(t, cr.SetParamsSet(sets, "Base", false))
	assert.Equal(t, float32(0.5), cr.Network.Units[0].NSAT.Vth)
	assert.Equal(t, float32(0.5), cr.Network.Units[1].NSAT.Vth)
	assert.Equal(t, 2, cr.Network.Units[0].NSAT.TauRef)
	assert.Equal(t, 4, cr.Network.Units[1].NSAT.TauRef)
	assert.Equal(t, float32(10), cr.Inputs.Units[0].Spkg.Rate)
	assert.Equal(t, float32(40), cr.Inputs.Units[1].Spkg.Rate)

	require.NoError(t, cr.Config())
	assert.Contains(t, fe.calls, "SetNeuronParametersNSAT 2 0.5")
	_, err := cr.ApplyParams(sets[0].Sheets["Network"], false)
	assert.ErrorIs(t, err, ErrPhaseOrder)
}

func TestSizeReport(t *testing.T) {
	cr, _ := newTestCore(t)
	require.NoError(t, cr.Config())
	rep := cr.SizeReport()
	assert.Contains(t, rep, "in1 -> n1")
	assert.Contains(t, rep, "Syns: 15")
	assert.Contains(t, cr.UnitsReport(), "n2")
}
