// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/emer/emergent/timer"
)

// MonitorCount is the number of spikes one monitor recorded during Run
type MonitorCount struct {
	Unit    string
	IsInput bool
	NSpikes int
}

// Core drives one network through its lifecycle against an Engine:
// New loads the unit tables, then Config, Setup, Run and Cleanup must be
// called in that order. Every input file is read and validated before the
// first engine call of a phase, so a failed validation leaves the Core (and
// the engine) where it was. An engine error poisons the Core: later phases
// fail with ErrEngineFailed and only Cleanup and Close are allowed.
// The file names and parameters given to New are fixed for the life of the
// Core. A Core is not safe for concurrent use.
type Core struct {
	Nm        string                 `desc:"simulation name, from CarlParams"`
	Inputs    *InputTable            `desc:"input units"`
	Network   *NetworkTable          `desc:"network units"`
	InLayout  []Grid3D               `desc:"engine layout of each input unit"`
	NetLayout []Grid3D               `desc:"engine layout of each network unit"`
	Monitors  MonitorSelection       `desc:"monitored units"`
	Conns     []*ConnSpec            `desc:"connection definitions, after Config"`
	Connxs    []*Connx               `desc:"connectivity generators handed to the engine, after Config"`
	ConnIDs   []int                  `desc:"engine connection ids, after Config"`
	Stdps     []StdpSpec             `desc:"plasticity requests, after Config"`
	Input     InputDriver            `desc:"active input driver, after Setup"`
	Trains    [][]int                `desc:"custom spike trains for the vectorial modality"`
	Counts    []MonitorCount         `desc:"spike counts of the last Run"`
	FunTimes  map[string]*timer.Time `view:"-" desc:"timers for each phase"`

	files  FileNames
	carl   CarlParams
	sim    SimParams
	eng    Engine
	phase  Phase
	engErr error
	closed bool
}

// New loads the input and network unit files, lays out one single-row grid
// per unit, opens the engine and computes the monitor selection.
// Both unit files must define at least one unit.
func New(files FileNames, carl CarlParams, sim SimParams, open Opener) (*Core, error) {
	if open == nil {
		return nil, errors.New("nsat.New: nil Opener")
	}
	cr := &Core{Nm: carl.Name, files: files.Clone(), carl: carl, sim: sim}
	cr.FunTimes = make(map[string]*timer.Time)

	ins, _, err := LoadInputUnits(cr.files.Spkg)
	if err != nil {
		cr.logErr("load input units", err)
		return nil, err
	}
	if ins.Len() == 0 {
		return nil, lineErr(cr.files.Spkg, 0, fmt.Errorf("%w: no input units", ErrNoGroups))
	}
	nets, _, err := LoadNetworkUnits(cr.files.NSAT)
	if err != nil {
		cr.logErr("load network units", err)
		return nil, err
	}
	if nets.Len() == 0 {
		return nil, lineErr(cr.files.NSAT, 0, fmt.Errorf("%w: no network units", ErrNoGroups))
	}
	cr.Inputs = ins
	cr.Network = nets
	cr.InLayout = make([]Grid3D, ins.Len())
	for i := range ins.Units {
		cr.InLayout[i] = Grid3D{ins.Units[i].N, 1, 1}
	}
	cr.NetLayout = make([]Grid3D, nets.Len())
	for i := range nets.Units {
		cr.NetLayout[i] = Grid3D{nets.Units[i].N, 1, 1}
	}

	cr.eng, err = open(carl)
	if err != nil {
		cr.logErr("open engine", err)
		return nil, fmt.Errorf("nsat.New: open engine: %w", err)
	}
	cr.Monitors = NewMonitorSelection(ins, nets)
	cr.logf("nsat %v: %d input units, %d network units, %d monitors\n", cr.Nm, ins.Len(), nets.Len(), cr.Monitors.Len())
	return cr, nil
}

// Phase returns the current lifecycle phase
func (cr *Core) Phase() Phase { return cr.phase }

// Files returns a copy of the parameter file paths
func (cr *Core) Files() FileNames { return cr.files.Clone() }

// Carl returns the engine parameters
func (cr *Core) Carl() CarlParams { return cr.carl }

// Sim returns the run parameters
func (cr *Core) Sim() SimParams { return cr.sim }

// Engine returns the engine driven by this Core
func (cr *Core) Engine() Engine { return cr.eng }

// EngineErr returns the engine error that poisoned the Core, if any
func (cr *Core) EngineErr() error { return cr.engErr }

// Config creates all groups (input units then network units, in table
// order), connects them from the connection files, assigns plasticity and
// selects conductances and integration method.
func (cr *Core) Config() error {
	if err := cr.require(Unconfigured, "Config"); err != nil {
		return err
	}
	cr.timerStart("Config")
	defer cr.timerStop("Config")

	conns, cxs, err := cr.readConns()
	if err != nil {
		cr.logErr("Config", err)
		return err
	}
	stdps, err := ReadStdpSpecs(cr.files.STDP, cr.Network)
	if err != nil {
		cr.logErr("Config", err)
		return err
	}
	if err := cr.sim.CheckConductances(); err != nil {
		cr.logErr("Config", err)
		return err
	}
	if err := cr.sim.CheckIntegration(); err != nil {
		cr.logErr("Config", err)
		return err
	}

	// engine mutation starts here: any failure poisons
	if err := cr.createGroups(); err != nil {
		return err
	}
	ids := make([]int, len(conns))
	for k, cs := range conns {
		src := cr.Network.Units[cs.SrcIdx].ID
		if cs.SrcIsInput {
			src = cr.Inputs.Units[cs.SrcIdx].ID
		}
		dst := cr.Network.Units[cs.DstIdx].ID
		ids[k], err = cr.eng.ConnectNSAT(src, dst, cxs[k], cs.Blank, SynPlastic)
		if err != nil {
			return cr.fail("ConnectNSAT "+cs.Name(), err)
		}
		wr := cxs[k].WtRange()
		cr.logf("nsat %v: connection %d %v: %d synapses, wts [%g, %g]\n", cr.Nm, k, cs.Name(), cxs[k].NConnected(), wr.Min, wr.Max)
	}
	for _, sp := range stdps {
		gid := cr.Network.Units[sp.GroupIdx].ID
		if sp.Polarity == Excitatory {
			err = cr.eng.SetESTDP(gid, sp.Enabled, sp.Rule, sp.Curve)
		} else {
			err = cr.eng.SetISTDP(gid, sp.Enabled, sp.Rule, sp.Curve)
		}
		if err != nil {
			return cr.fail("STDP "+sp.Group, err)
		}
	}
	if err := cr.eng.SetConductances(cr.sim.Conductances); err != nil {
		return cr.fail("SetConductances", err)
	}
	if err := cr.eng.SetIntegrationMethod(cr.sim.IntMethod, cr.sim.IntSteps); err != nil {
		return cr.fail("SetIntegrationMethod", err)
	}
	cr.Conns = conns
	cr.Connxs = cxs
	cr.ConnIDs = ids
	cr.Stdps = stdps
	cr.advance(Configured)
	return nil
}

// readConns reads all NConns connection files and builds their generators
func (cr *Core) readConns() ([]*ConnSpec, []*Connx, error) {
	ncon := cr.sim.NConns
	if ncon > len(cr.files.Conns) {
		return nil, nil, fmt.Errorf("%w: %d connections declared, %d files given", ErrMissingConnFile, ncon, len(cr.files.Conns))
	}
	conns := make([]*ConnSpec, ncon)
	cxs := make([]*Connx, ncon)
	for k := 0; k < ncon; k++ {
		path := cr.files.Conns[k]
		cs, err := ReadConnSpec(path, cr.Inputs, cr.Network, cr.files.DelayFile(k))
		if err != nil {
			return nil, nil, &ConnError{Index: k, Path: path, Err: err}
		}
		cx, err := NewConnx(cs.Wts, cs.Dlys, cs.Wts.Dim(0), cs.Wts.Dim(1), false, cr.sim.MaxWt)
		if err != nil {
			return nil, nil, &ConnError{Index: k, Path: path, Err: err}
		}
		cx.Nm = cs.Name()
		conns[k] = cs
		cxs[k] = cx
	}
	return conns, cxs, nil
}

func (cr *Core) createGroups() error {
	for i := range cr.Inputs.Units {
		iu := &cr.Inputs.Units[i]
		id, err := cr.eng.CreateSpikeGeneratorGroup(iu.Nm, cr.InLayout[i], iu.Type)
		if err != nil {
			return cr.fail("CreateSpikeGeneratorGroup "+iu.Nm, err)
		}
		iu.ID = id
	}
	for i := range cr.Network.Units {
		nu := &cr.Network.Units[i]
		id, err := cr.eng.CreateGroupNSAT(nu.Nm, cr.NetLayout[i], nu.Type)
		if err != nil {
			return cr.fail("CreateGroupNSAT "+nu.Nm, err)
		}
		nu.ID = id
		if err := cr.eng.SetNeuronParametersNSAT(id, nu.NSAT); err != nil {
			return cr.fail("SetNeuronParametersNSAT "+nu.Nm, err)
		}
	}
	return nil
}

// Setup builds the input driver for the configured modality, attaches it
// and sets up the engine network: Poisson rates are attached after the
// network is set up, all other generators before.
func (cr *Core) Setup() error {
	if err := cr.require(Configured, "Setup"); err != nil {
		return err
	}
	cr.timerStart("Setup")
	defer cr.timerStop("Setup")

	md, err := cr.sim.Modality()
	if err != nil {
		cr.logErr("Setup", err)
		return err
	}
	drv, err := NewInputDriver(md, cr.Inputs, cr.Trains, cr.files.InputSpikes)
	if err != nil {
		cr.logErr("Setup", err)
		return err
	}
	if drv.AttachFirst() {
		if err := drv.Attach(cr.eng, cr.Inputs); err != nil {
			return cr.fail("attach inputs", err)
		}
	}
	if err := cr.eng.SetupNetwork(cr.sim.RemoveTmpMem); err != nil {
		return cr.fail("SetupNetwork", err)
	}
	if !drv.AttachFirst() {
		if err := drv.Attach(cr.eng, cr.Inputs); err != nil {
			return cr.fail("attach inputs", err)
		}
	}
	cr.Input = drv
	cr.logf("nsat %v: set up with %v input\n", cr.Nm, md)
	cr.advance(SetUp)
	return nil
}

// Run attaches and starts a spike monitor on each monitored input unit
// and then each monitored network unit, runs the engine for the configured
// duration, and stops the monitors in the same order. The engine status and
// error are returned as is.
func (cr *Core) Run() (int, error) {
	if err := cr.require(SetUp, "Run"); err != nil {
		return 0, err
	}
	cr.timerStart("Run")
	mons := make([]GroupMonitor, 0, cr.Monitors.Len())
	for _, i := range cr.Monitors.Inputs {
		iu := &cr.Inputs.Units[i]
		sm, err := cr.eng.SetSpikeMonitor(iu.ID, MonitorDefault)
		if err != nil {
			cr.timerStop("Run")
			return 0, cr.fail("SetSpikeMonitor "+iu.Nm, err)
		}
		sm.StartRecording()
		mons = append(mons, GroupMonitor{Unit: iu.Nm, IsInput: true, Mon: sm})
	}
	for _, i := range cr.Monitors.Network {
		nu := &cr.Network.Units[i]
		sm, err := cr.eng.SetSpikeMonitor(nu.ID, MonitorDefault)
		if err != nil {
			cr.timerStop("Run")
			return 0, cr.fail("SetSpikeMonitor "+nu.Nm, err)
		}
		sm.StartRecording()
		mons = append(mons, GroupMonitor{Unit: nu.Nm, Mon: sm})
	}

	status, runErr := cr.eng.RunNetwork(cr.sim.TimeSec, cr.sim.TimeMsec, cr.sim.PrintSummary, cr.sim.CopyState)

	cr.Counts = make([]MonitorCount, len(mons))
	for i, gm := range mons {
		gm.Mon.StopRecording()
		cr.Counts[i] = MonitorCount{Unit: gm.Unit, IsInput: gm.IsInput, NSpikes: gm.Mon.NumSpikes()}
	}
	cr.timerStop("Run")

	if runErr != nil {
		cr.engErr = runErr
		log.Printf("nsat %v: RunNetwork failed with status %d: %v\n", cr.Nm, status, runErr)
		return status, runErr
	}
	for _, mc := range cr.Counts {
		cr.logf("nsat %v: %14s: %d spikes\n", cr.Nm, mc.Unit, mc.NSpikes)
	}
	cr.logf("nsat %v: ran %d ms in %.3f s, status %d\n", cr.Nm, cr.sim.DurationMsec(), cr.FunTimes["Run"].TotalSecs(), status)
	cr.advance(Ran)
	return status, nil
}

// Cleanup releases the layouts, the active input driver and the
// connectivity generators. It can be called once, from any phase.
func (cr *Core) Cleanup() error {
	if cr.phase == CleanedUp {
		return fmt.Errorf("%w: Cleanup: already cleaned up", ErrPhaseOrder)
	}
	cr.InLayout = nil
	cr.NetLayout = nil
	if cr.Input != nil {
		cr.Input.Release()
		cr.Input = nil
	}
	cr.Connxs = nil
	cr.Conns = nil
	cr.advance(CleanedUp)
	return nil
}

// Close releases the engine. It is safe to call more than once.
func (cr *Core) Close() error {
	if cr.closed {
		return nil
	}
	cr.closed = true
	return cr.eng.Close()
}

// InitCustomInput stores one spike train (times in ms) per input unit for
// the vectorial modality, replacing any previous trains. It must be called
// before Setup.
func (cr *Core) InitCustomInput(trains [][]int) error {
	if cr.phase > Configured {
		return fmt.Errorf("%w: InitCustomInput: core is %v, want %v or %v", ErrPhaseOrder, cr.phase, Unconfigured, Configured)
	}
	cp := make([][]int, len(trains))
	for i, tr := range trains {
		cp[i] = slices.Clone(tr)
	}
	cr.Trains = cp
	return nil
}

// InitCustomInputFlat is InitCustomInput for ntrains trains of length
// values each, stored row-major: train i is data[i*length : (i+1)*length].
func (cr *Core) InitCustomInputFlat(data []int, ntrains, length int) error {
	if ntrains < 0 || length < 0 || len(data) < ntrains*length {
		return fmt.Errorf("%w: have %d values for %d trains of %d", ErrMissingSpikeTrains, len(data), ntrains, length)
	}
	trains := make([][]int, ntrains)
	for i := range trains {
		trains[i] = data[i*length : (i+1)*length]
	}
	return cr.InitCustomInput(trains)
}

// require checks that the Core is in phase ph and not poisoned
func (cr *Core) require(ph Phase, op string) error {
	if cr.phase == CleanedUp {
		return fmt.Errorf("%w: %s: core is %v", ErrPhaseOrder, op, cr.phase)
	}
	if cr.engErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrEngineFailed, op, cr.engErr)
	}
	if cr.phase != ph {
		return fmt.Errorf("%w: %s: core is %v, want %v", ErrPhaseOrder, op, cr.phase, ph)
	}
	return nil
}

// fail poisons the Core with an engine error
func (cr *Core) fail(op string, err error) error {
	cr.engErr = err
	log.Printf("nsat %v: %s: engine error: %v\n", cr.Nm, op, err)
	return fmt.Errorf("%w: %s: %w", ErrEngineFailed, op, err)
}

func (cr *Core) advance(ph Phase) {
	cr.logf("nsat %v: %v -> %v\n", cr.Nm, cr.phase, ph)
	cr.phase = ph
}

// logf logs informational messages unless the logger is Silent
func (cr *Core) logf(format string, args ...any) {
	if cr.carl.Logger == Silent {
		return
	}
	log.Printf(format, args...)
}

// logErr always logs
func (cr *Core) logErr(op string, err error) {
	log.Printf("nsat %v: %s: %v\n", cr.Nm, op, err)
}

// timerStart starts the timer for given phase, creating it if needed
func (cr *Core) timerStart(fun string) {
	ft, ok := cr.FunTimes[fun]
	if !ok {
		ft = &timer.Time{}
		cr.FunTimes[fun] = ft
	}
	ft.Start()
}

// timerStop stops the timer for given phase -- it must already exist
func (cr *Core) timerStop(fun string) {
	cr.FunTimes[fun].Stop()
}
