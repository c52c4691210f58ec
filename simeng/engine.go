// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package simeng is an in-process dry run implementation of the nsat.Engine
contract. It performs all of the structural work of a simulation engine:
group registry, synapse instantiation from the connectivity generators with
blankout pruning, polling of input spike generators and Poisson rates, and
spike monitors. It has no neuron dynamics: network groups never spike.

Every engine call is appended to Calls, so drivers can be checked for call
order, and Fail can inject an error for any call by name.
*/
package simeng

import (
	"errors"
	"fmt"
	"log"

	"github.com/emer/emergent/erand"
	"github.com/emer/nsat/nsat"
)

var (
	ErrBadGroup = errors.New("simeng: no such group")
	ErrBuilt    = errors.New("simeng: network already set up")
	ErrNotBuilt = errors.New("simeng: network not set up")
	ErrShape    = errors.New("simeng: generator shape does not match groups")
	ErrClosed   = errors.New("simeng: engine closed")
)

// Engine is the dry run engine
type Engine struct {
	Carl         nsat.CarlParams        `desc:"engine parameters"`
	Groups       []*Group               `desc:"groups, indexed by id"`
	Conns        []*Conn                `desc:"connections, indexed by id"`
	Conductances nsat.ConductanceMode   `desc:"conductance mode"`
	IntMethod    nsat.IntegrationMethod `desc:"integration method"`
	IntSteps     int                    `desc:"integration sub-steps"`
	SimTime      int                    `desc:"current simulation time in ms"`
	Built        bool                   `desc:"SetupNetwork has been called"`
	Calls        []string               `desc:"every engine call, in order"`
	Fail         map[string]error       `desc:"error to return from the named call"`
	Rand         erand.SysRand          `view:"-" desc:"random number generator for blankout and Poisson input, seeded from Carl.RandomSeed"`

	closed bool
}

// New returns a dry run engine with its own random number generator for
// blankout and Poisson input, seeded from carl.RandomSeed. Engines never
// share random state.
func New(carl nsat.CarlParams) *Engine {
	en := &Engine{Carl: carl, Fail: make(map[string]error)}
	en.Rand.NewRand(int64(carl.RandomSeed))
	return en
}

// Open is an nsat.Opener for the dry run engine
func Open(carl nsat.CarlParams) (nsat.Engine, error) {
	if carl.Mode != nsat.CPUMode && carl.GPUIndex < 0 {
		return nil, fmt.Errorf("simeng: invalid gpu index %d for %v", carl.GPUIndex, carl.Mode)
	}
	return New(carl), nil
}

// call records the call and returns any injected failure
func (en *Engine) call(name, arg string) error {
	if arg != "" {
		en.Calls = append(en.Calls, name+" "+arg)
	} else {
		en.Calls = append(en.Calls, name)
	}
	if en.closed {
		return ErrClosed
	}
	if err, has := en.Fail[name]; has {
		return err
	}
	return nil
}

// Group returns the group with given id
func (en *Engine) Group(id int) (*Group, error) {
	if id < 0 || id >= len(en.Groups) {
		return nil, fmt.Errorf("%w: id %d", ErrBadGroup, id)
	}
	return en.Groups[id], nil
}

// GroupByName returns the named group, nil if none
func (en *Engine) GroupByName(name string) *Group {
	for _, gp := range en.Groups {
		if gp.Name == name {
			return gp
		}
	}
	return nil
}

func (en *Engine) addGroup(name string, grid nsat.Grid3D, typ nsat.NeuronType, input bool) (int, error) {
	if en.Built {
		return -1, ErrBuilt
	}
	gp := &Group{Name: name, ID: len(en.Groups), Grid: grid, Type: typ, Input: input}
	en.Groups = append(en.Groups, gp)
	return gp.ID, nil
}

func (en *Engine) CreateSpikeGeneratorGroup(name string, grid nsat.Grid3D, typ nsat.NeuronType) (int, error) {
	if err := en.call("CreateSpikeGeneratorGroup", name); err != nil {
		return -1, err
	}
	return en.addGroup(name, grid, typ, true)
}

func (en *Engine) CreateGroupNSAT(name string, grid nsat.Grid3D, typ nsat.NeuronType) (int, error) {
	if err := en.call("CreateGroupNSAT", name); err != nil {
		return -1, err
	}
	return en.addGroup(name, grid, typ, false)
}

// netGroup returns the network (non-input) group with given id
func (en *Engine) netGroup(id int) (*Group, error) {
	gp, err := en.Group(id)
	if err != nil {
		return nil, err
	}
	if gp.Input {
		return nil, fmt.Errorf("%w: %q is an input group", ErrBadGroup, gp.Name)
	}
	return gp, nil
}

// inGroup returns the input group with given id
func (en *Engine) inGroup(id int) (*Group, error) {
	gp, err := en.Group(id)
	if err != nil {
		return nil, err
	}
	if !gp.Input {
		return nil, fmt.Errorf("%w: %q is not an input group", ErrBadGroup, gp.Name)
	}
	return gp, nil
}

func (en *Engine) SetNeuronParametersNSAT(grpID int, np nsat.NSATParams) error {
	if err := en.call("SetNeuronParametersNSAT", fmt.Sprint(grpID)); err != nil {
		return err
	}
	gp, err := en.netGroup(grpID)
	if err != nil {
		return err
	}
	gp.NSAT = np
	return nil
}

func (en *Engine) ConnectNSAT(src, dst int, gen nsat.ConnGenerator, bo nsat.BlankOut, syn nsat.SynType) (int, error) {
	if err := en.call("ConnectNSAT", fmt.Sprintf("%d %d", src, dst)); err != nil {
		return -1, err
	}
	if en.Built {
		return -1, ErrBuilt
	}
	sg, err := en.Group(src)
	if err != nil {
		return -1, err
	}
	rg, err := en.netGroup(dst)
	if err != nil {
		return -1, err
	}
	if gen.NSend() != sg.N() || gen.NRecv() != rg.N() {
		return -1, fmt.Errorf("%w: [%d %d] for %q -> %q [%d %d]", ErrShape, gen.NSend(), gen.NRecv(), sg.Name, rg.Name, sg.N(), rg.N())
	}
	cn := &Conn{ID: len(en.Conns), Send: sg, Recv: rg, Gen: gen, Blank: bo, Syn: syn}
	en.Conns = append(en.Conns, cn)
	return cn.ID, nil
}

func (en *Engine) SetESTDP(grpID int, enabled bool, rule nsat.StdpType, curve nsat.StdpCurve) error {
	if err := en.call("SetESTDP", fmt.Sprint(grpID)); err != nil {
		return err
	}
	gp, err := en.netGroup(grpID)
	if err != nil {
		return err
	}
	gp.ESTDP = &STDP{Enabled: enabled, Rule: rule, Curve: curve}
	return nil
}

func (en *Engine) SetISTDP(grpID int, enabled bool, rule nsat.StdpType, curve nsat.StdpCurve) error {
	if err := en.call("SetISTDP", fmt.Sprint(grpID)); err != nil {
		return err
	}
	gp, err := en.netGroup(grpID)
	if err != nil {
		return err
	}
	gp.ISTDP = &STDP{Enabled: enabled, Rule: rule, Curve: curve}
	return nil
}

func (en *Engine) SetConductances(mode nsat.ConductanceMode) error {
	if err := en.call("SetConductances", mode.String()); err != nil {
		return err
	}
	en.Conductances = mode
	return nil
}

func (en *Engine) SetIntegrationMethod(im nsat.IntegrationMethod, steps int) error {
	if err := en.call("SetIntegrationMethod", im.String()); err != nil {
		return err
	}
	en.IntMethod = im
	en.IntSteps = steps
	return nil
}

func (en *Engine) SetSpikeRate(grpID int, rate *nsat.PoissonRate) error {
	if err := en.call("SetSpikeRate", fmt.Sprint(grpID)); err != nil {
		return err
	}
	gp, err := en.inGroup(grpID)
	if err != nil {
		return err
	}
	if rate.N() != gp.N() {
		return fmt.Errorf("%w: %d rates for %q of %d neurons", ErrShape, rate.N(), gp.Name, gp.N())
	}
	gp.Rate = rate
	return nil
}

func (en *Engine) SetSpikeGenerator(grpID int, gen nsat.SpikeGenerator) error {
	if err := en.call("SetSpikeGenerator", fmt.Sprint(grpID)); err != nil {
		return err
	}
	if en.Built {
		return ErrBuilt
	}
	gp, err := en.inGroup(grpID)
	if err != nil {
		return err
	}
	gp.Gen = gen
	return nil
}

// SetupNetwork instantiates the synapses of every connection. With
// removeTmpMem the connectivity generators are dropped afterward.
func (en *Engine) SetupNetwork(removeTmpMem bool) error {
	if err := en.call("SetupNetwork", ""); err != nil {
		return err
	}
	if en.Built {
		return ErrBuilt
	}
	for _, cn := range en.Conns {
		cn.Build(&en.Rand)
		if removeTmpMem {
			cn.Gen = nil
		}
	}
	for _, gp := range en.Groups {
		gp.init()
	}
	en.Built = true
	if en.Carl.Logger != nsat.Silent {
		log.Printf("simeng %v: set up %d groups, %d connections, %d synapses\n", en.Carl.Name, len(en.Groups), len(en.Conns), en.NSyns())
	}
	return nil
}

func (en *Engine) SetSpikeMonitor(grpID int, fname string) (nsat.SpikeMonitor, error) {
	if err := en.call("SetSpikeMonitor", fmt.Sprint(grpID)); err != nil {
		return nil, err
	}
	if !en.Built {
		return nil, ErrNotBuilt
	}
	gp, err := en.Group(grpID)
	if err != nil {
		return nil, err
	}
	sm := &Monitor{Group: gp, FName: fname}
	gp.Monitors = append(gp.Monitors, sm)
	return sm, nil
}

// RunNetwork advances the simulation by sec seconds plus msec ms, emitting
// the spikes of all input groups. The status is always 0.
func (en *Engine) RunNetwork(sec, msec int, printSummary, copyState bool) (int, error) {
	if err := en.call("RunNetwork", fmt.Sprintf("%d %d", sec, msec)); err != nil {
		return -1, err
	}
	if !en.Built {
		return -1, ErrNotBuilt
	}
	dur := sec*1000 + msec
	if dur < 0 {
		return -1, fmt.Errorf("simeng: negative run duration %d ms", dur)
	}
	end := en.SimTime + dur
	nspk := 0
	for _, gp := range en.Groups {
		if gp.Input {
			nspk += gp.emit(en.SimTime, end, &en.Rand)
		}
	}
	en.SimTime = end
	if printSummary {
		log.Printf("simeng %v: ran %d ms to t = %d ms: %d input spikes, %d synapses\n", en.Carl.Name, dur, en.SimTime, nspk, en.NSyns())
	}
	return 0, nil
}

// Close releases the engine; later calls fail with ErrClosed
func (en *Engine) Close() error {
	en.Calls = append(en.Calls, "Close")
	en.closed = true
	return nil
}

// NSyns returns the total number of instantiated synapses
func (en *Engine) NSyns() int {
	n := 0
	for _, cn := range en.Conns {
		n += len(cn.Syns)
	}
	return n
}

var _ nsat.Engine = (*Engine)(nil)
