// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import "github.com/goki/ki/kit"

// SynType marks a connection as plastic-eligible or fixed
type SynType int32

//go:generate stringer -type=SynType

var KiT_SynType = kit.Enums.AddEnum(SynTypeN, kit.NotBitFlag, nil)

const (
	SynFixed SynType = iota
	SynPlastic
	SynTypeN
)

// NoSpike is returned by a SpikeGenerator that has nothing more to emit
const NoSpike = -1

// MonitorDefault is the monitor file name that selects the engine default
const MonitorDefault = "DEFAULT"

// ConnGenerator is the per-synapse query the engine uses while it builds a
// connection. *Connx is the implementation used by Core.
type ConnGenerator interface {
	Synapse(i, j int) SynInfo
	NSend() int
	NRecv() int
}

// SpikeGenerator supplies spike times for the neurons of an input group
type SpikeGenerator interface {
	// NextSpikeTime returns the first spike time, in ms, of neuron nid that
	// is after last (use -1 before the first spike) and before end, or
	// NoSpike.
	NextSpikeTime(nid, last, end int) int
}

// SpikeMonitor records the spikes of one group while recording is on
type SpikeMonitor interface {
	StartRecording()
	StopRecording()
	NumSpikes() int
}

// Engine is the simulation engine that Core drives. It owns every numerical
// concern (neuron dynamics, spike propagation, plasticity, devices); Core
// only hands it validated structure. Group ids are assigned by the engine.
type Engine interface {
	// CreateSpikeGeneratorGroup creates an input group and returns its id
	CreateSpikeGeneratorGroup(name string, grid Grid3D, typ NeuronType) (int, error)

	// CreateGroupNSAT creates an NSAT neuron group and returns its id
	CreateGroupNSAT(name string, grid Grid3D, typ NeuronType) (int, error)

	// SetNeuronParametersNSAT sets the neuron model parameters of a group
	SetNeuronParametersNSAT(grpID int, np NSATParams) error

	// ConnectNSAT connects src to dst. The engine keeps gen and may query
	// it at any point until SetupNetwork returns.
	ConnectNSAT(src, dst int, gen ConnGenerator, bo BlankOut, syn SynType) (int, error)

	// SetESTDP sets excitatory plasticity on the incoming connections of a group
	SetESTDP(grpID int, enabled bool, rule StdpType, curve StdpCurve) error

	// SetISTDP sets inhibitory plasticity on the incoming connections of a group
	SetISTDP(grpID int, enabled bool, rule StdpType, curve StdpCurve) error

	SetConductances(mode ConductanceMode) error
	SetIntegrationMethod(im IntegrationMethod, steps int) error

	// SetSpikeRate drives an input group from Poisson rates
	SetSpikeRate(grpID int, rate *PoissonRate) error

	// SetSpikeGenerator drives an input group from a generator
	SetSpikeGenerator(grpID int, gen SpikeGenerator) error

	// SetupNetwork builds the network; all connections are instantiated here
	SetupNetwork(removeTmpMem bool) error

	// SetSpikeMonitor attaches a spike monitor to a group
	SetSpikeMonitor(grpID int, fname string) (SpikeMonitor, error)

	// RunNetwork runs for sec seconds plus msec ms, returning the engine status
	RunNetwork(sec, msec int, printSummary, copyState bool) (int, error)

	Close() error
}

// Opener creates the engine for given engine parameters
type Opener func(carl CarlParams) (Engine, error)
