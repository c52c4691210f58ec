// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

// SpkgParams are the spike generator parameters of an input unit
type SpkgParams struct {
	Rate        float32 `desc:"mean firing rate in Hz, used by the poisson input modality"`
	Freq        float32 `desc:"firing frequency in Hz, used by the periodical input modality"`
	SpikeAtZero bool    `desc:"periodical generators emit a spike at t = 0"`
	OnGPU       bool    `desc:"poisson rates live in device memory"`
}

// NSATParams are the neuron model parameters of a network unit.
// The engine integrates the model -- these are only passed through.
type NSATParams struct {
	Alpha  float32 `desc:"membrane leak / decay"`
	Beta   float32 `desc:"input gain"`
	Sigma  float32 `desc:"noise amplitude"`
	Vth    float32 `desc:"spike threshold"`
	Vreset float32 `desc:"reset potential after a spike"`
	B      float32 `desc:"leak b term"`
	TauRef int     `desc:"refractory period in ms"`
	AlphaS float32 `desc:"spike adaptation"`
}

// Grid3D is the engine-facing layout of a group; units are laid out as a
// single row of N neurons.
type Grid3D struct {
	X, Y, Z int
}

// N returns the number of neurons in the grid
func (gr Grid3D) N() int { return gr.X * gr.Y * gr.Z }

// InputUnit is one input (spike generator) population
type InputUnit struct {
	Nm      string     `desc:"unique name within the input units"`
	N       int        `desc:"number of neurons"`
	Type    NeuronType `desc:"neuron type bitmask"`
	Monitor bool       `desc:"attach a spike monitor during Run"`
	ID      int        `desc:"engine group id, -1 until groups are created"`
	Spkg    SpkgParams `view:"inline" desc:"spike generator parameters"`
}

// NetworkUnit is one NSAT neuron population
type NetworkUnit struct {
	Nm      string     `desc:"unique name within the network units"`
	N       int        `desc:"number of neurons"`
	Type    NeuronType `desc:"neuron type bitmask"`
	Monitor bool       `desc:"attach a spike monitor during Run"`
	ID      int        `desc:"engine group id, -1 until groups are created"`
	NSAT    NSATParams `view:"inline" desc:"neuron model parameters"`
}

// params.Styler interface, so param sheets can select units by
// type name, #name or .class (the neuron type name).

func (iu *InputUnit) Name() string     { return iu.Nm }
func (iu *InputUnit) TypeName() string { return "InputUnit" }
func (iu *InputUnit) Class() string    { return iu.Type.String() }

func (nu *NetworkUnit) Name() string     { return nu.Nm }
func (nu *NetworkUnit) TypeName() string { return "NetworkUnit" }
func (nu *NetworkUnit) Class() string    { return nu.Type.String() }
