// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"strconv"
	"strings"
)

// NeuronType is the engine's neuron type bitmask: receptor targets plus the
// Poisson (input) bit.
type NeuronType uint32

// The receptor / source bits that make up a NeuronType
const (
	PoissonBit  NeuronType = 1 << 0
	TargetAMPA  NeuronType = 1 << 1
	TargetNMDA  NeuronType = 1 << 2
	TargetGABAa NeuronType = 1 << 3
	TargetGABAb NeuronType = 1 << 4
	TargetDA    NeuronType = 1 << 5
)

// The named neuron types accepted in parameter files
const (
	PoissonNeuron      = PoissonBit
	ExcitatoryNeuron   = TargetAMPA | TargetNMDA
	InhibitoryNeuron   = TargetGABAa | TargetGABAb
	DopaminergicNeuron = TargetDA | ExcitatoryNeuron
	ExcitatoryPoisson  = ExcitatoryNeuron | PoissonBit
	InhibitoryPoisson  = InhibitoryNeuron | PoissonBit

	// UnknownNeuron is the sentinel for unrecognized names -- it is never a
	// valid type and readers must reject it.
	UnknownNeuron NeuronType = 135
)

// NeuronTypeNames lists the accepted names in canonical order
var NeuronTypeNames = []string{
	"poisson_neuron",
	"excitatory_neuron",
	"inhibitory_neuron",
	"dopaminergic_neuron",
	"excitatory_poisson",
	"inhibitory_poisson",
}

var neuronTypes = map[string]NeuronType{
	"poisson_neuron":      PoissonNeuron,
	"excitatory_neuron":   ExcitatoryNeuron,
	"inhibitory_neuron":   InhibitoryNeuron,
	"dopaminergic_neuron": DopaminergicNeuron,
	"excitatory_poisson":  ExcitatoryPoisson,
	"inhibitory_poisson":  InhibitoryPoisson,
}

// ParseNeuronType maps a case-insensitive neuron type name to its bitmask.
// Any other string yields UnknownNeuron.
func ParseNeuronType(s string) NeuronType {
	nt, ok := neuronTypes[strings.ToLower(s)]
	if !ok {
		return UnknownNeuron
	}
	return nt
}

// IsKnown returns false for UnknownNeuron and any mask not in the vocabulary
func (nt NeuronType) IsKnown() bool {
	for _, v := range neuronTypes {
		if v == nt {
			return true
		}
	}
	return false
}

// Has returns true if all of the given bits are set
func (nt NeuronType) Has(bits NeuronType) bool {
	return nt&bits == bits
}

// IsPoisson is true for input (spike generator) types
func (nt NeuronType) IsPoisson() bool { return nt.Has(PoissonBit) }

// IsInhibitory is true for GABA-targeting types
func (nt NeuronType) IsInhibitory() bool { return nt&(TargetGABAa|TargetGABAb) != 0 }

func (nt NeuronType) String() string {
	for _, nm := range NeuronTypeNames {
		if neuronTypes[nm] == nt {
			return nm
		}
	}
	return "NeuronType(" + strconv.FormatUint(uint64(nt), 10) + ")"
}
