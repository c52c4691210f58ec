// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import "fmt"

// InputDriver is the active input modality of a Core, holding exactly the
// generator handles of that modality: one of *PoissonDriver,
// *PeriodicDriver, *VectorDriver or *FileDriver.
type InputDriver interface {
	// Modality returns the modality this driver implements
	Modality() InputModality

	// AttachFirst is true when generators are attached before the engine
	// network is set up, false when after.
	AttachFirst() bool

	// Attach hands one generator per input unit to the engine, in table order
	Attach(eng Engine, ins *InputTable) error

	// Release drops all generator handles
	Release()

	// Len returns the number of generator handles held
	Len() int
}

// NewInputDriver builds the generators for modality md, one per input unit.
// Vectorial needs one spike train per unit, FromFile one spike file path
// per unit; spike files are loaded here so that no engine call happens
// before all of them are valid.
func NewInputDriver(md InputModality, ins *InputTable, trains [][]int, files []string) (InputDriver, error) {
	nin := ins.Len()
	if nin == 0 {
		return nil, fmt.Errorf("%w: no input units", ErrNoGroups)
	}
	switch md {
	case Poisson:
		dr := &PoissonDriver{Rates: make([]*PoissonRate, nin)}
		for i := range ins.Units {
			iu := &ins.Units[i]
			dr.Rates[i] = NewPoissonRate(iu.N, iu.Spkg.OnGPU)
			dr.Rates[i].SetRates(iu.Spkg.Rate)
		}
		return dr, nil
	case Periodical:
		dr := &PeriodicDriver{Gens: make([]*PeriodicGen, nin)}
		for i := range ins.Units {
			sp := &ins.Units[i].Spkg
			dr.Gens[i] = &PeriodicGen{Freq: sp.Freq, SpikeAtZero: sp.SpikeAtZero}
		}
		return dr, nil
	case Vectorial:
		if len(trains) < nin {
			return nil, fmt.Errorf("%w: have %d trains for %d input units", ErrMissingSpikeTrains, len(trains), nin)
		}
		dr := &VectorDriver{Gens: make([]*VectorGen, nin)}
		for i := 0; i < nin; i++ {
			dr.Gens[i] = NewVectorGen(trains[i])
		}
		return dr, nil
	case FromFile:
		if len(files) < nin {
			return nil, fmt.Errorf("%w: have %d files for %d input units", ErrMissingSpikeFiles, len(files), nin)
		}
		dr := &FileDriver{Gens: make([]*FileGen, nin)}
		for i := 0; i < nin; i++ {
			fg, err := LoadSpikeFile(files[i])
			if err != nil {
				return nil, err
			}
			dr.Gens[i] = fg
		}
		return dr, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidInputModality, md)
}

// PoissonDriver drives input units from Poisson rates, attached after set up
type PoissonDriver struct {
	Rates []*PoissonRate
}

func (dr *PoissonDriver) Modality() InputModality { return Poisson }
func (dr *PoissonDriver) AttachFirst() bool       { return false }
func (dr *PoissonDriver) Len() int                { return len(dr.Rates) }
func (dr *PoissonDriver) Release()                { dr.Rates = nil }

func (dr *PoissonDriver) Attach(eng Engine, ins *InputTable) error {
	for i, pr := range dr.Rates {
		if err := eng.SetSpikeRate(ins.Units[i].ID, pr); err != nil {
			return fmt.Errorf("SetSpikeRate %q: %w", ins.Units[i].Nm, err)
		}
	}
	return nil
}

// PeriodicDriver drives input units at their frequency
type PeriodicDriver struct {
	Gens []*PeriodicGen
}

func (dr *PeriodicDriver) Modality() InputModality { return Periodical }
func (dr *PeriodicDriver) AttachFirst() bool       { return true }
func (dr *PeriodicDriver) Len() int                { return len(dr.Gens) }
func (dr *PeriodicDriver) Release()                { dr.Gens = nil }

func (dr *PeriodicDriver) Attach(eng Engine, ins *InputTable) error {
	for i, gen := range dr.Gens {
		if err := eng.SetSpikeGenerator(ins.Units[i].ID, gen); err != nil {
			return fmt.Errorf("SetSpikeGenerator %q: %w", ins.Units[i].Nm, err)
		}
	}
	return nil
}

// VectorDriver replays injected spike trains
type VectorDriver struct {
	Gens []*VectorGen
}

func (dr *VectorDriver) Modality() InputModality { return Vectorial }
func (dr *VectorDriver) AttachFirst() bool       { return true }
func (dr *VectorDriver) Len() int                { return len(dr.Gens) }
func (dr *VectorDriver) Release()                { dr.Gens = nil }

func (dr *VectorDriver) Attach(eng Engine, ins *InputTable) error {
	for i, gen := range dr.Gens {
		if err := eng.SetSpikeGenerator(ins.Units[i].ID, gen); err != nil {
			return fmt.Errorf("SetSpikeGenerator %q: %w", ins.Units[i].Nm, err)
		}
	}
	return nil
}

// FileDriver replays spike files
type FileDriver struct {
	Gens []*FileGen
}

func (dr *FileDriver) Modality() InputModality { return FromFile }
func (dr *FileDriver) AttachFirst() bool       { return true }
func (dr *FileDriver) Len() int                { return len(dr.Gens) }
func (dr *FileDriver) Release()                { dr.Gens = nil }

func (dr *FileDriver) Attach(eng Engine, ins *InputTable) error {
	for i, gen := range dr.Gens {
		if err := eng.SetSpikeGenerator(ins.Units[i].ID, gen); err != nil {
			return fmt.Errorf("SetSpikeGenerator %q: %w", ins.Units[i].Nm, err)
		}
	}
	return nil
}
