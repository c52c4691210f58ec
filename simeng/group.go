// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simeng

import (
	"github.com/chewxy/math32"
	"github.com/emer/emergent/erand"
	"github.com/emer/nsat/nsat"
)

// STDP is a plasticity request stored on a group
type STDP struct {
	Enabled bool
	Rule    nsat.StdpType
	Curve   nsat.StdpCurve
}

// Group is one engine neuron group
type Group struct {
	Name     string              `desc:"group name"`
	ID       int                 `desc:"engine id"`
	Grid     nsat.Grid3D         `desc:"layout"`
	Type     nsat.NeuronType     `desc:"neuron type bitmask"`
	Input    bool                `desc:"spike generator group"`
	NSAT     nsat.NSATParams     `desc:"neuron parameters of network groups"`
	ESTDP    *STDP               `desc:"excitatory plasticity on incoming connections"`
	ISTDP    *STDP               `desc:"inhibitory plasticity on incoming connections"`
	Rate     *nsat.PoissonRate   `desc:"Poisson rates of input groups"`
	Gen      nsat.SpikeGenerator `desc:"spike generator of input groups"`
	Monitors []*Monitor          `desc:"attached spike monitors"`
	Last     []int               `desc:"last spike time of each neuron, -1 for none"`
}

// N returns the number of neurons
func (gp *Group) N() int { return gp.Grid.N() }

func (gp *Group) init() {
	gp.Last = make([]int, gp.N())
	for i := range gp.Last {
		gp.Last[i] = -1
	}
}

// emit generates the spikes of an input group in [st, end), from its
// generator if it has one, else from its Poisson rates, and returns the
// number of spikes.
func (gp *Group) emit(st, end int, rnd erand.Rand) int {
	n := 0
	for nid := 0; nid < gp.N(); nid++ {
		last := gp.Last[nid]
		if last < st-1 {
			last = st - 1
		}
		for {
			t := gp.nextSpike(nid, last, end, rnd)
			if t == nsat.NoSpike || t <= last || t >= end {
				break
			}
			gp.spike(t, nid)
			gp.Last[nid] = t
			last = t
			n++
		}
	}
	return n
}

func (gp *Group) nextSpike(nid, last, end int, rnd erand.Rand) int {
	if gp.Gen != nil {
		return gp.Gen.NextSpikeTime(nid, last, end)
	}
	if gp.Rate == nil {
		return nsat.NoSpike
	}
	rate := gp.Rate.Rates[nid]
	if rate <= 0 {
		return nsat.NoSpike
	}
	isi := float32(rnd.ExpFloat64(-1)) * 1000 / rate
	return last + 1 + int(math32.Floor(isi))
}

// spike delivers one spike to all recording monitors
func (gp *Group) spike(t, nid int) {
	for _, sm := range gp.Monitors {
		if sm.Recording {
			sm.Spikes = append(sm.Spikes, nsat.SpikeEvent{Time: int32(t), NID: int32(nid)})
		}
	}
}
