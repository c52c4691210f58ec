// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"
	"log"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// SynDelay is the delay, in ms, reported for every synapse. The delay
// matrix is carried along but not consulted -- a known limitation that is
// kept to match engine-side expectations.
const SynDelay = 1

// SynInfo is the answer to a per-synapse query
type SynInfo struct {
	Connected bool    `desc:"synapse exists: |Wt| > 0"`
	Wt        float32 `desc:"initial weight"`
	MaxWt     float32 `desc:"maximum weight: Wt if plastic, else the fixed max weight"`
	Delay     int     `desc:"synaptic delay in ms, always SynDelay"`
}

// Connx is the connectivity generator for one connection: it owns the dense
// weight and delay matrices (Send x Recv) and answers per-synapse queries
// that the engine issues lazily while building the connection. It also
// implements prjn.Pattern, so the full existence pattern can be had at once.
type Connx struct {
	Nm      string           `desc:"name of the connection, src -> dst"`
	Wts     *etensor.Float32 `desc:"weight matrix, [send, recv]"`
	Dlys    *etensor.Float32 `desc:"delay matrix, [send, recv]"`
	plastic bool
	maxWt   float32
	nsend   int
	nrecv   int
}

var _ prjn.Pattern = (*Connx)(nil)

// NewConnTensor returns a zeroed Send x Recv matrix
func NewConnTensor(nsend, nrecv int) *etensor.Float32 {
	return etensor.NewFloat32([]int{nsend, nrecv}, nil, []string{"Send", "Recv"})
}

// OnesTensor returns a Send x Recv matrix filled with 1, the default delays
func OnesTensor(nsend, nrecv int) *etensor.Float32 {
	tsr := NewConnTensor(nsend, nrecv)
	for i := range tsr.Values {
		tsr.Values[i] = 1
	}
	return tsr
}

// NewConnx returns a generator for given matrices, which must both be
// exactly nsend x nrecv, else ErrShapeMismatch. A nil dlys means all ones.
func NewConnx(wts, dlys *etensor.Float32, nsend, nrecv int, plastic bool, maxWt float32) (*Connx, error) {
	if err := checkShape("weight", wts, nsend, nrecv); err != nil {
		return nil, err
	}
	if dlys == nil {
		dlys = OnesTensor(nsend, nrecv)
	} else if err := checkShape("delay", dlys, nsend, nrecv); err != nil {
		return nil, err
	}
	cx := &Connx{Wts: wts, Dlys: dlys, plastic: plastic, maxWt: maxWt, nsend: nsend, nrecv: nrecv}
	return cx, nil
}

func checkShape(what string, tsr *etensor.Float32, nsend, nrecv int) error {
	if tsr == nil {
		return fmt.Errorf("%w: nil %s matrix", ErrShapeMismatch, what)
	}
	if tsr.NumDims() != 2 || tsr.Dim(0) != nsend || tsr.Dim(1) != nrecv {
		return fmt.Errorf("%w: %s matrix is %v, want [%d %d]", ErrShapeMismatch, what, tsr.Shapes(), nsend, nrecv)
	}
	return nil
}

// Synapse returns the connectivity of sending neuron i onto receiving
// neuron j. Indexes out of range are a caller bug and panic.
func (cx *Connx) Synapse(i, j int) SynInfo {
	if i < 0 || i >= cx.nsend || j < 0 || j >= cx.nrecv {
		panic(fmt.Sprintf("nsat.Connx.Synapse: index (%d, %d) out of range [%d, %d]", i, j, cx.nsend, cx.nrecv))
	}
	wt := cx.Wts.Values[i*cx.nrecv+j]
	si := SynInfo{Connected: math32.Abs(wt) > 0, Wt: wt, MaxWt: cx.maxWt, Delay: SynDelay}
	if cx.plastic {
		si.MaxWt = wt
	}
	return si
}

// Plastic returns whether max weights track the initial weights
func (cx *Connx) Plastic() bool { return cx.plastic }

// MaxWt returns the fixed max weight used when not plastic
func (cx *Connx) MaxWt() float32 { return cx.maxWt }

// NSend returns the number of sending neurons (rows)
func (cx *Connx) NSend() int { return cx.nsend }

// NRecv returns the number of receiving neurons (cols)
func (cx *Connx) NRecv() int { return cx.nrecv }

// NConnected returns the number of existing synapses
func (cx *Connx) NConnected() int {
	n := 0
	for _, wt := range cx.Wts.Values {
		if math32.Abs(wt) > 0 {
			n++
		}
	}
	return n
}

// WtRange returns the min / max over all weights
func (cx *Connx) WtRange() minmax.F32 {
	var mm minmax.F32
	mm.SetInfinity()
	for _, wt := range cx.Wts.Values {
		mm.FitValInRange(wt)
	}
	return mm
}

func (cx *Connx) Name() string {
	if cx.Nm == "" {
		return "Connx"
	}
	return cx.Nm
}

// Connect returns the existence pattern in the prjn.Pattern layout: cons
// is recv-major (bit ri * nsend + si). The layer shapes must hold exactly
// NSend and NRecv units; otherwise no connections are made.
func (cx *Connx) Connect(send, recv *etensor.Shape, same bool) (sendn, recvn *etensor.Int32, cons *etensor.Bits) {
	sendn, recvn, cons = prjn.NewTensors(send, recv)
	slen := send.Len()
	rlen := recv.Len()
	if slen != cx.nsend || rlen != cx.nrecv {
		log.Printf("nsat.Connx %v: Connect shapes %d -> %d do not match matrix [%d %d]\n", cx.Name(), slen, rlen, cx.nsend, cx.nrecv)
		return
	}
	for ri := 0; ri < rlen; ri++ {
		for si := 0; si < slen; si++ {
			if !cx.Synapse(si, ri).Connected {
				continue
			}
			cons.Values.Set(ri*slen+si, true)
			sendn.Values[si]++
			recvn.Values[ri]++
		}
	}
	return
}
