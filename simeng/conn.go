// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simeng

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/prjn"
	"github.com/emer/emergent/weights"
	"github.com/emer/etable/etensor"
	"github.com/emer/nsat/nsat"
	"github.com/goki/ki/indent"
	"github.com/goki/mat32"
)

// Synapse is one instantiated synapse
type Synapse struct {
	Si    int32   `desc:"sending neuron index"`
	Ri    int32   `desc:"receiving neuron index"`
	Wt    float32 `desc:"weight"`
	MaxWt float32 `desc:"maximum weight"`
	Delay int32   `desc:"delay in ms"`
}

// Conn is one connection between two groups. Synapses are created by Build,
// ordered by receiving neuron.
type Conn struct {
	ID        int                `desc:"engine connection id"`
	Send      *Group             `desc:"sending group"`
	Recv      *Group             `desc:"receiving group"`
	Gen       nsat.ConnGenerator `desc:"connectivity generator, until released by SetupNetwork"`
	Blank     nsat.BlankOut      `desc:"pruning policy"`
	Syn       nsat.SynType       `desc:"plastic or fixed"`
	Syns      []Synapse          `desc:"synapses, recv-major"`
	RConN     []int32            `desc:"number of synapses per receiving neuron"`
	RConIdxSt []int32            `desc:"start of each receiving neuron's synapses in Syns"`
	NCand     int                `desc:"number of candidate synapses before blankout"`
}

// keep draws the blankout decision for one candidate synapse
func (cn *Conn) keep(rnd erand.Rand) bool {
	p := cn.Blank.Prob
	if cn.Blank.HasSpread {
		p = mat32.Clamp(p+float32(rnd.NormFloat64(-1))*cn.Blank.Spread, 0, 1)
	}
	return erand.BoolP32(p, -1, rnd)
}

// Build instantiates the synapses. When the generator is also a
// prjn.Pattern, its connection bits give the candidates (recv-major, as in
// emergent projections); otherwise each pair is queried. Every candidate
// is then kept with the blankout probability, drawn from rnd.
func (cn *Conn) Build(rnd erand.Rand) {
	slen := cn.Send.N()
	rlen := cn.Recv.N()
	exists := func(si, ri int) bool { return cn.Gen.Synapse(si, ri).Connected }
	if pat, ok := cn.Gen.(prjn.Pattern); ok {
		var ssh, rsh etensor.Shape
		ssh.SetShape([]int{slen}, nil, []string{"N"})
		rsh.SetShape([]int{rlen}, nil, []string{"N"})
		_, _, cons := pat.Connect(&ssh, &rsh, cn.Send == cn.Recv)
		cbits := cons.Values
		exists = func(si, ri int) bool { return cbits.Index(ri*slen + si) }
	}
	cn.Syns = nil
	cn.NCand = 0
	cn.RConN = make([]int32, rlen)
	cn.RConIdxSt = make([]int32, rlen)
	for ri := 0; ri < rlen; ri++ {
		cn.RConIdxSt[ri] = int32(len(cn.Syns))
		for si := 0; si < slen; si++ {
			if !exists(si, ri) {
				continue
			}
			cn.NCand++
			if !cn.keep(rnd) {
				continue
			}
			sy := cn.Gen.Synapse(si, ri)
			cn.Syns = append(cn.Syns, Synapse{Si: int32(si), Ri: int32(ri), Wt: sy.Wt, MaxWt: sy.MaxWt, Delay: int32(sy.Delay)})
			cn.RConN[ri]++
		}
	}
}

// Name returns "send -> recv"
func (cn *Conn) Name() string {
	return cn.Send.Name + " -> " + cn.Recv.Name
}

// Synapse returns the synapse from si to ri, nil if it was not instantiated
func (cn *Conn) Synapse(si, ri int) *Synapse {
	if ri < 0 || ri >= len(cn.RConN) {
		return nil
	}
	st := int(cn.RConIdxSt[ri])
	for ci := 0; ci < int(cn.RConN[ri]); ci++ {
		if sy := &cn.Syns[st+ci]; int(sy.Si) == si {
			return sy
		}
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// Wts returns the weights of this connection from the receiver-side
// perspective, one weights.Recv per receiving neuron with its instantiated
// synapses. Weights are rounded to weights.Prec significant digits.
func (cn *Conn) Wts() *weights.Prjn {
	pw := &weights.Prjn{From: cn.Send.Name}
	pw.SetMetaData("SynType", cn.Syn.String())
	pw.SetMetaData("BlankOut", strconv.FormatFloat(float64(cn.Blank.Prob), 'g', -1, 32))
	pw.Rs = make([]weights.Recv, len(cn.RConN))
	for ri := range pw.Rs {
		nc := int(cn.RConN[ri])
		st := int(cn.RConIdxSt[ri])
		pr := &pw.Rs[ri]
		pr.Ri = ri
		pr.N = nc
		pr.Si = make([]int, nc)
		pr.Wt = make([]float32, nc)
		for ci, sy := range cn.Syns[st : st+nc] {
			pr.Si[ci] = int(sy.Si)
			pr.Wt[ci] = roundPrec(sy.Wt)
		}
	}
	return pw
}

// WriteWtsJSON writes Wts as indented JSON, each line prefixed by depth tabs
func (cn *Conn) WriteWtsJSON(w io.Writer, depth int) error {
	b, err := json.MarshalIndent(cn.Wts(), string(indent.TabBytes(depth)), "\t")
	if err != nil {
		return err
	}
	w.Write(indent.TabBytes(depth))
	_, err = w.Write(append(b, '\n'))
	return err
}

func roundPrec(wt float32) float32 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(wt), 'g', weights.Prec, 32), 32)
	return float32(v)
}

// ReadWtsJSON reads weights written by WriteWtsJSON and sets the weights of
// the synapses that exist. Entries for synapses that were not instantiated
// are an error.
func (cn *Conn) ReadWtsJSON(r io.Reader) error {
	pw, err := weights.PrjnReadJSON(r)
	if err != nil {
		return err
	}
	if pw == nil {
		return fmt.Errorf("simeng: %v: no weights to read", cn.Name())
	}
	return cn.SetWts(pw)
}

// SetWts sets the weights from weights.Prjn decoded values
func (cn *Conn) SetWts(pw *weights.Prjn) error {
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		for si := range pr.Si {
			sy := cn.Synapse(pr.Si[si], pr.Ri)
			if sy == nil {
				err = fmt.Errorf("simeng: %v: no synapse %d -> %d", cn.Name(), pr.Si[si], pr.Ri)
				continue
			}
			sy.Wt = pr.Wt[si]
		}
	}
	return err
}
