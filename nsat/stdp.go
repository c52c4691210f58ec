// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"
	"os"

	"github.com/emer/nsat/lex"
)

// StdpFields is the number of fields of a plasticity record:
// group, polarity (E|I), rule, curve (0|1), use, alpha+, tau+, alpha-,
// tau-, beta LTP, beta LTD, lambda, delta, gamma
const StdpFields = 14

// StdpCurve is the curve handed to the engine with a plasticity request:
// one of ExpCurve, TimingCurve or PulseCurve.
type StdpCurve interface {
	CurveName() string
}

// ExpCurve is the exponential STDP curve
type ExpCurve struct {
	AlphaPlus  float32
	TauPlus    float32
	AlphaMinus float32
	TauMinus   float32
}

func (ec ExpCurve) CurveName() string { return "exp" }

// TimingCurve is the timing-based excitatory STDP curve
type TimingCurve struct {
	AlphaPlus  float32
	TauPlus    float32
	AlphaMinus float32
	TauMinus   float32
	Gamma      float32
}

func (tc TimingCurve) CurveName() string { return "timing" }

// PulseCurve is the pulse inhibitory STDP curve
type PulseCurve struct {
	BetaLTP float32
	BetaLTD float32
	Lambda  float32
	Delta   float32
}

func (pc PulseCurve) CurveName() string { return "pulse" }

// StdpSpec is one plasticity request for a network unit
type StdpSpec struct {
	Group    string    `desc:"network unit name"`
	GroupIdx int       `desc:"index in the network table"`
	Polarity Polarity  `desc:"excitatory requests go to SetESTDP, inhibitory to SetISTDP"`
	Rule     StdpType  `desc:"plasticity rule kind"`
	Kind     CurveKind `desc:"curve selector from the file"`
	Enabled  bool      `desc:"use flag"`
	Curve    StdpCurve `desc:"curve handed to the engine"`
}

// ParseStdpRecord converts one tokenized plasticity line; the group name is
// not resolved. Signs follow the engine convention: the depression side of
// an excitatory curve and the potentiation side of an inhibitory
// exponential curve are negated.
func ParseStdpRecord(toks []string) (StdpSpec, error) {
	sp := StdpSpec{GroupIdx: -1}
	if len(toks) != StdpFields {
		return sp, fmt.Errorf("%w: got %d fields, want %d", ErrMissingPlasticityParams, len(toks), StdpFields)
	}
	sp.Group = toks[0]
	switch toks[1] {
	case "E":
		sp.Polarity = Excitatory
	case "I":
		sp.Polarity = Inhibitory
	default:
		return sp, fmt.Errorf("%w: polarity %q in group %q", ErrInvalidPolarity, toks[1], toks[0])
	}
	sp.Rule = ParseStdpType(toks[2])
	kind, err := lex.Int(toks[3])
	if err != nil {
		return sp, numErr(3, err)
	}
	if kind < 0 || kind >= int(CurveKindN) {
		return sp, fmt.Errorf("%w: %d", ErrInvalidCurveKind, kind)
	}
	sp.Kind = CurveKind(kind)
	if sp.Enabled, err = lex.Bool(toks[4]); err != nil {
		return sp, numErr(4, err)
	}
	p, err := floatFields(toks, 5, 6, 7, 8, 9, 10, 11, 12, 13)
	if err != nil {
		return sp, err
	}
	aP, tP, aM, tM := p[0], p[1], p[2], p[3]
	switch {
	case sp.Polarity == Excitatory && sp.Kind == CurveExp:
		sp.Curve = ExpCurve{AlphaPlus: aP, TauPlus: tP, AlphaMinus: -aM, TauMinus: tM}
	case sp.Polarity == Excitatory:
		sp.Curve = TimingCurve{AlphaPlus: aP, TauPlus: tP, AlphaMinus: -aM, TauMinus: tM, Gamma: p[8]}
	case sp.Kind == CurveExp:
		sp.Curve = ExpCurve{AlphaPlus: -aP, TauPlus: tP, AlphaMinus: aM, TauMinus: tM}
	default:
		sp.Curve = PulseCurve{BetaLTP: p[4], BetaLTD: p[5], Lambda: p[6], Delta: p[7]}
	}
	return sp, nil
}

// ReadStdpSpecs reads all plasticity requests in the file at path,
// resolving group names against nets. An empty path means no plasticity.
func ReadStdpSpecs(path string, nets *NetworkTable) ([]StdpSpec, error) {
	if path == "" {
		return nil, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	var sps []StdpSpec
	dl := &dataLines{scan: lex.NewScanner(fp)}
	for {
		toks, ok := dl.next()
		if !ok {
			break
		}
		sp, err := ParseStdpRecord(toks)
		if err != nil {
			return nil, lineErr(path, dl.line, err)
		}
		sp.GroupIdx = nets.Index(sp.Group)
		if sp.GroupIdx < 0 {
			return nil, lineErr(path, dl.line, fmt.Errorf("%w: network unit %q", ErrUnknownName, sp.Group))
		}
		sps = append(sps, sp)
	}
	if err := dl.scan.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return sps, nil
}
