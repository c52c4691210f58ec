// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/emer/etable/etensor"
	"github.com/emer/nsat/lex"
)

// BlankOut is the stochastic pruning policy applied by the engine while it
// instantiates a connection: each candidate synapse is kept independently
// with probability Prob. With HasSpread, the engine draws the probability
// per synapse from a normal around Prob with std dev Spread.
type BlankOut struct {
	Prob      float32 `desc:"retention probability in [0, 1]"`
	Spread    float32 `viewif:"HasSpread" desc:"std dev of the retention probability"`
	HasSpread bool    `desc:"use Spread"`
}

// ConnSpec is one parsed connection definition file
type ConnSpec struct {
	Src        string           `desc:"source unit name"`
	Dst        string           `desc:"destination network unit name"`
	SrcIsInput bool             `desc:"the source is an input unit, else a network unit"`
	SrcIdx     int              `desc:"index of the source in its table"`
	DstIdx     int              `desc:"index of the destination in the network table"`
	Blank      BlankOut         `view:"inline" desc:"pruning policy"`
	Wts        *etensor.Float32 `desc:"weight matrix, [src.N, dst.N]"`
	Dlys       *etensor.Float32 `desc:"delay matrix, [src.N, dst.N], all ones without a delay file"`
}

// Name returns "src -> dst"
func (cs *ConnSpec) Name() string {
	return cs.Src + " -> " + cs.Dst
}

// dataLines iterates over the data lines of a file, counting every line
type dataLines struct {
	scan *bufio.Scanner
	line int
}

// next returns the tokens of the next data line, false at end of input
func (dl *dataLines) next() ([]string, bool) {
	for dl.scan.Scan() {
		dl.line++
		ln := dl.scan.Text()
		if lex.Classify(ln) == lex.Data {
			return lex.Fields(ln), true
		}
	}
	return nil, false
}

// ReadConnSpec reads the connection definition file at path: a header of
// `src dst src_is_input prob [spread]` followed by src.N rows of dst.N
// weights. Names resolve against ins when src_is_input is "true", else
// against nets; the destination always resolves against nets. An optional
// delay file (dlyPath != "") holds a dense block of the same shape with no
// header. Nothing is returned on failure.
func ReadConnSpec(path string, ins *InputTable, nets *NetworkTable, dlyPath string) (*ConnSpec, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	dl := &dataLines{scan: lex.NewScanner(fp)}
	toks, ok := dl.next()
	if !ok {
		if err := dl.scan.Err(); err != nil {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		return nil, lineErr(path, 0, fmt.Errorf("%w: no header line", ErrMalformedConnHeader))
	}
	cs, err := parseConnHeader(toks)
	if err != nil {
		return nil, lineErr(path, dl.line, err)
	}
	nsend, err := cs.resolve(ins, nets)
	if err != nil {
		return nil, lineErr(path, dl.line, err)
	}
	nrecv := nets.Units[cs.DstIdx].N

	cs.Wts = NewConnTensor(nsend, nrecv)
	if err := readBlock(dl, path, cs.Wts); err != nil {
		return nil, err
	}
	if dlyPath == "" {
		cs.Dlys = OnesTensor(nsend, nrecv)
		return cs, nil
	}
	cs.Dlys, err = ReadDelays(dlyPath, nsend, nrecv)
	if err != nil {
		return nil, err
	}
	return cs, nil
}

// ReadDelays reads a dense nsend x nrecv delay block with no header
func ReadDelays(path string, nsend, nrecv int) (*etensor.Float32, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	tsr := NewConnTensor(nsend, nrecv)
	if err := readBlock(&dataLines{scan: lex.NewScanner(fp)}, path, tsr); err != nil {
		return nil, err
	}
	return tsr, nil
}

func parseConnHeader(toks []string) (*ConnSpec, error) {
	if len(toks) != 4 && len(toks) != 5 {
		return nil, fmt.Errorf("%w: got %d fields, want 4 or 5", ErrMalformedConnHeader, len(toks))
	}
	cs := &ConnSpec{Src: toks[0], Dst: toks[1], SrcIsInput: strings.EqualFold(toks[2], "true")}
	prob, err := lex.Float32(toks[3])
	if err != nil {
		return nil, numErr(3, err)
	}
	if !(prob >= 0 && prob <= 1) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidPruneProb, prob)
	}
	cs.Blank.Prob = prob
	if len(toks) == 5 {
		sp, err := lex.Float32(toks[4])
		if err != nil {
			return nil, numErr(4, err)
		}
		cs.Blank.Spread = sp
		cs.Blank.HasSpread = true
	}
	return cs, nil
}

// resolve looks up both names, returning the source neuron count
func (cs *ConnSpec) resolve(ins *InputTable, nets *NetworkTable) (int, error) {
	nsend := 0
	if cs.SrcIsInput {
		cs.SrcIdx = ins.Index(cs.Src)
		if cs.SrcIdx < 0 {
			return 0, fmt.Errorf("%w: input unit %q", ErrUnknownName, cs.Src)
		}
		nsend = ins.Units[cs.SrcIdx].N
	} else {
		cs.SrcIdx = nets.Index(cs.Src)
		if cs.SrcIdx < 0 {
			return 0, fmt.Errorf("%w: network unit %q", ErrUnknownName, cs.Src)
		}
		nsend = nets.Units[cs.SrcIdx].N
	}
	cs.DstIdx = nets.Index(cs.Dst)
	if cs.DstIdx < 0 {
		return 0, fmt.Errorf("%w: network unit %q", ErrUnknownName, cs.Dst)
	}
	return nsend, nil
}

// readBlock fills tsr row by row from the next Dim(0) data lines, each of
// which must hold exactly Dim(1) values.
func readBlock(dl *dataLines, path string, tsr *etensor.Float32) error {
	nrow := tsr.Dim(0)
	ncol := tsr.Dim(1)
	for ri := 0; ri < nrow; ri++ {
		toks, ok := dl.next()
		if !ok {
			if err := dl.scan.Err(); err != nil {
				return &IOError{Op: "read", Path: path, Err: err}
			}
			return lineErr(path, dl.line, fmt.Errorf("%w: got %d rows, want %d", ErrMatrixShapeMismatch, ri, nrow))
		}
		if len(toks) != ncol {
			return lineErr(path, dl.line, fmt.Errorf("%w: row %d has %d values, want %d", ErrMatrixShapeMismatch, ri+1, len(toks), ncol))
		}
		vals, err := lex.Floats(toks)
		if err != nil {
			return lineErr(path, dl.line, fmt.Errorf("%w: row %d: %v", ErrMalformedNumber, ri+1, err))
		}
		copy(tsr.Values[ri*ncol:], vals)
	}
	return nil
}
