// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"
	"os"

	"github.com/emer/nsat/lex"
)

// RecordParser parses one tokenized data line of a unit parameter file
// into the table that implements it.
type RecordParser interface {
	// NFields is the exact number of tokens each data line must have
	NFields() int

	// ParseRecord converts and appends one record. Errors carry no
	// location -- LoadUnits adds the file and line.
	ParseRecord(toks []string) error
}

// LoadUnits reads every data line of the file at path into rp, skipping
// blank and comment lines. It returns the number of lines read.
// Field count and parse errors are returned as *FileError with the
// 1-based line number, open / read failures as *IOError.
func LoadUnits(path string, rp RecordParser) (int, error) {
	fp, err := os.Open(path)
	if err != nil {
		return 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	nf := rp.NFields()
	nln := 0
	scan := lex.NewScanner(fp)
	for scan.Scan() {
		nln++
		line := scan.Text()
		if lex.Classify(line) != lex.Data {
			continue
		}
		toks := lex.Fields(line)
		if len(toks) != nf {
			return nln, lineErr(path, nln, fmt.Errorf("%w: got %d fields, want %d", ErrFieldCount, len(toks), nf))
		}
		if err := rp.ParseRecord(toks); err != nil {
			return nln, lineErr(path, nln, err)
		}
	}
	if err := scan.Err(); err != nil {
		return nln, &IOError{Op: "read", Path: path, Err: err}
	}
	return nln, nil
}

// parseHead converts the name / count / type fields shared by both unit kinds
func parseHead(toks []string) (string, int, NeuronType, error) {
	n, err := lex.Int(toks[1])
	if err != nil {
		return "", 0, 0, numErr(1, err)
	}
	if n <= 0 {
		return "", 0, 0, fmt.Errorf("%w: %d neurons in %q", ErrInvalidNeuronCount, n, toks[0])
	}
	typ := ParseNeuronType(toks[2])
	if typ == UnknownNeuron {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrUnknownNeuronType, toks[2])
	}
	return toks[0], n, typ, nil
}

// floatFields converts toks[idx] for each given index, in order
func floatFields(toks []string, idxs ...int) ([]float32, error) {
	vals := make([]float32, len(idxs))
	for i, ti := range idxs {
		v, err := lex.Float32(toks[ti])
		if err != nil {
			return nil, numErr(ti, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// boolFields converts toks[idx] for each given index, in order
func boolFields(toks []string, idxs ...int) ([]bool, error) {
	vals := make([]bool, len(idxs))
	for i, ti := range idxs {
		v, err := lex.Bool(toks[ti])
		if err != nil {
			return nil, numErr(ti, err)
		}
		vals[i] = v
	}
	return vals, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  InputTable

// InputFields is the number of fields in an input unit record:
// name, neurons, type, on_gpu, rate, freq, spike_at_zero, monitor
const InputFields = 8

// InputTable is the ordered collection of input units, in load order
type InputTable struct {
	Units []InputUnit
	idx   map[string]int
}

func (it *InputTable) NFields() int { return InputFields }

func (it *InputTable) ParseRecord(toks []string) error {
	nm, n, typ, err := parseHead(toks)
	if err != nil {
		return err
	}
	fl, err := floatFields(toks, 4, 5)
	if err != nil {
		return err
	}
	bl, err := boolFields(toks, 3, 6, 7)
	if err != nil {
		return err
	}
	return it.Add(InputUnit{
		Nm:      nm,
		N:       n,
		Type:    typ,
		Monitor: bl[2],
		ID:      -1,
		Spkg:    SpkgParams{Rate: fl[0], Freq: fl[1], SpikeAtZero: bl[1], OnGPU: bl[0]},
	})
}

// Add appends a unit, failing on a duplicate name
func (it *InputTable) Add(iu InputUnit) error {
	if it.idx == nil {
		it.idx = make(map[string]int)
	}
	if _, has := it.idx[iu.Nm]; has {
		return fmt.Errorf("%w: %q", ErrDuplicateName, iu.Nm)
	}
	it.idx[iu.Nm] = len(it.Units)
	it.Units = append(it.Units, iu)
	return nil
}

// Len returns the number of units
func (it *InputTable) Len() int { return len(it.Units) }

// Index returns the position of the named unit, or -1
func (it *InputTable) Index(name string) int {
	if i, has := it.idx[name]; has {
		return i
	}
	return -1
}

// Names returns unit names in load order
func (it *InputTable) Names() []string {
	nms := make([]string, len(it.Units))
	for i := range it.Units {
		nms[i] = it.Units[i].Nm
	}
	return nms
}

// LoadInputUnits loads an input unit parameter file into a new table.
// Nothing is returned on failure.
func LoadInputUnits(path string) (*InputTable, int, error) {
	it := &InputTable{}
	nln, err := LoadUnits(path, it)
	if err != nil {
		return nil, nln, err
	}
	return it, nln, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  NetworkTable

// NetworkFields is the number of fields in a network unit record:
// name, neurons, type, alpha, beta, sigma, v_th, v_reset, b, tau_ref,
// alphaS, monitor
const NetworkFields = 12

// NetworkTable is the ordered collection of NSAT units, in load order
type NetworkTable struct {
	Units []NetworkUnit
	idx   map[string]int
}

func (nt *NetworkTable) NFields() int { return NetworkFields }

func (nt *NetworkTable) ParseRecord(toks []string) error {
	nm, n, typ, err := parseHead(toks)
	if err != nil {
		return err
	}
	fl, err := floatFields(toks, 3, 4, 5, 6, 7, 8, 10)
	if err != nil {
		return err
	}
	ref, err := lex.Int(toks[9])
	if err != nil {
		return numErr(9, err)
	}
	mon, err := lex.Bool(toks[11])
	if err != nil {
		return numErr(11, err)
	}
	return nt.Add(NetworkUnit{
		Nm:      nm,
		N:       n,
		Type:    typ,
		Monitor: mon,
		ID:      -1,
		NSAT: NSATParams{
			Alpha:  fl[0],
			Beta:   fl[1],
			Sigma:  fl[2],
			Vth:    fl[3],
			Vreset: fl[4],
			B:      fl[5],
			TauRef: ref,
			AlphaS: fl[6],
		},
	})
}

// Add appends a unit, failing on a duplicate name
func (nt *NetworkTable) Add(nu NetworkUnit) error {
	if nt.idx == nil {
		nt.idx = make(map[string]int)
	}
	if _, has := nt.idx[nu.Nm]; has {
		return fmt.Errorf("%w: %q", ErrDuplicateName, nu.Nm)
	}
	nt.idx[nu.Nm] = len(nt.Units)
	nt.Units = append(nt.Units, nu)
	return nil
}

// Len returns the number of units
func (nt *NetworkTable) Len() int { return len(nt.Units) }

// Index returns the position of the named unit, or -1
func (nt *NetworkTable) Index(name string) int {
	if i, has := nt.idx[name]; has {
		return i
	}
	return -1
}

// Names returns unit names in load order
func (nt *NetworkTable) Names() []string {
	nms := make([]string, len(nt.Units))
	for i := range nt.Units {
		nms[i] = nt.Units[i].Nm
	}
	return nms
}

// LoadNetworkUnits loads an NSAT unit parameter file into a new table.
// Nothing is returned on failure.
func LoadNetworkUnits(path string) (*NetworkTable, int, error) {
	nt := &NetworkTable{}
	nln, err := LoadUnits(path, nt)
	if err != nil {
		return nil, nln, err
	}
	return nt, nln, nil
}
