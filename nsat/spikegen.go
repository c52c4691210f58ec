// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chewxy/math32"
)

//////////////////////////////////////////////////////////////////////////////////////
//  PoissonRate

// PoissonRate holds the per-neuron mean rates (Hz) of a Poisson input group
type PoissonRate struct {
	OnGPU bool      `desc:"rates live in device memory"`
	Rates []float32 `desc:"mean rate per neuron, in Hz"`
}

// NewPoissonRate returns zero rates for n neurons
func NewPoissonRate(n int, onGPU bool) *PoissonRate {
	return &PoissonRate{OnGPU: onGPU, Rates: make([]float32, n)}
}

// SetRates sets all neurons to the same rate
func (pr *PoissonRate) SetRates(rate float32) {
	for i := range pr.Rates {
		pr.Rates[i] = rate
	}
}

// N returns the number of neurons
func (pr *PoissonRate) N() int { return len(pr.Rates) }

//////////////////////////////////////////////////////////////////////////////////////
//  PeriodicGen

// PeriodicGen fires every neuron at a fixed frequency
type PeriodicGen struct {
	Freq        float32 `desc:"frequency in Hz; <= 0 never fires"`
	SpikeAtZero bool    `desc:"the first spike is at t = 0, else at one period"`
}

// ISI returns the inter-spike interval in ms
func (pg *PeriodicGen) ISI() float32 {
	return 1000 / pg.Freq
}

func (pg *PeriodicGen) spikeTime(k int) int {
	return int(math32.Round(float32(k) * pg.ISI()))
}

func (pg *PeriodicGen) NextSpikeTime(nid, last, end int) int {
	if pg.Freq <= 0 {
		return NoSpike
	}
	k := 1
	if pg.SpikeAtZero {
		k = 0
	}
	if last >= 0 {
		if lk := int(float32(last) / pg.ISI()); lk > k {
			k = lk
		}
	}
	t := pg.spikeTime(k)
	for t <= last {
		k++
		t = pg.spikeTime(k)
	}
	if t >= end {
		return NoSpike
	}
	return t
}

//////////////////////////////////////////////////////////////////////////////////////
//  VectorGen

// VectorGen replays one spike train, in ms, on every neuron of its group
type VectorGen struct {
	Times []int `desc:"sorted spike times in ms"`
}

// NewVectorGen returns a generator for a copy of the given train
func NewVectorGen(train []int) *VectorGen {
	tms := make([]int, len(train))
	copy(tms, train)
	sort.Ints(tms)
	return &VectorGen{Times: tms}
}

func (vg *VectorGen) NextSpikeTime(nid, last, end int) int {
	return nextAfter(vg.Times, last, end)
}

// nextAfter returns the first of the sorted times that is > last and < end
func nextAfter(times []int, last, end int) int {
	i := sort.SearchInts(times, last+1)
	if i >= len(times) || times[i] >= end {
		return NoSpike
	}
	return times[i]
}

//////////////////////////////////////////////////////////////////////////////////////
//  FileGen

// SpikeFileSig is the signature that starts a binary spike file
const SpikeFileSig int32 = 206661989

// SpikeFileVersion is the version written by WriteSpikeFile
const SpikeFileVersion float32 = 0.2

// SpikeEvent is one recorded spike
type SpikeEvent struct {
	Time int32
	NID  int32
}

// FileGen replays the spikes recorded in a binary spike file
type FileGen struct {
	Path  string        `desc:"file the spikes were loaded from"`
	Grid  Grid3D        `desc:"group layout recorded in the file header"`
	Times map[int][]int `desc:"sorted spike times per neuron id"`
}

// LoadSpikeFile reads a little endian spike file: int32 signature, float32
// version, three int32 grid dims, then (int32 time, int32 neuron id) pairs
// until end of file.
func LoadSpikeFile(path string) (*FileGen, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer fp.Close()

	rd := bufio.NewReader(fp)
	var hdr struct {
		Sig     int32
		Version float32
		X, Y, Z int32
	}
	if err := binary.Read(rd, binary.LittleEndian, &hdr); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, lineErr(path, 0, fmt.Errorf("%w: short header", ErrBadSpikeFile))
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	if hdr.Sig != SpikeFileSig {
		return nil, lineErr(path, 0, fmt.Errorf("%w: signature %d, want %d", ErrBadSpikeFile, hdr.Sig, SpikeFileSig))
	}
	fg := &FileGen{Path: path, Grid: Grid3D{int(hdr.X), int(hdr.Y), int(hdr.Z)}, Times: make(map[int][]int)}
	for {
		var ev SpikeEvent
		err := binary.Read(rd, binary.LittleEndian, &ev)
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, lineErr(path, 0, fmt.Errorf("%w: truncated spike record", ErrBadSpikeFile))
		}
		if err != nil {
			return nil, &IOError{Op: "read", Path: path, Err: err}
		}
		fg.Times[int(ev.NID)] = append(fg.Times[int(ev.NID)], int(ev.Time))
	}
	for _, tms := range fg.Times {
		sort.Ints(tms)
	}
	return fg, nil
}

// WriteSpikeFile writes events in the format read by LoadSpikeFile
func WriteSpikeFile(path string, grid Grid3D, evs []SpikeEvent) error {
	fp, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	wr := bufio.NewWriter(fp)
	hdr := []any{SpikeFileSig, SpikeFileVersion, int32(grid.X), int32(grid.Y), int32(grid.Z)}
	for _, v := range hdr {
		if err := binary.Write(wr, binary.LittleEndian, v); err != nil {
			fp.Close()
			return &IOError{Op: "write", Path: path, Err: err}
		}
	}
	if err := binary.Write(wr, binary.LittleEndian, evs); err != nil {
		fp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := wr.Flush(); err != nil {
		fp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := fp.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// NumSpikes returns the total number of spikes in the file
func (fg *FileGen) NumSpikes() int {
	n := 0
	for _, tms := range fg.Times {
		n += len(tms)
	}
	return n
}

func (fg *FileGen) NextSpikeTime(nid, last, end int) int {
	return nextAfter(fg.Times[nid], last, end)
}
