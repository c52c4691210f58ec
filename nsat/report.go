// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/goki/ki/indent"
	"github.com/goki/ki/ints"
)

// SizeReport returns a string reporting the size of each unit and
// connection, with the memory held for the connection matrices.
func (cr *Core) SizeReport() string {
	var b strings.Builder
	neur := 0
	for i := range cr.Inputs.Units {
		iu := &cr.Inputs.Units[i]
		neur += iu.N
		fmt.Fprintf(&b, "%14s:\t Input Neurons: %d\t Type: %v\n", iu.Nm, iu.N, iu.Type)
	}
	for i := range cr.Network.Units {
		nu := &cr.Network.Units[i]
		neur += nu.N
		fmt.Fprintf(&b, "%14s:\t NSAT Neurons: %d\t Type: %v\n", nu.Nm, nu.N, nu.Type)
	}
	syn := 0
	synMem := 0
	for _, cx := range cr.Connxs {
		ns := cx.NConnected()
		cmem := (len(cx.Wts.Values) + len(cx.Dlys.Values)) * int(unsafe.Sizeof(float32(0)))
		syn += ns
		synMem += cmem
		fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t MatMem: %v\n", cx.Name(), ns, (datasize.ByteSize)(cmem).HumanReadable())
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t Syns: %d \t MatMem: %v\n", cr.Nm, neur, syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// UnitsReport lists all units with their engine ids and monitor flags
func (cr *Core) UnitsReport() string {
	wd := 0
	for _, nm := range cr.Inputs.Names() {
		wd = ints.MaxInt(wd, len(nm))
	}
	for _, nm := range cr.Network.Names() {
		wd = ints.MaxInt(wd, len(nm))
	}
	var b strings.Builder
	b.WriteString("Input Units:\n")
	for i := range cr.Inputs.Units {
		iu := &cr.Inputs.Units[i]
		fmt.Fprintf(&b, "%s%-*s id: %d\t n: %d\t rate: %g\t freq: %g\t mon: %v\n", indent.TabBytes(1), wd, iu.Nm, iu.ID, iu.N, iu.Spkg.Rate, iu.Spkg.Freq, iu.Monitor)
	}
	b.WriteString("Network Units:\n")
	for i := range cr.Network.Units {
		nu := &cr.Network.Units[i]
		fmt.Fprintf(&b, "%s%-*s id: %d\t n: %d\t vth: %g\t tau_ref: %d\t mon: %v\n", indent.TabBytes(1), wd, nu.Nm, nu.ID, nu.N, nu.NSAT.Vth, nu.NSAT.TauRef, nu.Monitor)
	}
	return b.String()
}
