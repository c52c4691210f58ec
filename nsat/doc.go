// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nsat configures spiking networks of NSAT neurons on a simulation
engine.

Input units (spike generator groups) and network units (NSAT neuron groups)
are read from whitespace separated parameter files, one unit per line.
Each connection file gives a header naming the source and destination units
and a dense weight matrix, from which a Connx connectivity generator answers
the engine's per-synapse queries: a synapse exists where the weight is non
zero. The optional STDP file assigns plasticity to network units.

Core sequences the engine calls. All files of a phase are read and
validated before the first engine call, and phases must be called in order:

	cr, err := nsat.New(files, carl, sim, open)
	err = cr.Config()  // groups, connections, STDP, conductances, integration
	err = cr.Setup()   // input generators and engine network set up
	status, err := cr.Run()  // monitored run
	err = cr.Cleanup()
	cr.Close()

The Engine interface is the only contact with the simulator. The simeng
package provides a dry run implementation.
*/
package nsat
