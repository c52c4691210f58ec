// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSpkg = `# name n type on_gpu rate freq spk_at_zero monitor
[input units]
in1 5 poisson_neuron false 10.0 20.0 true true

in2 5 poisson_neuron false 5.0 10.0 false false
`

const testNSAT = `# name n type alpha beta sigma vth vreset b tau_ref alphaS monitor
n1 3 excitatory_neuron 0.9 1.0 0.0 1.0 0.0 0.0 2 0.1 true
n2 2 inhibitory_neuron 0.8 1.0 0.0 1.0 0.0 0.0 1 0.0 false
`

const testConnOnes = `in1 n1 true 1.0
1 1 1
1 1 1
1 1 1
1 1 1
1 1 1
`

const testStdp = `# group pol rule curve use aP tP aM tM bLTP bLTD lambda delta gamma
n1 E standard 0 true 0.1 20 0.12 20 1 2 3 4 5
n2 I da_mod 1 false 0.1 20 0.12 20 1 2 3 4 5
`

// writeFile writes content to name in dir and returns the path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testFiles writes the standard fixture set and returns its file names
func testFiles(t *testing.T) FileNames {
	t.Helper()
	dir := t.TempDir()
	return FileNames{
		Spkg:  writeFile(t, dir, "spkg.dat", testSpkg),
		NSAT:  writeFile(t, dir, "nsat.dat", testNSAT),
		STDP:  writeFile(t, dir, "stdp.dat", testStdp),
		Conns: []string{writeFile(t, dir, "conn0.dat", testConnOnes)},
	}
}

func testParams() (CarlParams, SimParams) {
	var carl CarlParams
	carl.Defaults()
	carl.Logger = Silent
	var sim SimParams
	sim.Defaults()
	sim.NConns = 1
	return carl, sim
}
