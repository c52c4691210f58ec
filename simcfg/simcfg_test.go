// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/emer/nsat/nsat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runFile = `
carlsim:
  name: test_net
  mode: gpu
  logger: silent
  gpu_index: 1
  random_seed: 7
simulation:
  integration: runge_kutta4
  integration_steps: 4
  max_weight: 5
  time_sec: 2
  time_msec: 500
  input_type: periodical
  print_summary: false
  coba: "TRUE"
files:
  spkg: params/spkg.dat
  nsat: params/nsat.dat
  stdp: /abs/stdp.dat
  connections: [params/conn0.dat, params/conn1.dat]
`

func writeRun(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRun(t, runFile)
	cfg, err := Load(path)
	require.NoError(t, err)
	dir := filepath.Dir(path)

	assert.Equal(t, nsat.CarlParams{Name: "test_net", Mode: nsat.GPUMode, Logger: nsat.Silent, GPUIndex: 1, RandomSeed: 7}, cfg.Carl)
	sp := cfg.Sim
	assert.Equal(t, nsat.RungeKutta4, sp.IntMethod)
	assert.Equal(t, 4, sp.IntSteps)
	assert.Equal(t, float32(5), sp.MaxWt)
	assert.Equal(t, 2500, sp.DurationMsec())
	assert.Equal(t, 2, sp.NConns)
	assert.Equal(t, "periodical", sp.InputType)
	assert.False(t, sp.PrintSummary)
	assert.True(t, sp.RemoveTmpMem, "default kept")
	assert.Equal(t, nsat.COBA, sp.Conductances)

	assert.Equal(t, filepath.Join(dir, "params", "spkg.dat"), cfg.Files.Spkg)
	assert.Equal(t, "/abs/stdp.dat", cfg.Files.STDP)
	assert.Equal(t, filepath.Join(dir, "params", "conn1.dat"), cfg.Files.Conns[1])
	assert.Empty(t, cfg.Files.Delays)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load(writeRun(t, "files: {spkg: a.dat, nsat: b.dat}\n"))
	require.NoError(t, err)
	var carl nsat.CarlParams
	carl.Defaults()
	var sim nsat.SimParams
	sim.Defaults()
	assert.Equal(t, carl, cfg.Carl)
	assert.Equal(t, sim, cfg.Sim)
}

func TestCobaFlag(t *testing.T) {
	tests := []struct {
		val  string
		want nsat.ConductanceMode
		ok   bool
	}{
		{"true", nsat.COBA, true},
		{"false", nsat.CUBA, true},
		{`"False"`, nsat.CUBA, true},
		{"yes", 0, false},
		{"1", 0, false},
		{"[true]", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.val, func(t *testing.T) {
			cfg, err := Load(writeRun(t, "simulation:\n  coba: "+tt.val+"\n"))
			if !tt.ok {
				assert.ErrorIs(t, err, nsat.ErrInvalidConductanceFlag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Sim.Conductances)
		})
	}
}

func TestNumConnections(t *testing.T) {
	cfg, err := Load(writeRun(t, "simulation: {num_connections: 1}\nfiles: {connections: [a, b]}\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Sim.NConns)
	assert.Len(t, cfg.Files.Conns, 2)
}

func TestInvalid(t *testing.T) {
	_, err := Load(writeRun(t, "simulation: {integration_steps: 0}\n"))
	assert.ErrorIs(t, err, nsat.ErrInvalidIntegrationConfig)
	_, err = Load(writeRun(t, "simulation: {integration: leapfrog}\n"))
	assert.ErrorIs(t, err, nsat.ErrInvalidIntegrationConfig)
	_, err = Load(writeRun(t, "simulation: {input_type: random}\n"))
	assert.ErrorIs(t, err, nsat.ErrInvalidInputModality)
	_, err = Load(writeRun(t, "carlsim: {mode: tpu}\n"))
	assert.Error(t, err)
	_, err = Load(writeRun(t, "carlsim: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	var ie *nsat.IOError
	assert.ErrorAs(t, err, &ie)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NSAT_SIM_MODE":    "hybrid",
		"NSAT_INPUT_TYPE":  "vectorial",
		"NSAT_RANDOM_SEED": "99",
		"NSAT_GPU_INDEX":   "2",
	}
	rf := Default()
	require.NoError(t, rf.ApplyEnv(func(k string) string { return env[k] }))
	cfg, err := rf.Config()
	require.NoError(t, err)
	assert.Equal(t, nsat.HybridMode, cfg.Carl.Mode)
	assert.Equal(t, "vectorial", cfg.Sim.InputType)
	assert.Equal(t, 99, cfg.Carl.RandomSeed)
	assert.Equal(t, 2, cfg.Carl.GPUIndex)

	env["NSAT_RANDOM_SEED"] = "seven"
	assert.Error(t, Default().ApplyEnv(func(k string) string { return env[k] }))

	t.Setenv("NSAT_INPUT_TYPE", "fromfile")
	cfg, err = Load(writeRun(t, "simulation: {input_type: poisson}\n"))
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Sim.InputType)
}
