// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStdpCurves(t *testing.T) {
	tests := []struct {
		line  string
		curve StdpCurve
	}{
		{"g E standard 0 true 1 2 3 4 5 6 7 8 9", ExpCurve{AlphaPlus: 1, TauPlus: 2, AlphaMinus: -3, TauMinus: 4}},
		{"g E standard 1 true 1 2 3 4 5 6 7 8 9", TimingCurve{AlphaPlus: 1, TauPlus: 2, AlphaMinus: -3, TauMinus: 4, Gamma: 9}},
		{"g I standard 0 true 1 2 3 4 5 6 7 8 9", ExpCurve{AlphaPlus: -1, TauPlus: 2, AlphaMinus: 3, TauMinus: 4}},
		{"g I standard 1 true 1 2 3 4 5 6 7 8 9", PulseCurve{BetaLTP: 5, BetaLTD: 6, Lambda: 7, Delta: 8}},
	}
	for _, tt := range tests {
		sp, err := ParseStdpRecord(strings.Fields(tt.line))
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.curve, sp.Curve, tt.line)
		assert.True(t, sp.Enabled)
		assert.Equal(t, Standard, sp.Rule)
	}
}

func TestParseStdpErrors(t *testing.T) {
	tests := []struct {
		line string
		kind error
	}{
		{"g E standard 2 true 1 2 3 4 5 6 7 8 9", ErrInvalidCurveKind},
		{"g E standard -1 true 1 2 3 4 5 6 7 8 9", ErrInvalidCurveKind},
		{"g X standard 0 true 1 2 3 4 5 6 7 8 9", ErrInvalidPolarity},
		{"g E standard 0 true 1 2 3 4 5 6 7 8", ErrMissingPlasticityParams},
		{"g E standard 0 yes 1 2 3 4 5 6 7 8 9", ErrMalformedNumber},
		{"g E standard 0 true 1 2 3 4 5 6 7 8 nine", ErrMalformedNumber},
	}
	for _, tt := range tests {
		_, err := ParseStdpRecord(strings.Fields(tt.line))
		assert.ErrorIs(t, err, tt.kind, tt.line)
	}
	_, err := ParseStdpRecord(strings.Fields("g E standard 2 true 1 2 3 4 5 6 7 8 9"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestReadStdpSpecs(t *testing.T) {
	_, nets := testTables(t)
	dir := t.TempDir()
	sps, err := ReadStdpSpecs(writeFile(t, dir, "stdp.dat", testStdp), nets)
	require.NoError(t, err)
	require.Len(t, sps, 2)
	assert.Equal(t, 0, sps[0].GroupIdx)
	assert.Equal(t, Excitatory, sps[0].Polarity)
	assert.Equal(t, 1, sps[1].GroupIdx)
	assert.Equal(t, Inhibitory, sps[1].Polarity)
	assert.Equal(t, DAMod, sps[1].Rule)
	assert.False(t, sps[1].Enabled)

	_, err = ReadStdpSpecs(writeFile(t, dir, "bad.dat", "# c\nn9 E standard 0 true 1 2 3 4 5 6 7 8 9\n"), nets)
	assert.ErrorIs(t, err, ErrUnknownName)
	assert.Contains(t, err.Error(), "bad.dat:2:")

	sps, err = ReadStdpSpecs("", nets)
	assert.NoError(t, err)
	assert.Empty(t, sps)
}
