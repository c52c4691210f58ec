// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"strings"

	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////////////
//  Phase

// Phase is the lifecycle state of a Core. Phases only ever advance.
type Phase int32

//go:generate stringer -type=Phase

var KiT_Phase = kit.Enums.AddEnum(PhaseN, kit.NotBitFlag, nil)

const (
	// Unconfigured is the state after New: unit tables loaded, engine open
	Unconfigured Phase = iota

	// Configured means groups, connections, STDP, conductances and
	// integration method have all been handed to the engine
	Configured

	// SetUp means inputs are attached and the engine network is built
	SetUp

	// Ran means the monitored run has completed
	Ran

	// CleanedUp means all handle arrays have been released
	CleanedUp

	PhaseN
)

//////////////////////////////////////////////////////////////////////////////////////
//  STDP

// StdpType is the plasticity rule kind selected in the STDP file
type StdpType int32

//go:generate stringer -type=StdpType

var KiT_StdpType = kit.Enums.AddEnum(StdpTypeN, kit.NotBitFlag, nil)

const (
	// Standard is plain spike-timing dependent plasticity
	Standard StdpType = iota

	// DAMod is dopamine-modulated STDP
	DAMod

	// UnknownStdp is returned for any unrecognized rule name
	UnknownStdp

	StdpTypeN
)

// ParseStdpType maps "standard" and "da_mod" (case-insensitive) to their
// rule kind, and anything else to UnknownStdp.
func ParseStdpType(s string) StdpType {
	switch strings.ToLower(s) {
	case "standard":
		return Standard
	case "da_mod":
		return DAMod
	}
	return UnknownStdp
}

// CurveKind selects the STDP curve family: 0 = exponential, 1 = timing-based
// (excitatory) or pulse (inhibitory).
type CurveKind int32

//go:generate stringer -type=CurveKind

var KiT_CurveKind = kit.Enums.AddEnum(CurveKindN, kit.NotBitFlag, nil)

const (
	CurveExp CurveKind = iota
	CurveTiming
	CurveKindN
)

// Polarity is the E / I tag of an STDP record
type Polarity int32

//go:generate stringer -type=Polarity

var KiT_Polarity = kit.Enums.AddEnum(PolarityN, kit.NotBitFlag, nil)

const (
	Excitatory Polarity = iota
	Inhibitory
	PolarityN
)

//////////////////////////////////////////////////////////////////////////////////////
//  Simulation enums

// InputModality is the way input units are driven during a run
type InputModality int32

//go:generate stringer -type=InputModality

var KiT_InputModality = kit.Enums.AddEnum(InputModalityN, kit.NotBitFlag, nil)

const (
	// Poisson drives each input unit with a PoissonRate at its configured rate
	Poisson InputModality = iota

	// Periodical drives each input unit with a periodic generator at its frequency
	Periodical

	// Vectorial replays spike trains injected with InitCustomInput
	Vectorial

	// FromFile replays spike files named in FileNames.InputSpikes
	FromFile

	InputModalityN
)

// ParseInputModality parses the case-insensitive modality tag used in
// SimParams.InputType ("poisson", "periodical", "vectorial", "fromfile").
func ParseInputModality(s string) (InputModality, bool) {
	return parseFold(s, InputModalityN)
}

// IntegrationMethod is the numerical scheme used by the engine
type IntegrationMethod int32

//go:generate stringer -type=IntegrationMethod

var KiT_IntegrationMethod = kit.Enums.AddEnum(IntegrationMethodN, kit.NotBitFlag, nil)

const (
	ForwardEuler IntegrationMethod = iota
	RungeKutta4
	IntegrationMethodN
)

// ParseIntegrationMethod accepts e.g. "ForwardEuler", "forward_euler", "runge_kutta4"
func ParseIntegrationMethod(s string) (IntegrationMethod, bool) {
	return parseFold(s, IntegrationMethodN)
}

// SimMode is the engine execution mode
type SimMode int32

//go:generate stringer -type=SimMode

var KiT_SimMode = kit.Enums.AddEnum(SimModeN, kit.NotBitFlag, nil)

const (
	CPUMode SimMode = iota
	GPUMode
	HybridMode
	SimModeN
)

// ParseSimMode accepts "cpu", "gpu", "hybrid" or the full constant names
func ParseSimMode(s string) (SimMode, bool) {
	if m, ok := parseFold(s, SimModeN); ok {
		return m, true
	}
	return parseFold(s+"mode", SimModeN)
}

// LoggerMode is the engine logging mode
type LoggerMode int32

//go:generate stringer -type=LoggerMode

var KiT_LoggerMode = kit.Enums.AddEnum(LoggerModeN, kit.NotBitFlag, nil)

const (
	User LoggerMode = iota
	Developer
	Showtime
	Silent
	Custom
	LoggerModeN
)

// ParseLoggerMode parses a case-insensitive logger mode name
func ParseLoggerMode(s string) (LoggerMode, bool) {
	return parseFold(s, LoggerModeN)
}

// ConductanceMode selects conductance-based (COBA) or current-based (CUBA)
// synapses. It is a closed two-valued type: values outside [CUBA, COBA]
// can only come from untyped callers and are rejected by Config.
type ConductanceMode int32

//go:generate stringer -type=ConductanceMode

var KiT_ConductanceMode = kit.Enums.AddEnum(ConductanceModeN, kit.NotBitFlag, nil)

const (
	CUBA ConductanceMode = iota
	COBA
	ConductanceModeN
)

// ConductanceFromBool returns COBA for true and CUBA for false
func ConductanceFromBool(coba bool) ConductanceMode {
	if coba {
		return COBA
	}
	return CUBA
}

type enumType interface {
	~int32
	String() string
}

// parseFold matches s against the names of all values below n, ignoring
// case and underscores.
func parseFold[T enumType](s string, n T) (T, bool) {
	key := strings.ReplaceAll(s, "_", "")
	for v := T(0); v < n; v++ {
		if strings.EqualFold(key, v.String()) {
			return v, true
		}
	}
	return 0, false
}
