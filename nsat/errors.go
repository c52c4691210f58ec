// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"errors"
	"fmt"

	"github.com/emer/nsat/lex"
)

// Error categories. Every kind error below unwraps to exactly one of them,
// so callers can test either the precise kind or the category with errors.Is.
var (
	ErrParse  = errors.New("parse error")
	ErrShape  = errors.New("shape error")
	ErrConfig = errors.New("config error")
	ErrState  = errors.New("state error")
)

// errKind is a sentinel error belonging to a category
type errKind struct {
	msg  string
	cats []error
}

func (ek *errKind) Error() string   { return ek.msg }
func (ek *errKind) Unwrap() []error { return ek.cats }

func newKind(cat error, msg string, alias ...error) error {
	return &errKind{msg: msg, cats: append([]error{cat}, alias...)}
}

// Parse errors
var (
	ErrFieldCount          = newKind(ErrParse, "field count mismatch")
	ErrMalformedNumber     = newKind(ErrParse, "malformed value", lex.ErrMalformedNumber)
	ErrUnknownNeuronType   = newKind(ErrParse, "unknown neuron type")
	ErrUnknownName         = newKind(ErrParse, "unknown group name")
	ErrDuplicateName       = newKind(ErrParse, "duplicate group name")
	ErrInvalidNeuronCount  = newKind(ErrParse, "invalid neuron count")
	ErrMalformedConnHeader = newKind(ErrParse, "malformed connection header")
	ErrInvalidPruneProb    = newKind(ErrParse, "blankout probability out of [0, 1]")
	ErrBadSpikeFile        = newKind(ErrParse, "not a valid spike file")
)

// Shape errors
var (
	ErrMatrixShapeMismatch = newKind(ErrShape, "matrix shape mismatch")
	ErrShapeMismatch       = newKind(ErrShape, "generator shape mismatch")
)

// Config errors
var (
	ErrInvalidCurveKind         = newKind(ErrConfig, "not a valid STDP curve function")
	ErrInvalidPolarity          = newKind(ErrConfig, "wrong group type in STDP parameters")
	ErrMissingPlasticityParams  = newKind(ErrConfig, "missing parameters in STDP parameters")
	ErrInvalidConductanceFlag   = newKind(ErrConfig, "not a valid conductance flag")
	ErrInvalidIntegrationConfig = newKind(ErrConfig, "not a valid integration method")
	ErrInvalidInputModality     = newKind(ErrConfig, "not a valid input type")
	ErrNoGroups                 = newKind(ErrConfig, "not a valid number of neural groups")
	ErrMissingConnFile          = newKind(ErrConfig, "missing connection file")
	ErrMissingSpikeTrains       = newKind(ErrConfig, "missing custom spike trains")
	ErrMissingSpikeFiles        = newKind(ErrConfig, "missing input spike files")
)

// State errors
var (
	ErrPhaseOrder   = newKind(ErrState, "phase called out of order")
	ErrEngineFailed = newKind(ErrState, "engine failed")
)

// FileError locates a parse or shape error in a parameter file.
// Line is 1-based; 0 means the error concerns the file as a whole.
type FileError struct {
	Path string
	Line int
	Err  error
}

func (fe *FileError) Error() string {
	if fe.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", fe.Path, fe.Line, fe.Err)
	}
	return fmt.Sprintf("%s: %v", fe.Path, fe.Err)
}

func (fe *FileError) Unwrap() error { return fe.Err }

// ConnError locates a failure in building connection Index (0-based)
type ConnError struct {
	Index int
	Path  string
	Err   error
}

func (ce *ConnError) Error() string {
	return fmt.Sprintf("connection %d (%s): %v", ce.Index, ce.Path, ce.Err)
}

func (ce *ConnError) Unwrap() error { return ce.Err }

// IOError reports a failure to open or read a file. It is deliberately
// outside of the validation categories.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (ie *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", ie.Op, ie.Path, ie.Err)
}

func (ie *IOError) Unwrap() error { return ie.Err }

// lineErr wraps err with the file / line location
func lineErr(path string, line int, err error) error {
	return &FileError{Path: path, Line: line, Err: err}
}

// numErr converts a lex conversion failure into ErrMalformedNumber with
// the field position.
func numErr(field int, err error) error {
	return fmt.Errorf("%w: field %d: %v", ErrMalformedNumber, field+1, err)
}
