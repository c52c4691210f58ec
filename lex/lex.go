// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lex provides the line-level lexer shared by all of the NSAT
parameter file readers: classification of a raw line into blank, comment or
data, whitespace tokenization, and the typed token conversions (bool, int,
float32) with errors that name the offending token.

Comment lines start with a '#' (optionally preceded by whitespace), and a
line containing a '[' is a section header -- both are skipped by readers.
*/
package lex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// MaxLineSize is the longest line a Scanner accepts. Weight rows hold one
// token per destination neuron and easily exceed the bufio default.
const MaxLineSize = math.MaxInt32

// NewScanner returns a line scanner over r that grows its buffer up to
// MaxLineSize.
func NewScanner(r io.Reader) *bufio.Scanner {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	return scan
}

// Class is the classification of a single input line
type Class int

const (
	// Blank is an empty or all-whitespace line
	Blank Class = iota

	// Comment is a '#' comment line or a bracketed section header
	Comment

	// Data is a line holding whitespace-delimited tokens
	Data
)

func (cl Class) String() string {
	switch cl {
	case Blank:
		return "Blank"
	case Comment:
		return "Comment"
	case Data:
		return "Data"
	}
	return "Class(" + strconv.Itoa(int(cl)) + ")"
}

// ErrMalformedNumber is wrapped by every failed token conversion.
var ErrMalformedNumber = errors.New("malformed number")

// NumError records a failed token conversion.
type NumError struct {
	Token string
	Kind  string // "int", "float" or "bool"
}

func (ne *NumError) Error() string {
	return fmt.Sprintf("%v: %q is not a valid %s", ErrMalformedNumber, ne.Token, ne.Kind)
}

func (ne *NumError) Unwrap() error { return ErrMalformedNumber }

// Classify returns the class of given line
func Classify(line string) Class {
	trim := strings.TrimSpace(line)
	switch {
	case trim == "":
		return Blank
	case trim[0] == '#':
		return Comment
	case strings.Contains(line, "["):
		return Comment
	}
	return Data
}

// Fields splits a data line into its whitespace-delimited tokens
func Fields(line string) []string {
	return strings.Fields(line)
}

// Bool converts a case-insensitive "true" / "false" token
func Bool(tok string) (bool, error) {
	switch strings.ToLower(tok) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &NumError{Token: tok, Kind: "bool"}
}

// Int converts a base-10 integer token
func Int(tok string) (int, error) {
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &NumError{Token: tok, Kind: "int"}
	}
	return v, nil
}

// Float32 converts a real-valued token
func Float32(tok string) (float32, error) {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, &NumError{Token: tok, Kind: "float"}
	}
	return float32(v), nil
}

// Floats converts every token to float32, failing on the first bad one
func Floats(toks []string) ([]float32, error) {
	vals := make([]float32, len(toks))
	for i, t := range toks {
		v, err := Float32(t)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
