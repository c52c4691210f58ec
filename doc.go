// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package nsat is the overall repository for the NSAT network configuration
and connectivity pipeline, which loads spiking network descriptions from
parameter files and drives a simulation engine through its configuration,
setup, run and cleanup phases.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* nsat: the core: unit tables, connection files and the connectivity
generator, STDP requests, input drivers and spike generators, and the Core
lifecycle state machine that sequences all engine calls.

* lex: the line-level lexer shared by all parameter file readers.

* simeng: an in-process dry run engine implementing the nsat.Engine
contract, with synapse instantiation and input spike generation but no
neuron dynamics.

* simcfg: loading of YAML run files into the nsat configuration parameters.

* examples: runnable programs -- simple_net runs a small network end to end.
*/
package nsat
