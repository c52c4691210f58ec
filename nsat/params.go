// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

import (
	"fmt"

	"github.com/emer/emergent/params"
)

// ApplyParams applies given parameter style Sheet to every input and network
// unit. Selectors match the type name (InputUnit, NetworkUnit), the .class
// (neuron type name, e.g. .excitatory_neuron) and the #name of a unit, and
// paths address unit fields, e.g. "NetworkUnit.NSAT.Vth" or
// "InputUnit.Spkg.Rate". Unit parameters are handed to the engine during
// Config, so this must be called before it.
// If setMsg is true, then a message is printed to confirm each parameter that is set.
// Returns true if any params were set, and error if there were any errors.
func (cr *Core) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	if err := cr.require(Unconfigured, "ApplyParams"); err != nil {
		return false, err
	}
	applied := false
	var rerr error
	for i := range cr.Inputs.Units {
		app, err := pars.Apply(&cr.Inputs.Units[i], setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	for i := range cr.Network.Units {
		app, err := pars.Apply(&cr.Network.Units[i], setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// SetParamsSet applies the "Network" sheet of the named params.Set to the
// units, as ApplyParams.
func (cr *Core) SetParamsSet(sets params.Sets, setNm string, setMsg bool) error {
	pset, err := sets.SetByNameTry(setNm)
	if err != nil {
		return err
	}
	netp, ok := pset.Sheets["Network"]
	if !ok {
		return fmt.Errorf("nsat: params set %q has no Network sheet", setNm)
	}
	_, err = cr.ApplyParams(netp, setMsg)
	return err
}
