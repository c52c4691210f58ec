// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nsat

// MonitorSelection lists, in table order, the units whose monitor flag is
// set. Input and network indexes are independent.
type MonitorSelection struct {
	Inputs  []int `desc:"indexes into the input table"`
	Network []int `desc:"indexes into the network table"`
}

// NewMonitorSelection collects the monitored units of both tables
func NewMonitorSelection(ins *InputTable, nets *NetworkTable) MonitorSelection {
	var ms MonitorSelection
	for i := range ins.Units {
		if ins.Units[i].Monitor {
			ms.Inputs = append(ms.Inputs, i)
		}
	}
	for i := range nets.Units {
		if nets.Units[i].Monitor {
			ms.Network = append(ms.Network, i)
		}
	}
	return ms
}

// Len returns the total number of monitored units
func (ms *MonitorSelection) Len() int {
	return len(ms.Inputs) + len(ms.Network)
}

// GroupMonitor is a started monitor and the unit it records
type GroupMonitor struct {
	Unit    string
	IsInput bool
	Mon     SpikeMonitor
}
