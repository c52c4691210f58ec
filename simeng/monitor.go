// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simeng

import (
	"log"

	"github.com/emer/nsat/nsat"
)

// Monitor records the spikes of one group. A monitor file name other than
// "", "NULL" or nsat.MonitorDefault receives the recorded spikes in the
// binary spike file format when recording stops.
type Monitor struct {
	Group     *Group
	FName     string
	Recording bool
	Spikes    []nsat.SpikeEvent
}

func (sm *Monitor) StartRecording() {
	sm.Recording = true
}

func (sm *Monitor) StopRecording() {
	if !sm.Recording {
		return
	}
	sm.Recording = false
	switch sm.FName {
	case "", "NULL", nsat.MonitorDefault:
		return
	}
	if err := nsat.WriteSpikeFile(sm.FName, sm.Group.Grid, sm.Spikes); err != nil {
		log.Println(err)
	}
}

func (sm *Monitor) NumSpikes() int { return len(sm.Spikes) }
