// Package overlay implements the optional per-edge live-traffic override
// with a freshness deadline (spec §4.4). It follows the same dense,
// index-addressed storage idiom as graphrt and profile rather than a map,
// since edge ids are already a dense [0, M) range.
package overlay

import "math"

// State is the live state of an edge.
type State uint8

const (
	// StateMissing is returned when no entry exists or it has expired.
	StateMissing State = iota
	// StateOK indicates a fresh, speed-factor override.
	StateOK
	// StateBlocked indicates the edge is currently impassable.
	StateBlocked
)

// Lookup is the {state, speed_factor, live_penalty_multiplier} result of a
// live-overlay query (spec §4.4). LivePenalty is always >= 1.0 or +Inf, a
// contract the cost engine enforces.
type Lookup struct {
	State       State
	SpeedFactor float64
	LivePenalty float64
}

var missingLookup = Lookup{State: StateMissing, SpeedFactor: 1.0, LivePenalty: 1.0}

// RawEntry is one {edge_id, state, speed_factor, valid_until_tick}
// live-traffic definition (spec §3), supplied per session rather than
// carried in the static artifact.
type RawEntry struct {
	EdgeID         int32
	Blocked        bool
	SpeedFactor    float64
	ValidUntilTick int64
}

// entry is the internal per-edge overlay record.
type entry struct {
	present        bool
	blocked        bool
	speedFactor    float64
	validUntilTick int64
}

// Overlay is the dense, edge-indexed live-overlay table.
type Overlay struct {
	entries []entry
}

// Build constructs an Overlay sized to edgeCount from raw entries. Later
// entries for the same edge id overwrite earlier ones, mirroring the
// turn-cost map's "last definition wins" contract.
func Build(edgeCount int, raws []RawEntry) *Overlay {
	o := &Overlay{entries: make([]entry, edgeCount)}
	for _, r := range raws {
		if int(r.EdgeID) < 0 || int(r.EdgeID) >= edgeCount {
			continue
		}
		o.entries[r.EdgeID] = entry{
			present:        true,
			blocked:        r.Blocked,
			speedFactor:    r.SpeedFactor,
			validUntilTick: r.ValidUntilTick,
		}
	}
	return o
}

// Lookup resolves the live state of edge at now_ticks (spec §4.4):
//   - missing or expired (now > valid_until) → {MISSING, 1.0, 1.0}
//   - blocked → {BLOCKED, 0.0, +Inf}
//   - OK with speed_factor > 0 → {OK, speed_factor, 1/speed_factor}
func (o *Overlay) Lookup(edgeID int32, nowTicks int64) Lookup {
	if o == nil || int(edgeID) < 0 || int(edgeID) >= len(o.entries) {
		return missingLookup
	}
	e := o.entries[edgeID]
	if !e.present || nowTicks > e.validUntilTick {
		return missingLookup
	}
	if e.blocked {
		return Lookup{State: StateBlocked, SpeedFactor: 0.0, LivePenalty: math.Inf(1)}
	}
	if e.speedFactor > 0 {
		return Lookup{State: StateOK, SpeedFactor: e.speedFactor, LivePenalty: 1.0 / e.speedFactor}
	}
	return missingLookup
}
