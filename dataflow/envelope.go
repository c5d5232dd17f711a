package dataflow

import "time"

// Envelope is the message shape flowing between nodes: an ordered mapping
// of string keys to arbitrary values (spec §3). Go maps don't preserve
// insertion order, but every consumer in this codebase only ever looks up
// keys by name, never iterates positionally, so a plain map satisfies the
// contract in practice; ordering only matters for the wire encoding, and
// MessagePack map encoding doesn't guarantee key order either.
type Envelope map[string]interface{}

// MetaKey is the envelope key under which sources stamp identity/location
// metadata.
const MetaKey = "meta"

// Meta is the sub-mapping sources attach under Envelope[MetaKey].
type Meta struct {
	AgentID   string  `msgpack:"agent_id" json:"agent_id"`
	Longitude float64 `msgpack:"longitude" json:"longitude"`
	Latitude  float64 `msgpack:"latitude" json:"latitude"`
	Timestamp int64   `msgpack:"timestamp" json:"timestamp"`
}

// asMap renders Meta the way it needs to appear inside an Envelope (a plain
// map, so it round-trips identically whether the envelope originated here
// or was decoded off the wire).
func (m Meta) asMap() map[string]interface{} {
	return map[string]interface{}{
		"agent_id":  m.AgentID,
		"longitude": m.Longitude,
		"latitude":  m.Latitude,
		"timestamp": m.Timestamp,
	}
}

// HasMeta reports whether env already carries a meta sub-mapping, used by
// sources to implement idempotent stamping (spec §8: "stamping is
// idempotent").
func (env Envelope) HasMeta() bool {
	_, ok := env[MetaKey]
	return ok
}

// Identity is the agent-identity/location context every source node needs
// in order to stamp envelopes it emits (spec §3, "agent identity"). It is
// supplied to node constructors via the GraphBuilder's scheduler-context
// handle (spec §4.4).
type Identity struct {
	AgentID   string
	Longitude float64
	Latitude  float64
}

// Stamp attaches meta to env in place if env doesn't already carry one.
func (id Identity) Stamp(env Envelope, now time.Time) {
	if env.HasMeta() {
		return
	}
	env[MetaKey] = Meta{
		AgentID:   id.AgentID,
		Longitude: id.Longitude,
		Latitude:  id.Latitude,
		Timestamp: now.Unix(),
	}.asMap()
}
