// Package nodes implements the builtin node types spec's SPEC_FULL.md §1
// lists, registered against registry.Default by RegisterAll.
package nodes

import "encoding/json"

// decodeArgs maps a node's args (spec §4.4: "mapping, optional") onto a
// typed options struct via a JSON round-trip — the simplest way to turn an
// arbitrary map[string]interface{} into a concrete Go type without a
// dedicated decoding library; no example in the retrieved corpus directly
// imports a generic map-to-struct decoder (see DESIGN.md).
func decodeArgs(args map[string]interface{}, out interface{}) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
