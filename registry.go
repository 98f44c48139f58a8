package hexwar40k

import (
	"encoding/json"
	"fmt"
)

// requiredStatFields lists every uppercase stat key spec.md §3/§6
// requires a registry entry to carry; a missing key is a
// configuration error, fatal at load time, never recoverable at
// runtime (spec.md §7 class 1).
var requiredStatFields = []string{
	"HP_MAX", "MOVE", "T", "ARMOR_SAVE", "INVUL_SAVE",
	"RNG_NB", "RNG_RNG", "RNG_ATK", "RNG_STR", "RNG_AP", "RNG_DMG",
	"CC_NB", "CC_RNG", "CC_ATK", "CC_STR", "CC_AP", "CC_DMG",
	"OC", "LD", "VALUE",
}

// Registry maps a unit_type name to its immutable stat block.
type Registry map[string]Stats

// LoadRegistry parses and validates a unit registry document. Every
// archetype must carry all of requiredStatFields; the first missing
// field anywhere in the document is a fatal ConfigError.
func LoadRegistry(data []byte) (Registry, error) {
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("unit registry: invalid JSON: %v", err)}
	}
	reg := make(Registry, len(raw))
	for unitType, fields := range raw {
		for _, req := range requiredStatFields {
			if _, ok := fields[req]; !ok {
				return nil, &ConfigError{Reason: fmt.Sprintf("unit registry: unit_type %q missing required field %q", unitType, req)}
			}
		}
		blob, err := json.Marshal(fields)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("unit registry: unit_type %q: %v", unitType, err)}
		}
		var stats Stats
		if err := json.Unmarshal(blob, &stats); err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("unit registry: unit_type %q: %v", unitType, err)}
		}
		reg[unitType] = stats
	}
	return reg, nil
}

// Resolve looks up unitType, returning a ConfigError tagged as
// "unknown_unit_type" if the registry has no such archetype.
func (r Registry) Resolve(unitType string) (Stats, error) {
	stats, ok := r[unitType]
	if !ok {
		return Stats{}, &ConfigError{Reason: fmt.Sprintf("unknown unit_type %q", unitType), Tag: "unknown_unit_type"}
	}
	return stats, nil
}
