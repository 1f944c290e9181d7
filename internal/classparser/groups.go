package classparser

import "strings"

// DefaultGroup is the catch-all config group used when the enclosing context
// of a class is not a recognized group.
const DefaultGroup = "CfgPatches"

var knownGroups = map[string]struct{}{
	"CfgPatches":   {},
	"CfgVehicles":  {},
	"CfgWeapons":   {},
	"CfgAmmo":      {},
	"CfgMagazines": {},
	"CfgSounds":    {},
	"CfgGlasses":   {},
}

// IsGroup reports whether name looks like a top-level config group: either a
// known group or a Cfg-prefixed alphabetic identifier.
func IsGroup(name string) bool {
	if _, ok := knownGroups[name]; ok {
		return true
	}
	if !strings.HasPrefix(name, "Cfg") {
		return false
	}
	rest := strings.TrimPrefix(name, "Cfg")
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// NormalizeGroup prepends the Cfg prefix when it is missing.
func NormalizeGroup(name string) string {
	if strings.HasPrefix(name, "Cfg") {
		return name
	}
	return "Cfg" + name
}
