package rule

import (
	"maps"
	"slices"
)

// presets maps names of well-known automata to their rule strings. The
// registry resolves them before compiling.
var presets = map[string]string{
	"life":        "B3/S23",
	"highlife":    "B36/S23",
	"daynight":    "B3678/S34678",
	"seeds":       "B2/S",
	"briansbrain": "B2/S/C3",
	"starwars":    "B2/S345/C4",
	"rule30":      "W30",
	"rule90":      "W90",
	"elementary":  "W110",
	"bosco":       "R5,C0,M1,S34..58,B34..45,NM",
}

// Preset returns the rule string registered under name.
func Preset(name string) (string, bool) {
	s, ok := presets[registryKey(name)]
	return s, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(presets))
}
