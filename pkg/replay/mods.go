package replay

import (
	"fmt"
	"strings"
)

// Mods is the 32-bit modifier bitmask.
type Mods uint32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchDevice
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	// ModNightcore is only ever set together with ModDoubleTime.
	ModNightcore
	ModFlashlight
	ModAutoplay
	ModSpunOut
	ModAutopilot
	// ModPerfect is only ever set together with ModSuddenDeath.
	ModPerfect
	ModKey4
	ModKey5
	ModKey6
	ModKey7
	ModKey8
	ModFadeIn
	ModRandom
	ModCinema
	ModTarget
	ModKey9
	ModKeyCoop
	ModKey1
	ModKey3
	ModKey2
	ModScoreV2
	ModMirror

	ModNone Mods = 0

	ModKeyMod = ModKey1 | ModKey2 | ModKey3 | ModKey4 | ModKey5 |
		ModKey6 | ModKey7 | ModKey8 | ModKey9 | ModKeyCoop
	ModFreeModAllowed = ModNoFail | ModEasy | ModHidden | ModHardRock |
		ModSuddenDeath | ModFlashlight | ModFadeIn | ModRelax | ModAutopilot |
		ModSpunOut | ModKeyMod
	ModScoreIncrease = ModHidden | ModHardRock | ModDoubleTime | ModFlashlight | ModFadeIn
)

var modNames = []struct {
	mod  Mods
	abbr string
}{
	{ModNoFail, "NF"},
	{ModEasy, "EZ"},
	{ModTouchDevice, "TD"},
	{ModHidden, "HD"},
	{ModHardRock, "HR"},
	{ModSuddenDeath, "SD"},
	{ModDoubleTime, "DT"},
	{ModRelax, "RX"},
	{ModHalfTime, "HT"},
	{ModNightcore, "NC"},
	{ModFlashlight, "FL"},
	{ModAutoplay, "AT"},
	{ModSpunOut, "SO"},
	{ModAutopilot, "AP"},
	{ModPerfect, "PF"},
	{ModKey4, "4K"},
	{ModKey5, "5K"},
	{ModKey6, "6K"},
	{ModKey7, "7K"},
	{ModKey8, "8K"},
	{ModFadeIn, "FI"},
	{ModRandom, "RD"},
	{ModCinema, "CN"},
	{ModTarget, "TP"},
	{ModKey9, "9K"},
	{ModKeyCoop, "COOP"},
	{ModKey1, "1K"},
	{ModKey3, "3K"},
	{ModKey2, "2K"},
	{ModScoreV2, "V2"},
	{ModMirror, "MR"},
}

// Has reports whether every bit of flag is set in m.
func (m Mods) Has(flag Mods) bool {
	return m&flag == flag
}

// List returns the abbreviations of the set flags in bit order.
func (m Mods) List() []string {
	var out []string
	for _, n := range modNames {
		if m&n.mod != 0 {
			out = append(out, n.abbr)
		}
	}
	if rest := m &^ knownMods(); rest != 0 {
		out = append(out, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return out
}

func (m Mods) String() string {
	if m == ModNone {
		return "None"
	}
	return strings.Join(m.List(), ",")
}

// Inconsistencies lists flags that are set without the flag they depend on.
// The codec stores such masks untouched.
func (m Mods) Inconsistencies() []string {
	var out []string
	if m.Has(ModNightcore) && !m.Has(ModDoubleTime) {
		out = append(out, "NC without DT")
	}
	if m.Has(ModPerfect) && !m.Has(ModSuddenDeath) {
		out = append(out, "PF without SD")
	}
	return out
}

// ParseMods reads a comma separated list of abbreviations such as "HD,DT".
func ParseMods(s string) (Mods, error) {
	var m Mods
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" || part == "NONE" {
			continue
		}
		found := false
		for _, n := range modNames {
			if n.abbr == part {
				m |= n.mod
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown mod %q", part)
		}
	}
	return m, nil
}

func knownMods() Mods {
	var all Mods
	for _, n := range modNames {
		all |= n.mod
	}
	return all
}
