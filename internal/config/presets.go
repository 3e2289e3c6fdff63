package config

import "sort"

var Presets = map[string]LaunchConfig{
	"default":   {Speed: 7.5, Angle: 45},
	"max-range": {Speed: 10, Angle: 45},
	"flat":      {Speed: 10, Angle: 15},
	"lob":       {Speed: 5, Angle: 80},
	"vertical":  {Speed: 10, Angle: 90},
	"dribble":   {Speed: 5, Angle: 1},
}

func GetPreset(name string) (LaunchConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
