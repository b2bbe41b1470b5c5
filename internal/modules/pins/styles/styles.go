package styles

import (
	"strings"
)

type Key string

const (
	Modern    Key = "modern"
	Creative  Key = "creative"
	Elegant   Key = "elegant"
	Bold      Key = "bold"
	Lifestyle Key = "lifestyle"

	Default = Modern
)

var presets = map[Key]string{
	Modern:    "clean modern layout, minimal sans-serif typography, generous white space, soft neutral palette with one accent color",
	Creative:  "playful creative composition, hand-drawn accents, vibrant complementary colors, layered collage textures",
	Elegant:   "elegant editorial look, serif headline typography, muted luxurious tones, soft natural lighting",
	Bold:      "bold high-contrast design, oversized heavy typography, saturated color blocks, strong visual hierarchy",
	Lifestyle: "authentic lifestyle photography, warm natural light, real people and settings, cozy inviting mood",
}

// rotation is the per-variation style order when the caller does not pin one.
var rotation = []Key{Modern, Creative, Elegant}

// Parse maps a free-form key onto the closed set; unknown or empty keys yield Default.
func Parse(raw string) Key {
	k := Key(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := presets[k]; ok {
		return k
	}
	return Default
}

// Known reports whether raw names a preset exactly.
func Known(raw string) bool {
	_, ok := presets[Key(strings.ToLower(strings.TrimSpace(raw)))]
	return ok
}

func (k Key) Prompt() string { return presets[Parse(string(k))] }

// ForVariation picks the style for variation i. An explicit request style applies to all.
func ForVariation(requested string, i int) Key {
	if Known(requested) {
		return Parse(requested)
	}
	if i < 0 {
		i = 0
	}
	return rotation[i%len(rotation)]
}

func All() []Key {
	return []Key{Modern, Creative, Elegant, Bold, Lifestyle}
}
