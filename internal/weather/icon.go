package weather

// Display glyphs for forecast icon codes.
const (
	GlyphSun          = "☀️"
	GlyphPartlyCloudy = "⛅️"
	GlyphCloud        = "☁️"
)

// GlyphForIcon maps a provider icon code to the glyph shown on a day tile.
// Unknown codes fall back to the cloud glyph.
func GlyphForIcon(code string) string {
	switch code {
	case "clear-day":
		return GlyphSun
	case "partly-cloudy-day":
		return GlyphPartlyCloudy
	default:
		return GlyphCloud
	}
}

// ConditionForIcon maps a provider icon code onto the normalized Condition set.
func ConditionForIcon(code string) Condition {
	switch code {
	case "clear-day":
		return ConditionClear
	case "partly-cloudy-day":
		return ConditionPartlyCloudy
	case "":
		return ConditionUnknown
	default:
		return ConditionCloudy
	}
}
