package weather

import "strings"

// symbolDescriptions maps the provider's base symbol codes to display
// text. Day/night/twilight variants share the base code's text.
var symbolDescriptions = map[string]string{
	"clearsky":               "Clear sky",
	"fair":                   "Fair",
	"partlycloudy":           "Partly cloudy",
	"cloudy":                 "Cloudy",
	"fog":                    "Fog",
	"lightrain":              "Light rain",
	"rain":                   "Rain",
	"heavyrain":              "Heavy rain",
	"lightrainshowers":       "Light rain showers",
	"rainshowers":            "Rain showers",
	"heavyrainshowers":       "Heavy rain showers",
	"lightsleet":             "Light sleet",
	"sleet":                  "Sleet",
	"heavysleet":             "Heavy sleet",
	"lightsleetshowers":      "Light sleet showers",
	"sleetshowers":           "Sleet showers",
	"heavysleetshowers":      "Heavy sleet showers",
	"lightsnow":              "Light snow",
	"snow":                   "Snow",
	"heavysnow":              "Heavy snow",
	"lightsnowshowers":       "Light snow showers",
	"snowshowers":            "Snow showers",
	"heavysnowshowers":       "Heavy snow showers",
	"lightrainandthunder":    "Light rain and thunder",
	"rainandthunder":         "Rain and thunder",
	"heavyrainandthunder":    "Heavy rain and thunder",
	"sleetandthunder":        "Sleet and thunder",
	"snowandthunder":         "Snow and thunder",
	"rainshowersandthunder":  "Rain showers and thunder",
	"sleetshowersandthunder": "Sleet showers and thunder",
	"snowshowersandthunder":  "Snow showers and thunder",
}

// SymbolDescription returns display text for a symbol code, stripping the
// _day/_night/_polartwilight variant suffix before lookup. Unknown codes
// fall through to the raw code so information is never lost.
func SymbolDescription(code string) string {
	base := code
	if i := strings.IndexByte(code, '_'); i >= 0 {
		base = code[:i]
	}
	if text, ok := symbolDescriptions[base]; ok {
		return text
	}
	return code
}
