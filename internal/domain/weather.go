package domain

import "fmt"

// Weather is the coded weather observation attached to a diary entry.
type Weather string

const (
	WeatherSunny  Weather = "W00"
	WeatherCloudy Weather = "W01"
	WeatherRainy  Weather = "W02"
	WeatherSnowy  Weather = "W03"
	WeatherEtc    Weather = "W04"
)

var weatherNames = map[Weather]string{
	WeatherSunny:  "sunny",
	WeatherCloudy: "cloudy",
	WeatherRainy:  "rainy",
	WeatherSnowy:  "snowy",
	WeatherEtc:    "etc",
}

// ParseWeather maps a wire code to a Weather. An empty code defaults to
// WeatherEtc; anything else unknown is rejected.
func ParseWeather(code string) (Weather, error) {
	if code == "" {
		return WeatherEtc, nil
	}
	w := Weather(code)
	if _, ok := weatherNames[w]; !ok {
		return "", fmt.Errorf("unknown weather code %q", code)
	}
	return w, nil
}

// Name returns the human-readable name for the code.
func (w Weather) Name() string {
	if name, ok := weatherNames[w]; ok {
		return name
	}
	return "unknown"
}
