package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeather(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    Weather
		wantErr bool
	}{
		{name: "sunny", code: "W00", want: WeatherSunny},
		{name: "cloudy", code: "W01", want: WeatherCloudy},
		{name: "rainy", code: "W02", want: WeatherRainy},
		{name: "snowy", code: "W03", want: WeatherSnowy},
		{name: "etc", code: "W04", want: WeatherEtc},
		{name: "empty defaults to etc", code: "", want: WeatherEtc},
		{name: "unknown code", code: "W99", wantErr: true},
		{name: "lowercase rejected", code: "w00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeather(tt.code)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeatherName(t *testing.T) {
	assert.Equal(t, "sunny", WeatherSunny.Name())
	assert.Equal(t, "etc", WeatherEtc.Name())
	assert.Equal(t, "unknown", Weather("W99").Name())
}
