package hazard

import (
	"testing"

	"kjorefore/internal/types"
)

func elev(m float64) *float64 { return &m }

func TestClassify_RulePriority(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want types.HazardKind
	}{
		{
			// Freezing outranks mountain even at altitude.
			name: "freezing wins at elevation",
			in:   Input{TemperatureC: 0, PrecipitationMmPerHour: 0, WindSpeedMps: 0, ElevationM: elev(600)},
			want: types.HazardFreezing,
		},
		{
			name: "freezing lower bound inclusive",
			in:   Input{TemperatureC: -2},
			want: types.HazardFreezing,
		},
		{
			name: "freezing upper bound inclusive",
			in:   Input{TemperatureC: 2},
			want: types.HazardFreezing,
		},
		{
			name: "heavy precipitation",
			in:   Input{TemperatureC: 5, PrecipitationMmPerHour: 3},
			want: types.HazardHeavyPrecipitation,
		},
		{
			name: "heavy precipitation outranks high wind",
			in:   Input{TemperatureC: 5, PrecipitationMmPerHour: 3, WindSpeedMps: 20},
			want: types.HazardHeavyPrecipitation,
		},
		{
			name: "mountain with wind",
			in:   Input{TemperatureC: 5, WindSpeedMps: 11, ElevationM: elev(501)},
			want: types.HazardMountain,
		},
		{
			name: "mountain with light precipitation",
			in:   Input{TemperatureC: 5, PrecipitationMmPerHour: 0.6, ElevationM: elev(800)},
			want: types.HazardMountain,
		},
		{
			name: "mountain outranks high wind",
			in:   Input{TemperatureC: 5, WindSpeedMps: 20, ElevationM: elev(600)},
			want: types.HazardMountain,
		},
		{
			name: "high wind",
			in:   Input{TemperatureC: 5, WindSpeedMps: 20},
			want: types.HazardHighWind,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.in)
			if !got.IsHazardous {
				t.Fatal("expected a hazardous verdict")
			}
			if got.Kind != tc.want {
				t.Errorf("expected kind %s, got %s", tc.want, got.Kind)
			}
		})
	}
}

func TestClassify_NotHazardous(t *testing.T) {
	cases := []Input{
		{TemperatureC: 10},
		{TemperatureC: 10, PrecipitationMmPerHour: 2},             // boundary: strict >2
		{TemperatureC: 10, WindSpeedMps: 15},                      // boundary: strict >15
		{TemperatureC: 10, WindSpeedMps: 11, ElevationM: elev(500)}, // boundary: strict >500
		{TemperatureC: 10, ElevationM: elev(600)},                 // calm mountain
		{TemperatureC: -2.1},
		{TemperatureC: 2.1},
	}
	for i, in := range cases {
		got := Classify(in)
		if got.IsHazardous {
			t.Errorf("case %d: expected non-hazardous, got %s", i, got.Kind)
		}
		if got.Kind != "" {
			t.Errorf("case %d: expected empty kind, got %s", i, got.Kind)
		}
	}
}

func TestClassifyReading(t *testing.T) {
	if v := ClassifyReading(nil, elev(1000)); v.IsHazardous {
		t.Error("nil reading must not be hazardous")
	}

	v := ClassifyReading(&types.WeatherReading{TemperatureC: 1}, nil)
	if !v.IsHazardous || v.Kind != types.HazardFreezing {
		t.Errorf("expected freezing verdict, got %+v", v)
	}
}

func TestWarning(t *testing.T) {
	kinds := []types.HazardKind{
		types.HazardFreezing,
		types.HazardHeavyPrecipitation,
		types.HazardHighWind,
		types.HazardMountain,
		types.HazardKind("other"),
	}
	for _, k := range kinds {
		if Warning(k) == "" {
			t.Errorf("expected non-empty warning for %s", k)
		}
	}
}
