package ofs

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/viper"
)

// MissionConfig is a fully loaded mission definition: the vehicle, where it
// launches from, the orbit it aims for and how the simulation is stepped.
type MissionConfig struct {
	Vehicle              *Rocket
	Site                 LaunchSite
	Target               *Orbit
	PitchStart, PitchEnd float64 // km
	Step                 float64 // s
	MaxTime              float64 // s
	Export               ExportConfig
}

// LoadMissionConfig reads a TOML mission definition. Layout:
//
//	[vehicle]
//	name = "demo-1"
//	[[vehicle.stages]]
//	name = "first"
//	dry_mass = 22000.0   # kg
//	fuel_mass = 410000.0 # kg
//	thrust = 7600000.0   # N
//	isp = 300.0          # s
//	area = 10.75         # m^2
//	cd = 0.75
//	[site]
//	body = "earth"
//	latitude = 28.5      # deg
//	longitude = -80.6    # deg
//	altitude = 0.1       # km
//	[target]
//	apoapsis = 300.0     # altitude, km
//	periapsis = 300.0    # altitude, km
//	[ascent]
//	pitch_start = 2.0    # km
//	pitch_end = 14.0     # km
//	[sim]
//	step = 0.1           # s
//	max_time = 1800.0    # s
//	output = "ascent.csv"
func LoadMissionConfig(path string, logger kitlog.Logger) (cfg MissionConfig, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err = v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("%s not readable: %s", path, err)
	}

	body, err := CelestialObjectFromString(v.GetString("site.body"))
	if err != nil {
		return cfg, err
	}
	cfg.Site = LaunchSite{
		Name:      v.GetString("site.name"),
		Latitude:  v.GetFloat64("site.latitude"),
		Longitude: v.GetFloat64("site.longitude"),
		Altitude:  v.GetFloat64("site.altitude"),
		Body:      body,
	}

	var stages []*Stage
	rawStages, ok := v.Get("vehicle.stages").([]interface{})
	if !ok || len(rawStages) == 0 {
		return cfg, fmt.Errorf("no stages defined in %s", path)
	}
	for i, raw := range rawStages {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return cfg, fmt.Errorf("stage %d is not a table", i)
		}
		stages = append(stages, NewStage(
			str(m["name"], fmt.Sprintf("stage-%d", i+1)),
			f64(m["dry_mass"]), f64(m["fuel_mass"]), f64(m["thrust"]), f64(m["isp"]),
			DragProperties{Area: f64(m["area"]), Cd: f64(m["cd"])},
		))
	}
	cfg.Vehicle = NewRocket(v.GetString("vehicle.name"), NewStageStack(stages...), NewState(0), logger)

	rA := body.Radius + v.GetFloat64("target.apoapsis")
	rP := body.Radius + v.GetFloat64("target.periapsis")
	a, e := Radii2ae(rA, rP)
	cfg.Target = NewOrbitFromOE(a, e, 0, 0, 0, 0, body)

	cfg.PitchStart = v.GetFloat64("ascent.pitch_start")
	cfg.PitchEnd = v.GetFloat64("ascent.pitch_end")
	cfg.Step = v.GetFloat64("sim.step")
	if cfg.Step <= 0 {
		cfg.Step = StepSize
	}
	cfg.MaxTime = v.GetFloat64("sim.max_time")
	cfg.Export = ExportConfig{Filename: v.GetString("sim.output"), OutputDir: v.GetString("sim.output_dir")}
	return cfg, nil
}

func f64(raw interface{}) float64 {
	switch val := raw.(type) {
	case float64:
		return val
	case int64:
		return float64(val)
	case int:
		return float64(val)
	default:
		return 0
	}
}

func str(raw interface{}, fallback string) string {
	if s, ok := raw.(string); ok && s != "" {
		return s
	}
	return fallback
}
