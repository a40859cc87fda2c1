package ofs

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures where telemetry is streamed. A zero value disables
// all output, which the parallel ascent search relies on.
type ExportConfig struct {
	Filename  string
	OutputDir string
}

// IsUseless returns whether this configuration would output anything.
func (c ExportConfig) IsUseless() bool {
	return c.Filename == ""
}

// Record is one telemetry sample of one object.
type Record struct {
	Name     string
	Time     float64 // total simulated time (s)
	State    State
	Altitude float64 // km above the primary surface
	FuelMass float64 // kg remaining on the active stage
}

// StreamStates streams telemetry records to a CSV file until the channel is
// closed. Timestamps are written both as elapsed seconds and as the Julian
// date of startDT plus the elapsed time.
func StreamStates(conf ExportConfig, startDT time.Time, states <-chan Record) {
	if conf.IsUseless() {
		for range states {
			// Drain so the producer never blocks.
		}
		return
	}
	f, err := os.Create(filepath.Join(conf.OutputDir, conf.Filename))
	if err != nil {
		panic(fmt.Errorf("could not create telemetry file: %s", err))
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	w.Write([]string{"name", "t(s)", "jd", "x(km)", "y(km)", "z(km)",
		"vx(km/s)", "vy(km/s)", "vz(km/s)", "alt(km)", "fuel(kg)"})
	for rec := range states {
		jd := julian.TimeToJD(startDT.Add(time.Duration(rec.Time * float64(time.Second))))
		w.Write([]string{
			rec.Name,
			fmt.Sprintf("%.3f", rec.Time),
			fmt.Sprintf("%.8f", jd),
			fmt.Sprintf("%.6f", rec.State.R[0]),
			fmt.Sprintf("%.6f", rec.State.R[1]),
			fmt.Sprintf("%.6f", rec.State.R[2]),
			fmt.Sprintf("%.9f", rec.State.V[0]),
			fmt.Sprintf("%.9f", rec.State.V[1]),
			fmt.Sprintf("%.9f", rec.State.V[2]),
			fmt.Sprintf("%.6f", rec.Altitude),
			fmt.Sprintf("%.3f", rec.FuelMass),
		})
	}
}
