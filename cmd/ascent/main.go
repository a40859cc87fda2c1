package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astrionne/ofs"
)

var (
	configPath  = flag.String("config", "mission.toml", "path to the mission TOML definition")
	optimize    = flag.Bool("optimize", false, "grid-search the gravity-turn parameters instead of flying once")
	gridSize    = flag.Int("grid", 8, "grid points per axis for -optimize")
	metricsAddr = flag.String("metrics", "", "address to serve Prometheus metrics on (empty disables)")
)

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "app", "ascent")

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Log("subsys", "metrics", "err", err)
			}
		}()
	}

	cfg, err := ofs.LoadMissionConfig(*configPath, logger)
	if err != nil {
		logger.Log("status", "failed", "err", err)
		os.Exit(1)
	}

	primary := ofs.NewReferenceBody(cfg.Site.Body)
	cfg.Vehicle.State = cfg.Site.SurfaceState(primary, 0)

	if *optimize {
		runSearch(cfg, primary, logger)
		return
	}

	m := ofs.NewMission(cfg.Vehicle, primary, cfg.Step, cfg.Export, logger)
	asc := m.Fly(cfg.Target, cfg.PitchStart, cfg.PitchEnd)
	reached := m.PropagateUntilCompleted(cfg.MaxTime)
	m.Close()
	logger.Log("status", "finished", "reached", reached, "state", asc.State(),
		"fuel(kg)", cfg.Vehicle.Stages.Current().FuelMass)
	if !reached || asc.State() != ofs.AscentInOrbit {
		os.Exit(1)
	}
}

func runSearch(cfg ofs.MissionConfig, primary *ofs.ReferenceBody, logger kitlog.Logger) {
	grid := ofs.AscentGrid(cfg.PitchStart/2, cfg.PitchStart*2, cfg.PitchEnd/2, cfg.PitchEnd*2, *gridSize)
	logger.Log("subsys", "search", "status", "started", "candidates", len(grid))
	best, found := ofs.FindOptimalAscent(cfg.Vehicle, *primary, cfg.Target, grid, cfg.Step, cfg.MaxTime)
	if !found {
		logger.Log("subsys", "search", "status", "finished", "result", "no candidate reached the target orbit")
		os.Exit(1)
	}
	logger.Log("subsys", "search", "status", "finished",
		"pitchStart(km)", best.Candidate.PitchStart, "pitchEnd(km)", best.Candidate.PitchEnd,
		"mass(kg)", fmt.Sprintf("%.1f", best.RemainingMass), "e", fmt.Sprintf("%.5f", best.Ecc),
		"duration(s)", fmt.Sprintf("%.1f", best.Duration))
}
