package ofs

import (
	"math"
	"runtime"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// AscentCandidate is one (pitch-start, pitch-end) altitude pair of the
// gravity-turn parameter grid, in km.
type AscentCandidate struct {
	PitchStart, PitchEnd float64
}

// AscentResult is the outcome of one candidate ascent simulation.
type AscentResult struct {
	Candidate     AscentCandidate
	Reached       bool    // target orbit reached within tolerance
	RemainingMass float64 // kg left on the stack at insertion
	Ecc           float64
	SMA           float64 // km
	Duration      float64 // simulated seconds to completion
}

// AscentGrid builds an n×n candidate grid over the provided pitch-start and
// pitch-end altitude ranges (km). Pairs where the turn would end before it
// starts are skipped.
func AscentGrid(startMin, startMax, endMin, endMax float64, n int) []AscentCandidate {
	if n < 2 {
		panic("grid needs at least two points per axis")
	}
	grid := make([]AscentCandidate, 0, n*n)
	for i := 0; i < n; i++ {
		start := startMin + (startMax-startMin)*float64(i)/float64(n-1)
		for j := 0; j < n; j++ {
			end := endMin + (endMax-endMin)*float64(j)/float64(n-1)
			if end <= start {
				continue
			}
			grid = append(grid, AscentCandidate{start, end})
		}
	}
	return grid
}

// FindOptimalAscent runs one full independent ascent simulation per candidate
// and returns the candidate reaching the target orbit (eccentricity within
// 0.01, semi-major axis within 10 km) with the greatest remaining mass.
//
// The search is embarrassingly parallel: every worker owns a deep copy of the
// rocket, its stages and its program, runs its own simulation loop with
// discarded output, and writes a pure result into its own slot. The reduction
// scans results in candidate order, so ties deterministically go to the first
// candidate in scan order regardless of worker scheduling.
func FindOptimalAscent(rocket *Rocket, primary ReferenceBody, target *Orbit, candidates []AscentCandidate, step, maxTime float64) (best AscentResult, found bool) {
	results := make([]AscentResult, len(candidates))
	jobs := make(chan int, len(candidates))
	var wg sync.WaitGroup
	for w := 0; w < runtime.NumCPU(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = simulateCandidate(rocket, primary, target, candidates[idx], step, maxTime)
				searchCandidates.Inc()
			}
		}()
	}
	for idx := range candidates {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, res := range results {
		if !res.Reached {
			continue
		}
		searchSatisfying.Inc()
		if !found || res.RemainingMass > best.RemainingMass {
			best = res
			found = true
		}
	}
	return best, found
}

// simulateCandidate flies one candidate on fully independent copies: no state
// is shared with other candidates or with the caller's rocket.
func simulateCandidate(rocket *Rocket, primary ReferenceBody, target *Orbit, cand AscentCandidate, step, maxTime float64) AscentResult {
	r := rocket.Clone()
	p := primary // value copy
	p.State = primary.State.Clone()
	m := NewMission(r, &p, step, ExportConfig{}, kitlog.NewNopLogger())

	asc := NewAscent(r, &p, target, cand.PitchStart, cand.PitchEnd, kitlog.NewNopLogger())
	r.SetProgram(asc, 0)
	for m.CurrentTime < maxTime && !asc.Completed() {
		m.StepOnce()
	}

	rel := r.State.MakeRelative(p.State)
	orbit := NewOrbitFromRV(rel.R, rel.V, p.CelestialObject)
	return AscentResult{
		Candidate:     cand,
		Reached:       asc.State() == AscentInOrbit && orbit.e < 0.01 && math.Abs(orbit.a-target.a) < 10,
		RemainingMass: r.Mass(),
		Ecc:           orbit.e,
		SMA:           orbit.a,
		Duration:      m.CurrentTime,
	}
}
