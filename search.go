package optirocket

import (
	"fmt"
	"math"
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// EnumerateSequences returns every sequence of minStages to maxStages
// propellants which respects the placement rules of the catalog. Sequence
// lengths come out in increasing order and, within one length, the catalog
// order is followed with the top stage varying fastest. EnumerateSequences
// panics on an invalid stage count range.
func EnumerateSequences(catalog *Catalog, minStages, maxStages int) []StageSequence {
	if minStages < 1 || maxStages < minStages {
		panic(fmt.Errorf("invalid stage count range [%d, %d]", minStages, maxStages))
	}
	names := catalog.Names()
	var seqs []StageSequence
	for n := minStages; n <= maxStages; n++ {
		buf := make([]string, n)
		var fill func(pos int)
		fill = func(pos int) {
			if pos == n {
				seq := make(StageSequence, n)
				copy(seq, buf)
				if catalog.Validate(seq) == nil {
					seqs = append(seqs, seq)
				}
				return
			}
			for _, name := range names {
				buf[pos] = name
				fill(pos + 1)
			}
		}
		fill(0)
	}
	return seqs
}

// SequenceResult stores the outcome of one sequence of a search.
type SequenceResult struct {
	Sequence StageSequence
	Staging  Staging
	Err      error // convergence failure of this sequence, nil otherwise
}

// SearchResult stores the outcome of every sequence tried, in enumeration
// order, along with the lightest feasible one.
type SearchResult struct {
	Results []SequenceResult
	Best    *SequenceResult // nil when no sequence is feasible
}

// SearchBestStaging sizes a vehicle for every admissible sequence of
// minStages to maxStages propellants and returns all the outcomes along
// with the lightest feasible one. Ties on total mass keep the earliest
// sequence in enumeration order. Sequences are solved concurrently on
// tuning.Workers goroutines; a sequence which fails to converge is
// recorded in its result, it does not abort the search.
func SearchBestStaging(body Body, catalog *Catalog, minStages, maxStages int, req InjectionRequirement, payload float64, limits MassLimits, tuning Tuning) SearchResult {
	if tuning.Logger == nil {
		tuning.Logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	}
	tuning = tuning.withDefaults()
	logger := kitlog.With(tuning.Logger, "subsys", "search")
	logger.Log("level", "info", "ΔV(m/s)", req.RequiredΔV, "payload(kg)", payload, "stages", fmt.Sprintf("[%d, %d]", minStages, maxStages))

	seqs := EnumerateSequences(catalog, minStages, maxStages)
	results := make([]SequenceResult, len(seqs))
	cpuChan := make(chan bool, tuning.Workers)
	var wg sync.WaitGroup
	for i, seq := range seqs {
		wg.Add(1)
		cpuChan <- true
		go func(i int, seq StageSequence) {
			defer wg.Done()
			staging, err := SolvePreciseStaging(body, catalog, seq, req.RequiredΔV, payload, limits, tuning)
			results[i] = SequenceResult{seq, staging, err}
			<-cpuChan
		}(i, seq)
	}
	wg.Wait()

	rslt := SearchResult{Results: results}
	bestMass := math.Inf(1)
	for i := range results {
		switch r := results[i]; {
		case r.Err != nil:
			logger.Log("level", "warning", "sequence", r.Sequence, "error", r.Err)
		case !r.Staging.Feasible():
			logger.Log("level", "info", "sequence", r.Sequence, "status", "infeasible")
		default:
			logger.Log("level", "info", "sequence", r.Sequence, "mass(kg)", r.Staging.TotalMass(), "ΔV(m/s)", r.Staging.TotalΔV())
			if mass := r.Staging.TotalMass(); 0 < mass && mass < bestMass {
				bestMass = mass
				rslt.Best = &results[i]
			}
		}
	}
	if rslt.Best != nil {
		logger.Log("level", "notice", "status", "done", "best", rslt.Best.Sequence, "mass(kg)", bestMass)
	} else {
		logger.Log("level", "warning", "status", "done", "best", "none")
	}
	return rslt
}
