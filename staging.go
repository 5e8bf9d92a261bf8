package optirocket

/* Handles the stage mass optimization. */

import (
	"fmt"
	"math"
	"runtime"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

const (
	// DefaultTolerance is the accepted error on the total ΔV, in m/s.
	DefaultTolerance = 1e-3
	// DefaultStep is the increment applied to the top stage mass ratio while
	// the vehicle does not satisfy the mass limits.
	DefaultStep = 1e-4
	// DefaultMaxBisections bounds the ΔV bisection.
	DefaultMaxBisections = 200
	// DefaultMaxAdjustments bounds the mass limit adjustments.
	DefaultMaxAdjustments = 200000
	// Bisection bracket of the top stage mass ratio. A stage delivering any
	// ΔV needs b greater than 1 and a positive payload needs b below
	// (1+k)/k, so the optimum of any sensible propellant lies within.
	bracketLow  = 0.5
	bracketHigh = 10
)

// ConvergenceError is returned when an iterative phase of a solve reaches
// its iteration bound.
type ConvergenceError struct {
	Phase      string
	Iterations int
}

// Error implements the error interface.
func (e ConvergenceError) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.Phase, e.Iterations)
}

// StageLimit bounds the structural mass of one stage, in kg. A zero Max
// means unbounded.
type StageLimit struct {
	Min, Max float64
}

// MassLimits stores the optional mass constraints of a solve. The zero
// value is unconstrained.
type MassLimits struct {
	Stage    map[int]StageLimit // keyed by stage position, 1 is the bottom stage
	MaxTotal float64            // maximum fueled vehicle mass in kg, 0 for none
}

// SetStageLimit sets the lower and upper structural mass limits of a stage
// in kg. A zero max leaves the stage unbounded from above.
func (l *MassLimits) SetStageLimit(stage int, min, max float64) {
	if l.Stage == nil {
		l.Stage = make(map[int]StageLimit)
	}
	l.Stage[stage] = StageLimit{min, max}
}

// SetMaxTotalMass sets the maximum mass of the vehicle, fully fueled, in kg.
func (l *MassLimits) SetMaxTotalMass(mass float64) {
	l.MaxTotal = mass
}

// Tuning gathers the numerical knobs of a solve or a search. The zero
// value selects the defaults.
type Tuning struct {
	Tolerance      float64 // accepted error on the total ΔV, in m/s
	Step           float64 // increment of the top stage mass ratio during adjustments
	MaxBisections  int
	MaxAdjustments int
	Workers        int // concurrent solves during a search, 0 for all CPUs
	Logger         kitlog.Logger
}

func (t Tuning) withDefaults() Tuning {
	if t.Tolerance == 0 {
		t.Tolerance = DefaultTolerance
	}
	if t.Step == 0 {
		t.Step = DefaultStep
	}
	if t.MaxBisections == 0 {
		t.MaxBisections = DefaultMaxBisections
	}
	if t.MaxAdjustments == 0 {
		t.MaxAdjustments = DefaultMaxAdjustments
	}
	if t.Workers <= 0 {
		t.Workers = runtime.NumCPU()
	}
	if t.Logger == nil {
		t.Logger = kitlog.NewNopLogger()
	}
	return t
}

// Staging stores the mass breakdown of one sized vehicle, one entry per
// stage in each slice with the bottom stage first. BaseMass has one extra
// entry, the payload. A Staging is a snapshot: successive solves never
// share state.
type Staging struct {
	Sequence  StageSequence
	ISP       []float64 // specific impulse used at each stage, in s
	B         []float64 // Tsiolkovsky mass ratios
	ΔV        []float64 // ΔV delivered by each stage, in m/s
	BaseMass  []float64 // vehicle mass from each stage up, in kg
	FuelMass  []float64 // propellant mass of each stage, in kg
	StrucMass []float64 // structural mass of each stage, in kg
	StageMass []float64 // propellant plus structure of each stage, in kg
}

// TotalMass returns the fueled vehicle mass in kg, payload included.
func (s Staging) TotalMass() float64 {
	return s.BaseMass[0]
}

// TotalΔV returns the ΔV delivered by the whole vehicle in m/s.
func (s Staging) TotalΔV() float64 {
	return floats.Sum(s.ΔV)
}

// Payload returns the payload mass this vehicle was sized for, in kg.
func (s Staging) Payload() float64 {
	return s.BaseMass[len(s.BaseMass)-1]
}

// Feasible returns whether this vehicle respects its upper mass limits. An
// infeasible staging carries infinite masses.
func (s Staging) Feasible() bool {
	return !math.IsInf(s.TotalMass(), 1)
}

// String implements the Stringer interface.
func (s Staging) String() string {
	if !s.Feasible() {
		return fmt.Sprintf("%s: infeasible", s.Sequence)
	}
	return fmt.Sprintf("%s: %.1f kg for a ΔV of %.1f m/s", s.Sequence, s.TotalMass(), s.TotalΔV())
}

// stageRatios computes the mass ratio and the ΔV of every stage from the
// top stage ratio bn, and returns the total ΔV. The ratios of the lower
// stages follow from the Lagrange multiplier optimality condition.
func stageRatios(g0, bn float64, isp, Ω, b, Δv []float64) float64 {
	n := len(b)
	b[n-1] = bn
	Δv[n-1] = g0 * isp[n-1] * math.Log(b[n-1])
	for j := n - 2; j >= 0; j-- {
		b[j] = 1 / Ω[j] * (1 - isp[j+1]/isp[j]*(1-Ω[j+1]*b[j+1]))
		Δv[j] = g0 * isp[j] * math.Log(b[j])
	}
	return floats.Sum(Δv)
}

// stageMasses computes the masses of every stage from the mass ratios,
// top stage down, starting from the payload stored in M[len(b)].
func stageMasses(k, b, M, fuel, struc, stage []float64) {
	for i := len(b) - 1; i >= 0; i-- {
		a := (1+k[i])/b[i] - k[i]
		M[i] = M[i+1] / a
		fuel[i] = M[i] * (1 - a) / (1 + k[i])
		struc[i] = k[i] * fuel[i]
		stage[i] = fuel[i] + struc[i]
	}
}

// belowLowerLimits returns whether a stage has a structural mass below its
// configured minimum, or cannot structurally support the part of the
// vehicle it carries.
func belowLowerLimits(struc, stage []float64, payload float64, limits MassLimits) bool {
	for i := range stage {
		if lim, set := limits.Stage[i+1]; set && struc[i] < lim.Min {
			return true
		}
		if stage[i] < floats.Sum(stage[i+1:])+payload {
			return true
		}
	}
	return false
}

// aboveUpperLimits returns whether a stage busts its maximum structural
// mass or the vehicle its total mass ceiling.
func aboveUpperLimits(struc []float64, total float64, limits MassLimits) bool {
	for i := range struc {
		if lim, set := limits.Stage[i+1]; set && lim.Max > 0 && struc[i] > lim.Max {
			return true
		}
	}
	return limits.MaxTotal > 0 && total > limits.MaxTotal
}

// SolveStaging sizes every stage of the sequence so that the vehicle
// delivers the required ΔV (in m/s) while lifting the payload (in kg) at
// the minimum total mass which respects the limits, with default tuning.
func SolveStaging(body Body, catalog *Catalog, seq StageSequence, requiredΔV, payload float64, limits MassLimits) (Staging, error) {
	return SolvePreciseStaging(body, catalog, seq, requiredΔV, payload, limits, Tuning{})
}

// SolvePreciseStaging is a custom tuned SolveStaging.
//
// The unconstrained optimum comes from a bisection on the top stage mass
// ratio: the Lagrange condition ties all lower ratios to it and the total
// ΔV grows monotonically with it. When a lower mass limit is violated the
// solve walks the top ratio up in Step increments, trading ΔV overshoot
// for a stage distribution which satisfies the limit. Upper mass limits
// cannot be traded against, so busting one makes the sequence infeasible:
// the returned staging carries infinite masses and a nil error.
func SolvePreciseStaging(body Body, catalog *Catalog, seq StageSequence, requiredΔV, payload float64, limits MassLimits, tuning Tuning) (Staging, error) {
	if len(seq) == 0 {
		panic("cannot size a vehicle without any stage")
	}
	if err := catalog.Validate(seq); err != nil {
		return Staging{}, err
	}
	if payload <= 0 {
		return Staging{}, fmt.Errorf("payload mass must be positive (got %g kg)", payload)
	}
	isp, k, err := catalog.StageSpecs(seq)
	if err != nil {
		return Staging{}, err
	}
	tuning = tuning.withDefaults()

	n := len(seq)
	Ω := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		Ω[i] = k[i] / (1 + k[i])
	}
	b := make([]float64, n)
	Δv := make([]float64, n)

	// ΔV convergence via bisection on the top stage mass ratio.
	low, high := float64(bracketLow), float64(bracketHigh)
	bn := (low + high) / 2
	converged := false
	for it := 0; it < tuning.MaxBisections; it++ {
		total := stageRatios(body.g0, bn, isp, Ω, b, Δv)
		if math.IsNaN(total) || total-requiredΔV < -tuning.Tolerance {
			// Too slow, or out of the domain of the cascade (b ≤ 0).
			low = bn
		} else if total-requiredΔV > tuning.Tolerance {
			high = bn
		} else {
			converged = true
			break
		}
		bn = (low + high) / 2
	}
	if !converged {
		return Staging{}, ConvergenceError{"ΔV bisection", tuning.MaxBisections}
	}

	M := make([]float64, n+1)
	fuel := make([]float64, n)
	struc := make([]float64, n)
	stage := make([]float64, n)
	M[n] = payload
	adjustments := 0
	for {
		stageRatios(body.g0, bn, isp, Ω, b, Δv)
		stageMasses(k, b, M, fuel, struc, stage)
		if belowLowerLimits(struc, stage, payload, limits) {
			adjustments++
			if adjustments > tuning.MaxAdjustments {
				return Staging{}, ConvergenceError{"mass limit adjustment", tuning.MaxAdjustments}
			}
			bn += tuning.Step
			continue
		}
		if aboveUpperLimits(struc, M[0], limits) {
			for i := 0; i < n; i++ {
				Δv[i] = math.Inf(1)
				M[i] = math.Inf(1)
				fuel[i] = math.Inf(1)
				struc[i] = math.Inf(1)
				stage[i] = math.Inf(1)
			}
		}
		break
	}
	tuning.Logger.Log("level", "debug", "subsys", "staging", "sequence", seq, "mass", M[0], "ΔV", floats.Sum(Δv), "adjustments", adjustments)
	return Staging{seq, isp, b, Δv, M, fuel, struc, stage}, nil
}
