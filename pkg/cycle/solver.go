// Package cycle implements a deterministic reduced-order turbofan cycle
// solver. It is a pure function of its input: the same Input always
// produces the same Output, bit for bit, which is what makes optimization
// runs over it reproducible.
package cycle

import "math"

// Solver status codes.
const (
	StatusOK             = 0
	StatusMaxIter        = 1
	StatusDiverged       = 2
	StatusInvariantViol  = 3
	StatusConstraintViol = 4
	StatusNonphysical    = 5
)

// StatusName returns the symbolic name for a solver status code.
func StatusName(code int) string {
	switch code {
	case StatusOK:
		return "OK"
	case StatusMaxIter:
		return "MAXITER"
	case StatusDiverged:
		return "DIVERGED"
	case StatusInvariantViol:
		return "INVARIANT_VIOL"
	case StatusConstraintViol:
		return "CONSTRAINT_VIOL"
	case StatusNonphysical:
		return "NONPHYSICAL"
	default:
		return "UNKNOWN"
	}
}

// Input holds one cycle design point plus solver settings.
type Input struct {
	Mach    float64
	AltKm   float64
	BPR     float64
	OPR     float64
	EtaComp float64
	EtaTurb float64
	EtaNozz float64
	FuelK   float64

	MaxIter int
	Tol     float64
	Damping float64
	T4Max   float64
}

// Output holds the solved cycle state. TSFC and Thrust are proxies per
// unit core mass flow, suitable for comparing design points, not absolute
// engine performance numbers.
type Output struct {
	Status     int
	Iterations int
	Residual   float64
	T4         float64
	TSFC       float64
	Thrust     float64
}

const (
	cpCold   = 1004.5   // J/(kg K), cold-side specific heat
	gasR     = 287.05   // J/(kg K)
	gammaExp = 1.0 / 3.5 // (gamma-1)/gamma for gamma = 1.4
	fuelLHV  = 42.8e6   // J/kg
	fanPR    = 1.6      // fixed fan pressure ratio
	combDT   = 900.0    // K, nominal combustor temperature rise at FuelK = 1
)

// cpHot models the weak temperature dependence of the hot-side specific
// heat. Keeping it temperature-dependent is what forces the combustor
// balance below to be iterative.
func cpHot(t float64) float64 {
	return cpCold * (1.0 + 1.8e-4*(t-288.15))
}

// Solve runs the cycle at one design point. It never returns an error:
// unusable inputs and non-converged states are reported through Status.
func Solve(in Input) Output {
	if in.Mach < 0 || in.BPR <= 0 || in.OPR < 1 ||
		in.EtaComp <= 0 || in.EtaComp > 1 ||
		in.EtaTurb <= 0 || in.EtaTurb > 1 ||
		in.EtaNozz <= 0 || in.EtaNozz > 1 ||
		in.FuelK <= 0 {
		return Output{Status: StatusNonphysical}
	}

	// ISA troposphere, clamped at the tropopause
	t0 := 288.15 - 6.5*in.AltKm
	if t0 < 216.65 {
		t0 = 216.65
	}
	v0 := in.Mach * math.Sqrt(1.4*gasR*t0)

	// Ram and compression
	tt2 := t0 * (1.0 + 0.2*in.Mach*in.Mach)
	dtComp := tt2 * (math.Pow(in.OPR, gammaExp) - 1.0) / in.EtaComp
	tt3 := tt2 + dtComp
	dtFan := tt2 * (math.Pow(fanPR, gammaExp) - 1.0) / in.EtaComp

	// Combustor exit temperature: damped fixed-point iteration on the
	// heat balance with temperature-dependent cp.
	t4 := tt3 + combDT*in.FuelK
	resid := math.Inf(1)
	iter := 0
	converged := false
	for iter = 1; iter <= in.MaxIter; iter++ {
		t4New := tt3 + in.FuelK*combDT*cpCold/cpHot(t4)
		resid = math.Abs(t4New-t4) / t4
		t4 += in.Damping * (t4New - t4)
		if t4 > 4000 {
			return Output{Status: StatusDiverged, Iterations: iter, Residual: resid, T4: t4}
		}
		if resid < in.Tol {
			converged = true
			break
		}
	}
	if !converged {
		return Output{Status: StatusMaxIter, Iterations: in.MaxIter, Residual: resid, T4: t4}
	}

	// Turbine work balance: core compressor plus fan, driven by the hot
	// stream.
	cph := cpHot(t4)
	workComp := cpCold * dtComp
	workFan := cpCold * dtFan * in.BPR
	t5 := t4 - (workComp+workFan)/(cph*in.EtaTurb)
	if t5 <= t0 {
		return Output{Status: StatusNonphysical, Iterations: iter, Residual: resid, T4: t4}
	}

	// Exhaust velocities and performance proxies
	veCore := in.EtaNozz * math.Sqrt(2.0*cph*(t5-t0))
	veByp := in.EtaNozz * math.Sqrt(2.0*cpCold*dtFan*in.EtaTurb)
	thrust := (veCore - v0) + in.BPR*(veByp-v0)
	if thrust <= 0 {
		return Output{Status: StatusNonphysical, Iterations: iter, Residual: resid, T4: t4}
	}
	thrustProxy := thrust / 1000.0

	far := cph * (t4 - tt3) / fuelLHV
	tsfc := far / thrustProxy

	status := StatusOK
	if in.T4Max > 0 && t4 > in.T4Max {
		status = StatusConstraintViol
	}

	return Output{
		Status:     status,
		Iterations: iter,
		Residual:   resid,
		T4:         t4,
		TSFC:       tsfc,
		Thrust:     thrustProxy,
	}
}
