package cycle

import (
	"fmt"
	"math"
)

// SensitivityParams lists the perturbed inputs, in Jacobian row order.
var SensitivityParams = []string{"bpr", "opr", "eta_comp", "eta_turb", "mach", "alt_km"}

// SensitivityOutputs lists the observed outputs, in Jacobian column order.
var SensitivityOutputs = []string{"tsfc_proxy", "thrust_proxy", "t4", "iterations"}

// SensitivityResult holds the central-difference Jacobian of the solver
// outputs with respect to the perturbed inputs. Jacobian[i][j] is the
// derivative of SensitivityOutputs[j] with respect to SensitivityParams[i].
type SensitivityResult struct {
	Jacobian   [][]float64
	StepSizes  map[string]float64
	BaseValues map[string]float64
}

// Sensitivity computes finite-difference sensitivities around a base design
// point. Each parameter is perturbed by a relative step (absolute for an
// altitude near sea level, where the relative step degenerates), and the
// derivative is the central difference of the two perturbed solves. The base
// point must converge cleanly; perturbed solves are taken as-is.
func Sensitivity(base Input, step float64) (*SensitivityResult, error) {
	if step <= 0 {
		return nil, fmt.Errorf("sensitivity step must be positive, got %g", step)
	}

	out := Solve(base)
	if out.Status != StatusOK {
		return nil, fmt.Errorf("base design point does not converge: status %s", StatusName(out.Status))
	}

	perturbations := []struct {
		name  string
		value float64
		apply func(Input, float64) Input
	}{
		{"bpr", base.BPR, func(in Input, h float64) Input { in.BPR += h; return in }},
		{"opr", base.OPR, func(in Input, h float64) Input { in.OPR += h; return in }},
		{"eta_comp", base.EtaComp, func(in Input, h float64) Input { in.EtaComp += h; return in }},
		{"eta_turb", base.EtaTurb, func(in Input, h float64) Input { in.EtaTurb += h; return in }},
		{"mach", base.Mach, func(in Input, h float64) Input { in.Mach += h; return in }},
		{"alt_km", base.AltKm, func(in Input, h float64) Input { in.AltKm += h; return in }},
	}

	res := &SensitivityResult{
		Jacobian:   make([][]float64, 0, len(perturbations)),
		StepSizes:  make(map[string]float64, len(perturbations)),
		BaseValues: make(map[string]float64, len(perturbations)+len(SensitivityOutputs)),
	}
	res.BaseValues["tsfc_proxy"] = out.TSFC
	res.BaseValues["thrust_proxy"] = out.Thrust
	res.BaseValues["t4"] = out.T4
	res.BaseValues["iterations"] = float64(out.Iterations)

	for _, p := range perturbations {
		scale := p.value
		if p.name == "alt_km" {
			scale = math.Max(p.value, 1.0)
		}
		h := scale * step
		res.StepSizes[p.name] = h
		res.BaseValues[p.name] = p.value

		plus := Solve(p.apply(base, h))
		minus := Solve(p.apply(base, -h))

		twoH := 2.0 * h
		res.Jacobian = append(res.Jacobian, []float64{
			(plus.TSFC - minus.TSFC) / twoH,
			(plus.Thrust - minus.Thrust) / twoH,
			(plus.T4 - minus.T4) / twoH,
			(float64(plus.Iterations) - float64(minus.Iterations)) / twoH,
		})
	}

	return res, nil
}
