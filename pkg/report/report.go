// Package report writes optimization and sweep results to CSV and JSON.
// Serialization lives here, outside the optimizer core, which only ever
// produces in-memory result objects.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/cstnsystems/minotaur/pkg/cycle"
	"github.com/cstnsystems/minotaur/pkg/multiobjective/framework"
)

const (
	SchemaVersion = "1.0.0"
	SolverVersion = "1.1.0"
	ProgramID     = "CSTNSystems-MINOTAUR"
)

// Manifest records the provenance of a result bundle.
type Manifest struct {
	SchemaVersion string `json:"schemaVersion"`
	SolverVersion string `json:"solverVersion"`
	ProgramID     string `json:"programId"`
	TimestampUTC  string `json:"timestampUtc"`
	Platform      string `json:"platform"`
	ConfigHash    string `json:"configHash"`
}

// NewManifest builds a manifest over the raw configuration text.
func NewManifest(configText []byte) Manifest {
	h := fnv.New64a()
	h.Write(configText)
	return Manifest{
		SchemaVersion: SchemaVersion,
		SolverVersion: SolverVersion,
		ProgramID:     ProgramID,
		TimestampUTC:  time.Now().UTC().Format(time.RFC3339),
		Platform:      runtime.GOOS,
		ConfigHash:    fmt.Sprintf("%016x", h.Sum64()),
	}
}

// ParetoSolution is one front member in a JSON bundle, with the negated
// thrust objective converted back to a positive number.
type ParetoSolution struct {
	BPR              float64 `json:"bpr"`
	OPR              float64 `json:"opr"`
	EtaComp          float64 `json:"etaComp"`
	EtaTurb          float64 `json:"etaTurb"`
	TSFC             float64 `json:"tsfc"`
	Thrust           float64 `json:"thrust"`
	T4               float64 `json:"t4"`
	Status           int     `json:"status"`
	Rank             int     `json:"rank"`
	CrowdingDistance float64 `json:"crowdingDistance"`
}

// OptimizationBundle is the full JSON output of an optimize run.
type OptimizationBundle struct {
	Manifest    Manifest         `json:"manifest"`
	Objectives  []string         `json:"objectives"`
	ParetoFront []ParetoSolution `json:"paretoFront"`
	Hypervolume *float64         `json:"hypervolume,omitempty"`
	Generations int              `json:"generations"`
	Evaluations int              `json:"evaluations"`
	WallTimeMS  float64          `json:"wallTimeMs"`
}

// NewParetoSolutions converts front individuals into their serializable
// form. Infinite crowding distances are encoded as -1, matching the CSV
// convention.
func NewParetoSolutions(front []framework.Individual) []ParetoSolution {
	solutions := make([]ParetoSolution, len(front))
	for i, ind := range front {
		solutions[i] = ParetoSolution{
			BPR:              ind.X[cycle.VarBPR],
			OPR:              ind.X[cycle.VarOPR],
			EtaComp:          ind.X[cycle.VarEtaComp],
			EtaTurb:          ind.X[cycle.VarEtaTurb],
			TSFC:             ind.F[0],
			Thrust:           -ind.F[1],
			T4:               ind.Outputs[0],
			Status:           ind.Status,
			Rank:             ind.Rank,
			CrowdingDistance: finiteDistance(ind.Distance),
		}
	}
	return solutions
}

// WriteFrontCSV writes a Pareto front in the pareto_front.csv layout.
func WriteFrontCSV(path string, front []framework.Individual) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "rank,crowding,bpr,opr,eta_comp,eta_turb,tsfc,thrust,t4,status")
	for _, ind := range front {
		fmt.Fprintf(w, "%d,%.4f,%.4f,%.4f,%.4f,%.4f,%.6f,%.6f,%.2f,%d\n",
			ind.Rank,
			finiteDistance(ind.Distance),
			ind.X[cycle.VarBPR],
			ind.X[cycle.VarOPR],
			ind.X[cycle.VarEtaComp],
			ind.X[cycle.VarEtaTurb],
			ind.F[0],
			-ind.F[1],
			ind.Outputs[0],
			ind.Status)
	}
	return w.Flush()
}

// RunSummary is the solved state of a single-point run.
type RunSummary struct {
	Status     int     `json:"status"`
	StatusName string  `json:"statusName"`
	Iterations int     `json:"iterations"`
	Residual   float64 `json:"residual"`
	T4         float64 `json:"t4"`
	TSFC       float64 `json:"tsfc"`
	Thrust     float64 `json:"thrust"`
	WallTimeMS float64 `json:"wallTimeMs"`
}

// RunBundle is the JSON output of a run invocation.
type RunBundle struct {
	Manifest Manifest   `json:"manifest"`
	Summary  RunSummary `json:"summary"`
}

// NewRunSummary converts a solver output into its serializable form.
func NewRunSummary(out cycle.Output, wallTimeMS float64) RunSummary {
	return RunSummary{
		Status:     out.Status,
		StatusName: cycle.StatusName(out.Status),
		Iterations: out.Iterations,
		Residual:   out.Residual,
		T4:         out.T4,
		TSFC:       out.TSFC,
		Thrust:     out.Thrust,
		WallTimeMS: wallTimeMS,
	}
}

// SensitivityBundle is the JSON output of a sensitivity invocation.
type SensitivityBundle struct {
	Manifest   Manifest           `json:"manifest"`
	Parameters []string           `json:"parameters"`
	Outputs    []string           `json:"outputs"`
	Jacobian   [][]float64        `json:"jacobian"`
	StepSizes  map[string]float64 `json:"stepSizes"`
	BaseValues map[string]float64 `json:"baseValues"`
}

// NewSensitivityBundle attaches provenance to a sensitivity result.
func NewSensitivityBundle(res *cycle.SensitivityResult, manifest Manifest) SensitivityBundle {
	return SensitivityBundle{
		Manifest:   manifest,
		Parameters: cycle.SensitivityParams,
		Outputs:    cycle.SensitivityOutputs,
		Jacobian:   res.Jacobian,
		StepSizes:  res.StepSizes,
		BaseValues: res.BaseValues,
	}
}

// WriteSensitivityCSV writes the Jacobian, one row per perturbed parameter.
func WriteSensitivityCSV(path string, res *cycle.SensitivityResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "parameter,tsfc_proxy,thrust_proxy,t4,iterations")
	for i, param := range cycle.SensitivityParams {
		row := res.Jacobian[i]
		fmt.Fprintf(w, "%s,%.6e,%.6e,%.6e,%.6e\n", param, row[0], row[1], row[2], row[3])
	}
	return w.Flush()
}

// SweepRow is one grid point of a bpr x opr sweep.
type SweepRow struct {
	Case   string
	BPR    float64
	OPR    float64
	Mach   float64
	AltKm  float64
	Output cycle.Output
}

// WriteSweepCSV writes sweep results in the out_sweep.csv layout.
func WriteSweepCSV(path string, rows []SweepRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "case,bpr,opr,mach,alt_km,status,converged,iter,final_residual,t4,tsfc_proxy,thrust_proxy")
	for _, r := range rows {
		fmt.Fprintf(w, "%s,%.6f,%.6f,%.4f,%.4f,%d,%t,%d,%.6e,%.2f,%.6f,%.6f\n",
			r.Case,
			r.BPR,
			r.OPR,
			r.Mach,
			r.AltKm,
			r.Output.Status,
			r.Output.Status == cycle.StatusOK,
			r.Output.Iterations,
			r.Output.Residual,
			r.Output.T4,
			r.Output.TSFC,
			r.Output.Thrust)
	}
	return w.Flush()
}

// WriteJSON writes any bundle as pretty-printed JSON.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func finiteDistance(d float64) float64 {
	if math.IsInf(d, 1) {
		return -1.0
	}
	return d
}
