// Copyright 2010-2025 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package highs adapts the HiGHS mixed-integer solver to the solver.Solver
// contract. HiGHS accepts no quadratic constraints, so models are linearized
// (McCormick rewriting of binary products) before conversion; assignments for
// the original variables are read back from the first len(m.Vars) columns.
package highs

import (
	"context"
	"fmt"
	"time"

	gohighs "github.com/bartolsthoorn/gohighs/highs"
	log "github.com/golang/glog"

	"github.com/google/binpack3d/cqm"
	"github.com/google/binpack3d/solver"
)

// Solver solves models with a local HiGHS instance.
type Solver struct{}

// New returns a HiGHS-backed solver.
func New() *Solver {
	return &Solver{}
}

// Solve implements solver.Solver.
func (s *Solver) Solve(ctx context.Context, m *cqm.Model, opts solver.Options) (*solver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lm, err := cqm.Linearize(m)
	if err != nil {
		return nil, fmt.Errorf("highs: %w", err)
	}
	hm := toHighsModel(lm)

	limit := opts.TimeLimit
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); limit == 0 || d < limit {
			limit = d
		}
	}
	solveOpts := []gohighs.SolveOption{gohighs.WithOutput(false)}
	if limit > 0 {
		solveOpts = append(solveOpts, gohighs.WithTimeLimit(limit.Seconds()))
	}
	if opts.RelGap > 0 {
		solveOpts = append(solveOpts, gohighs.WithMIPRelGap(opts.RelGap))
	}

	log.V(1).Infof("highs: solving %d vars, %d constraints, limit %v", len(lm.Vars), len(lm.Constrs), limit)
	start := time.Now()
	sol, err := hm.Solve(solveOpts...)
	if err != nil {
		return nil, fmt.Errorf("highs: %w", err)
	}

	res := &solver.Result{Runtime: time.Since(start)}
	switch {
	case sol.Status == gohighs.ModelStatusOptimal:
		res.Status = solver.StatusOptimal
	case sol.IsInfeasible():
		res.Status = solver.StatusInfeasible
	case sol.HasSolution():
		res.Status = solver.StatusFeasible
	case sol.IsTimeLimit():
		res.Status = solver.StatusTimeout
	default:
		res.Status = solver.StatusUnknown
	}
	if res.Status.Feasible() {
		res.Assignment = cqm.Assignment(sol.ColValues[:len(m.Vars)])
		res.Objective = m.ObjectiveValue(res.Assignment)
	}
	return res, nil
}

// toHighsModel converts a linear cqm model to the gohighs column/row form.
func toHighsModel(m *cqm.Model) *gohighs.Model {
	hm := &gohighs.Model{
		Maximize: m.Objective.Maximize,
		Offset:   m.Objective.Expr.Offset,
		ColCosts: make([]float64, len(m.Vars)),
		ColLower: make([]float64, len(m.Vars)),
		ColUpper: make([]float64, len(m.Vars)),
		VarTypes: make([]gohighs.VariableType, len(m.Vars)),
	}
	for i, v := range m.Vars {
		hm.ColLower[i] = v.Lb
		hm.ColUpper[i] = v.Ub
		if v.Type == cqm.Real {
			hm.VarTypes[i] = gohighs.Continuous
		} else {
			hm.VarTypes[i] = gohighs.Integer
		}
	}
	for _, t := range m.Objective.Expr.Terms {
		hm.ColCosts[t.Var] += t.Coeff
	}
	for i := range m.Constrs {
		c := &m.Constrs[i]
		// Merge repeated variables; HiGHS expects one entry per column.
		cols := make([]int, 0, len(c.Expr.Terms))
		vals := make([]float64, 0, len(c.Expr.Terms))
		at := make(map[cqm.VarIndex]int, len(c.Expr.Terms))
		for _, t := range c.Expr.Terms {
			if pos, ok := at[t.Var]; ok {
				vals[pos] += t.Coeff
				continue
			}
			at[t.Var] = len(cols)
			cols = append(cols, int(t.Var))
			vals = append(vals, t.Coeff)
		}
		hm.AddSparseRow(c.Lb-c.Expr.Offset, cols, vals, c.Ub-c.Expr.Offset)
	}
	return hm
}
