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

package binpack

import (
	"context"
	"fmt"
	"math"

	"github.com/google/binpack3d/cqm"
	"github.com/google/binpack3d/solver"
)

var negInf = math.Inf(-1)

// Options is the configuration surface of model construction.
type Options struct {
	// Weights weighs the objective terms; the zero value means
	// DefaultObjectiveWeights.
	Weights ObjectiveWeights

	// OrientationCapacity returns the load-bearing capacity of the case's face
	// that is up under the given orientation. Nil means the declared scalar
	// capacity for every orientation.
	OrientationCapacity func(c Case, orientation int) float64
}

// Model is a built packing model: the constrained quadratic model, the
// variable schema referencing it, and the derived effective-dimensions table.
// It is immutable after Build.
type Model struct {
	CQM   *cqm.Model
	Cases Cases
	Bins  Bins
	Vars  Variables

	// Eff is the per-case effective-dimensions table, reused by the decoder.
	Eff []EffectiveDims
}

// Build assembles the packing model. Generators run in a fixed order —
// orientation first, since every geometric constraint references the derived
// extents — and each only appends independent constraint records.
func Build(cases Cases, bins Bins, opts Options) (*Model, error) {
	b := cqm.NewBuilder()
	m := deriveBigM(cases, bins)
	ctx := &buildContext{
		b:     b,
		cases: cases,
		bins:  bins,
		vars:  newVariables(b, cases, bins, m),
		m:     m,
		opts:  opts,
	}

	addOrientationConstraints(ctx)
	addBinUsageConstraints(ctx)
	addNonOverlapConstraints(ctx)
	addBoundaryConstraints(ctx)
	addSupportConstraints(ctx)
	addObjective(ctx)

	built, err := b.Model()
	if err != nil {
		return nil, fmt.Errorf("binpack: assembling model: %w", err)
	}
	return &Model{
		CQM:   built,
		Cases: cases,
		Bins:  bins,
		Vars:  ctx.vars,
		Eff:   ctx.eff,
	}, nil
}

// Pack builds the model for the given geometry, hands it to the solver within
// the caller's context, and decodes the result. An infeasible or timed-out
// solve is a normal outcome: Pack returns a nil layout together with the
// solver result and no error, and the decoder is not invoked.
func Pack(ctx context.Context, s solver.Solver, cases Cases, bins Bins, opts Options, sopts solver.Options) ([]Placement, *solver.Result, error) {
	m, err := Build(cases, bins, opts)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.Solve(ctx, m.CQM, sopts)
	if err != nil {
		return nil, nil, fmt.Errorf("binpack: solve: %w", err)
	}
	if !res.Status.Feasible() {
		return nil, res, nil
	}
	layout, err := m.Decode(res.Assignment)
	if err != nil {
		return nil, res, err
	}
	return layout, res, nil
}
