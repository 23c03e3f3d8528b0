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
	"fmt"

	"github.com/google/binpack3d/cqm"
)

// addNonOverlapConstraints generates, for every unordered case pair, the
// exactly-one selector disjunction and the six directional separation
// inequalities per bin, each relaxed by a big-M term proportional to
// (2 - same_bin - selector) so that it binds only when both cases occupy the
// bin and that relation is selected. same_bin is the product of the two
// cases' assignment indicators, which is what makes the model quadratic; with
// a single bin the indicators are the constant 1 and the product folds away.
//
// The model deliberately does not prefer one separating axis over another:
// any satisfying selector is an equally valid proof of non-overlap.
//
// When multiple bins exist, each case is also pinned to exactly one bin.
func addNonOverlapConstraints(ctx *buildContext) {
	n := len(ctx.cases)

	if ctx.bins.Count > 1 {
		for i := 0; i < n; i++ {
			e := cqm.NewExpr()
			for j := 0; j < ctx.bins.Count; j++ {
				e.Add(ctx.vars.BinLoc[i][j])
			}
			ctx.b.AddLinearConstraint(e, 1, 1).WithName(fmt.Sprintf("one_bin_%d", i))
		}
	}

	for i := 0; i < n; i++ {
		for k := i + 1; k < n; k++ {
			sel := ctx.vars.Sel[Pair{i, k}]
			ctx.b.AddExactlyOne(sel...).WithName(fmt.Sprintf("sel_one_%d_%d", i, k))

			for j := 0; j < ctx.bins.Count; j++ {
				for r := 0; r < numSelectors; r++ {
					addSeparation(ctx, i, k, j, r, sel[r])
				}
			}
		}
	}
}

// addSeparation emits one directional separation inequality for the ordered
// relation r of pair (i, k) in bin j:
//
//	lead_end <= trail_start + M*(2 - bin_loc[i][j]*bin_loc[k][j] - sel)
//
// rewritten as lead_end - trail_start + M*same_bin + M*sel <= 2M.
func addSeparation(ctx *buildContext, i, k, j, r int, sel cqm.BoolVar) {
	var m float64
	var lead, trail int
	var pos []cqm.NumVar
	var ext func(int) *cqm.Expr

	// Relations 0,1 separate along x, 2,3 along y, 4,5 along z; the odd
	// relation of each axis swaps the roles of i and k.
	switch r / 2 {
	case 0:
		m, pos, ext = ctx.m.X, ctx.vars.X, func(c int) *cqm.Expr { return ctx.eff[c].DX }
	case 1:
		m, pos, ext = ctx.m.Y, ctx.vars.Y, func(c int) *cqm.Expr { return ctx.eff[c].DY }
	default:
		m, pos, ext = ctx.m.Z, ctx.vars.Z, func(c int) *cqm.Expr { return ctx.eff[c].DZ }
	}
	lead, trail = i, k
	if r%2 == 1 {
		lead, trail = k, i
	}

	e := cqm.NewExpr().
		Add(pos[lead]).
		Add(ext(lead)).
		AddTerm(pos[trail], -1).
		AddProduct(ctx.vars.BinLoc[i][j], ctx.vars.BinLoc[k][j], m).
		AddTerm(sel, m)
	ctx.b.AddLinearConstraint(e, negInf, 2*m).
		WithName(fmt.Sprintf("no_overlap_%d_%d_%d_%d", i, k, j, r))
}
