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

// addBoundaryConstraints keeps every case inside its assigned bin. Bin j owns
// the x slot [j*Length, (j+1)*Length]; the top and slot inequalities are
// relaxed unless the case is assigned to the bin, while the width bound is
// uniform across bins and therefore unconditional. The lower position bounds
// are carried by the variable domains.
func addBoundaryConstraints(ctx *buildContext) {
	for i := range ctx.cases {
		// y_i + dy_i <= bin width, independent of assignment.
		e := cqm.NewExpr().Add(ctx.vars.Y[i]).Add(ctx.eff[i].DY)
		ctx.b.AddLinearConstraint(e, negInf, ctx.bins.Width).
			WithName(fmt.Sprintf("width_%d", i))

		for j := 0; j < ctx.bins.Count; j++ {
			bl := ctx.vars.BinLoc[i][j]

			// z_i + dz_i <= bin_height[j] + Mz*(1 - bin_loc[i][j]).
			top := cqm.NewExpr().
				Add(ctx.vars.Z[i]).
				Add(ctx.eff[i].DZ).
				AddTerm(ctx.vars.BinHeight[j], -1).
				AddTerm(bl, ctx.m.Z)
			ctx.b.AddLinearConstraint(top, negInf, ctx.m.Z).
				WithName(fmt.Sprintf("top_%d_%d", i, j))

			// x_i + dx_i <= (j+1)*L + Mx*(1 - bin_loc[i][j]).
			right := cqm.NewExpr().
				Add(ctx.vars.X[i]).
				Add(ctx.eff[i].DX).
				AddTerm(bl, ctx.m.X)
			ctx.b.AddLinearConstraint(right, negInf, float64(j+1)*ctx.bins.Length+ctx.m.X).
				WithName(fmt.Sprintf("slot_right_%d_%d", i, j))

			// x_i >= j*L - Mx*(1 - bin_loc[i][j]).
			left := cqm.NewExpr().
				AddTerm(ctx.vars.X[i], -1).
				AddTerm(bl, ctx.m.X)
			ctx.b.AddLinearConstraint(left, negInf, ctx.m.X-float64(j)*ctx.bins.Length).
				WithName(fmt.Sprintf("slot_left_%d_%d", i, j))
		}
	}
}
