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

// addBinUsageConstraints links bin-usage indicators to case assignments and
// breaks the permuted-bin symmetry. Skipped entirely for a single bin, where
// both variable families are the constant 1.
func addBinUsageConstraints(ctx *buildContext) {
	if ctx.bins.Count == 1 {
		return
	}

	n := float64(len(ctx.cases))
	for j := 0; j < ctx.bins.Count; j++ {
		// Unused bins hold no cases: sum_i bin_loc[i][j] <= n * bin_on[j].
		e := cqm.NewExpr()
		for i := range ctx.cases {
			e.Add(ctx.vars.BinLoc[i][j])
		}
		e.AddTerm(ctx.vars.BinOn[j], -n)
		ctx.b.AddLinearConstraint(e, negInf, 0).WithName(fmt.Sprintf("bin_link_%d", j))
	}

	// Bins fill in index order: bin_on[j] >= bin_on[j+1].
	for j := 0; j+1 < ctx.bins.Count; j++ {
		ctx.b.AddGreaterOrEqual(ctx.vars.BinOn[j], ctx.vars.BinOn[j+1]).
			WithName(fmt.Sprintf("bin_order_%d", j))
	}
}
