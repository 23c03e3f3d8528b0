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

// EffectiveDims are a case's derived extents along x, y, z after orientation:
// the weighted sum of the orientation indicators and the six permuted extent
// triples. They are expressions over the orientation variables, not primary
// variables.
type EffectiveDims struct {
	DX, DY, DZ *cqm.Expr
}

// orientationExtents returns the six axis-aligned permutations of the case's
// (length, width, height), indexed by orientation. This table is the single
// definition of orientation semantics; the decoder re-derives effective
// dimensions from it with the solved orientation assignment.
func orientationExtents(c Case) [numOrientations][3]float64 {
	l, w, h := c.Length, c.Width, c.Height
	return [numOrientations][3]float64{
		{l, w, h},
		{l, h, w},
		{w, l, h},
		{w, h, l},
		{h, l, w},
		{h, w, l},
	}
}

// addOrientationConstraints builds each case's effective dimensions as a
// weighted sum over its orientation indicators and adds the exactly-one
// orientation constraint. The derived extents are stored on the context for
// every later generator.
func addOrientationConstraints(ctx *buildContext) {
	ctx.eff = make([]EffectiveDims, len(ctx.cases))
	for i, c := range ctx.cases {
		perms := orientationExtents(c)
		dx, dy, dz := cqm.NewExpr(), cqm.NewExpr(), cqm.NewExpr()
		for k := 0; k < numOrientations; k++ {
			o := ctx.vars.Orient[i][k]
			dx.AddTerm(o, perms[k][0])
			dy.AddTerm(o, perms[k][1])
			dz.AddTerm(o, perms[k][2])
		}
		ctx.eff[i] = EffectiveDims{DX: dx, DY: dy, DZ: dz}

		ctx.b.AddExactlyOne(ctx.vars.Orient[i]...).WithName(fmt.Sprintf("orient_one_%d", i))
	}
}
