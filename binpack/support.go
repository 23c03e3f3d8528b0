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

// addSupportConstraints models stacking as a single nearest-support relation.
//
// For every ordered pair (j supporter, i supported) a contact indicator and
// three per-axis slacks encode:
//
//   - alignment: when contact holds, i's bottom face sits exactly on j's top
//     face and i's horizontal footprint lies within j's (full-support policy:
//     contact requires full footprint support and then grants the supporter's
//     full capacity — no fractional-area derating). Each alignment inequality
//     is relaxed by the pair's axis slack, and the slack is forced to zero by
//     the contact indicator; footprint containment along x also forces both
//     cases into the same bin slot.
//   - gravity: every case rests on the floor or on exactly one supporter.
//   - capacity: the weight transmitted through a case's top face must not
//     exceed its load-bearing capacity for the orientation whose face is up.
func addSupportConstraints(ctx *buildContext) {
	n := len(ctx.cases)
	slackBound := [3]float64{ctx.m.X, ctx.m.Y, ctx.m.Z}

	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			p := Pair{j, i}
			c := ctx.vars.Contact[p]
			sl := ctx.vars.Slack[p]

			// slack_a <= M_a * (1 - contact).
			for a := 0; a < 3; a++ {
				e := cqm.NewExpr().Add(sl[a]).AddTerm(c, slackBound[a])
				ctx.b.AddLinearConstraint(e, negInf, slackBound[a]).
					WithName(fmt.Sprintf("slack_gate_%d_%d_%d", j, i, a))
			}

			// x_i >= x_j - slack_x and x_i + dx_i <= x_j + dx_j + slack_x.
			lo := cqm.NewExpr().
				Add(ctx.vars.X[j]).
				AddTerm(ctx.vars.X[i], -1).
				AddTerm(sl[0], -1)
			ctx.b.AddLinearConstraint(lo, negInf, 0).
				WithName(fmt.Sprintf("support_x_lo_%d_%d", j, i))
			hi := cqm.NewExpr().
				Add(ctx.vars.X[i]).
				Add(ctx.eff[i].DX).
				AddTerm(ctx.vars.X[j], -1).
				AddTerm(ctx.eff[j].DX, -1).
				AddTerm(sl[0], -1)
			ctx.b.AddLinearConstraint(hi, negInf, 0).
				WithName(fmt.Sprintf("support_x_hi_%d_%d", j, i))

			// Same along y.
			lo = cqm.NewExpr().
				Add(ctx.vars.Y[j]).
				AddTerm(ctx.vars.Y[i], -1).
				AddTerm(sl[1], -1)
			ctx.b.AddLinearConstraint(lo, negInf, 0).
				WithName(fmt.Sprintf("support_y_lo_%d_%d", j, i))
			hi = cqm.NewExpr().
				Add(ctx.vars.Y[i]).
				Add(ctx.eff[i].DY).
				AddTerm(ctx.vars.Y[j], -1).
				AddTerm(ctx.eff[j].DY, -1).
				AddTerm(sl[1], -1)
			ctx.b.AddLinearConstraint(hi, negInf, 0).
				WithName(fmt.Sprintf("support_y_hi_%d_%d", j, i))

			// z_j + dz_j - slack_z <= z_i <= z_j + dz_j + slack_z.
			zhi := cqm.NewExpr().
				Add(ctx.vars.Z[i]).
				AddTerm(ctx.vars.Z[j], -1).
				AddTerm(ctx.eff[j].DZ, -1).
				AddTerm(sl[2], -1)
			ctx.b.AddLinearConstraint(zhi, negInf, 0).
				WithName(fmt.Sprintf("support_z_hi_%d_%d", j, i))
			zlo := cqm.NewExpr().
				Add(ctx.vars.Z[j]).
				Add(ctx.eff[j].DZ).
				AddTerm(ctx.vars.Z[i], -1).
				AddTerm(sl[2], -1)
			ctx.b.AddLinearConstraint(zlo, negInf, 0).
				WithName(fmt.Sprintf("support_z_lo_%d_%d", j, i))
		}
	}

	for i := 0; i < n; i++ {
		// At most one direct supporter, and a case off the floor must have one.
		supports := cqm.NewExpr()
		for j := 0; j < n; j++ {
			if j != i {
				supports.Add(ctx.vars.Contact[Pair{j, i}])
			}
		}
		ctx.b.AddLinearConstraint(supports, negInf, 1).
			WithName(fmt.Sprintf("one_support_%d", i))

		grounded := cqm.NewExpr().
			Add(ctx.vars.Z[i]).
			AddTerm(supports, -ctx.m.Z)
		ctx.b.AddLinearConstraint(grounded, negInf, 0).
			WithName(fmt.Sprintf("gravity_%d", i))
	}

	// Imposed load must not exceed the capacity of the face actually up:
	// sum_i weight_i*contact[j][i] <= sum_k cap_k(j)*orient[j][k]. A case with
	// nothing on it has zero imposed load and the constraint is vacuous.
	capFor := ctx.opts.OrientationCapacity
	if capFor == nil {
		capFor = func(c Case, _ int) float64 { return c.LoadCapacity }
	}
	for j := 0; j < n; j++ {
		e := cqm.NewExpr()
		for i := 0; i < n; i++ {
			if i != j {
				e.AddTerm(ctx.vars.Contact[Pair{j, i}], ctx.cases[i].Weight)
			}
		}
		for k := 0; k < numOrientations; k++ {
			e.AddTerm(ctx.vars.Orient[j][k], -capFor(ctx.cases[j], k))
		}
		ctx.b.AddLinearConstraint(e, negInf, 0).
			WithName(fmt.Sprintf("capacity_%d", j))
	}
}
