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
	"github.com/google/binpack3d/cqm"
)

// ObjectiveWeights weighs the three terms of the minimization objective.
type ObjectiveWeights struct {
	// MeanHeight weighs the mean top height over all cases, biasing toward
	// flat, low packings.
	MeanHeight float64
	// BinHeights weighs the sum of each bin's achieved top height, penalizing
	// tall stacks.
	BinHeights float64
	// BinCount weighs bin height times the number of used bins, penalizing
	// spreading cases across more bins than necessary.
	BinCount float64
}

// DefaultObjectiveWeights weighs every term 1.0.
func DefaultObjectiveWeights() ObjectiveWeights {
	return ObjectiveWeights{MeanHeight: 1, BinHeights: 1, BinCount: 1}
}

// addObjective combines the three weighted terms into a single minimization
// objective.
func addObjective(ctx *buildContext) {
	w := ctx.opts.Weights
	if w == (ObjectiveWeights{}) {
		w = DefaultObjectiveWeights()
	}
	n := float64(len(ctx.cases))

	obj := cqm.NewExpr()
	for i := range ctx.cases {
		obj.AddTerm(ctx.vars.Z[i], w.MeanHeight/n)
		obj.AddTerm(ctx.eff[i].DZ, w.MeanHeight/n)
	}
	for j := 0; j < ctx.bins.Count; j++ {
		obj.AddTerm(ctx.vars.BinHeight[j], w.BinHeights)
	}
	for j := 0; j < ctx.bins.Count; j++ {
		obj.AddTerm(ctx.vars.BinOn[j], w.BinCount*ctx.bins.Height)
	}
	ctx.b.Minimize(obj)
}
