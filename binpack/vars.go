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

// numOrientations is the number of axis-aligned rotations of a cuboid.
const numOrientations = 6

// numSelectors is the number of mutually exclusive separating relations
// proving two cases do not overlap (left/right/front/behind/below/above).
const numSelectors = 6

// Pair is an ordered pair of case indices.
type Pair struct {
	I, K int
}

// Variables is the full decision-variable schema of one packing model. All
// variables are created once at model-build time and never change identity
// afterwards; the solver populates their values.
type Variables struct {
	// X, Y, Z are each case's minimum corner in global coordinates. Bins are
	// laid out side by side along the x axis, bin j owning the slot
	// [j*Length, (j+1)*Length].
	X, Y, Z []cqm.NumVar

	// BinHeight is the height of the tallest case assigned to each bin.
	BinHeight []cqm.NumVar

	// BinLoc[i][j] indicates case i is assigned to bin j. With a single bin it
	// degenerates to the constant 1 so the trivial case carries no binary
	// overhead.
	BinLoc [][]cqm.LinearArgument

	// BinOn[j] indicates bin j is used by at least one case; constant 1 with a
	// single bin.
	BinOn []cqm.LinearArgument

	// Orient[i][k] indicates case i uses orientation k.
	Orient [][]cqm.BoolVar

	// Sel[{i,k}] (i < k) holds the six relative-position selectors resolving
	// the non-overlap disjunction for the pair.
	Sel map[Pair][]cqm.BoolVar

	// Contact[{j,i}] (ordered, j != i) indicates case i rests directly on top
	// of case j.
	Contact map[Pair]cqm.BoolVar

	// Slack[{j,i}] holds the three per-axis nonnegative slacks relaxing the
	// support alignment inequalities unless Contact[{j,i}] is active.
	Slack map[Pair][]cqm.NumVar

	// binLocBool and binOnBool retain the underlying binaries in the multi-bin
	// case for constraints that need BoolVar receivers.
	binLocBool [][]cqm.BoolVar
	binOnBool  []cqm.BoolVar
}

// bigM holds the named big-M constants of the model, derived so that each is
// provably larger than the maximum magnitude of the left-hand side it relaxes.
type bigM struct {
	// X covers x-axis position differences: positions range over the full
	// bin row [0, Count*Length] and an extent adds at most maxExtent.
	X float64
	// Y covers y-axis differences within the uniform bin width.
	Y float64
	// Z covers z-axis differences within a bin's height.
	Z float64
}

func deriveBigM(cases Cases, bins Bins) bigM {
	ext := cases.maxExtent()
	return bigM{
		X: float64(bins.Count)*bins.Length + ext,
		Y: bins.Width + ext,
		Z: bins.Height + ext,
	}
}

// newVariables allocates the full decision-variable schema on the builder.
// Creation order is fixed so that identical inputs produce identical variable
// indices.
func newVariables(b *cqm.Builder, cases Cases, bins Bins, m bigM) Variables {
	n := len(cases)
	v := Variables{
		X:         make([]cqm.NumVar, n),
		Y:         make([]cqm.NumVar, n),
		Z:         make([]cqm.NumVar, n),
		BinHeight: make([]cqm.NumVar, bins.Count),
		BinLoc:    make([][]cqm.LinearArgument, n),
		BinOn:     make([]cqm.LinearArgument, bins.Count),
		Orient:    make([][]cqm.BoolVar, n),
		Sel:       make(map[Pair][]cqm.BoolVar),
		Contact:   make(map[Pair]cqm.BoolVar),
		Slack:     make(map[Pair][]cqm.NumVar),
	}

	for i := range cases {
		v.X[i] = b.NewNumVar(0, float64(bins.Count)*bins.Length).WithName(fmt.Sprintf("x_%d", i))
	}
	for i := range cases {
		v.Y[i] = b.NewNumVar(0, bins.Width).WithName(fmt.Sprintf("y_%d", i))
	}
	for i := range cases {
		v.Z[i] = b.NewNumVar(0, bins.Height).WithName(fmt.Sprintf("z_%d", i))
	}
	for j := 0; j < bins.Count; j++ {
		v.BinHeight[j] = b.NewNumVar(0, bins.Height).WithName(fmt.Sprintf("bin_height_%d", j))
	}

	if bins.Count == 1 {
		one := cqm.NewConstant(1)
		for i := range cases {
			v.BinLoc[i] = []cqm.LinearArgument{one}
		}
		v.BinOn[0] = one
	} else {
		v.binLocBool = make([][]cqm.BoolVar, n)
		for i := range cases {
			v.BinLoc[i] = make([]cqm.LinearArgument, bins.Count)
			v.binLocBool[i] = make([]cqm.BoolVar, bins.Count)
			for j := 0; j < bins.Count; j++ {
				bl := b.NewBoolVar().WithName(fmt.Sprintf("bin_loc_%d_%d", i, j))
				v.binLocBool[i][j] = bl
				v.BinLoc[i][j] = bl
			}
		}
		v.binOnBool = make([]cqm.BoolVar, bins.Count)
		for j := 0; j < bins.Count; j++ {
			on := b.NewBoolVar().WithName(fmt.Sprintf("bin_on_%d", j))
			v.binOnBool[j] = on
			v.BinOn[j] = on
		}
	}

	for i := range cases {
		v.Orient[i] = make([]cqm.BoolVar, numOrientations)
		for k := 0; k < numOrientations; k++ {
			v.Orient[i][k] = b.NewBoolVar().WithName(fmt.Sprintf("orient_%d_%d", i, k))
		}
	}

	for i := 0; i < n; i++ {
		for k := i + 1; k < n; k++ {
			sel := make([]cqm.BoolVar, numSelectors)
			for r := 0; r < numSelectors; r++ {
				sel[r] = b.NewBoolVar().WithName(fmt.Sprintf("sel_%d_%d_%d", i, k, r))
			}
			v.Sel[Pair{i, k}] = sel
		}
	}

	slackBound := [3]float64{m.X, m.Y, m.Z}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			p := Pair{j, i}
			v.Contact[p] = b.NewBoolVar().WithName(fmt.Sprintf("contact_%d_%d", j, i))
			sl := make([]cqm.NumVar, 3)
			for a := 0; a < 3; a++ {
				sl[a] = b.NewNumVar(0, slackBound[a]).WithName(fmt.Sprintf("slack_%d_%d_%d", j, i, a))
			}
			v.Slack[p] = sl
		}
	}

	return v
}

// buildContext threads the immutable inputs of model construction through the
// constraint generators; there is no ambient or process-wide state.
type buildContext struct {
	b     *cqm.Builder
	cases Cases
	bins  Bins
	vars  Variables
	m     bigM
	opts  Options

	// eff is populated by the orientation generator and consumed opaquely by
	// every later generator.
	eff []EffectiveDims
}
