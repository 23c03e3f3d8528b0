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

// Placement is the decoded physical layout of one case: its minimum corner in
// bin-local coordinates, the chosen orientation, the assigned bin, and the
// effective dimensions after orientation.
type Placement struct {
	CaseID      int
	Index       int
	Bin         int
	Orientation int
	X, Y, Z     float64
	Length      float64
	Width       float64
	Height      float64
}

// Decode maps a feasible assignment back to case placements. The effective
// dimensions are re-derived from the solved orientation indicators through the
// same permutation table the model was built from.
func (m *Model) Decode(a cqm.Assignment) ([]Placement, error) {
	if len(a) < len(m.CQM.Vars) {
		return nil, fmt.Errorf("binpack: assignment has %d values, model has %d variables", len(a), len(m.CQM.Vars))
	}

	out := make([]Placement, len(m.Cases))
	for i, c := range m.Cases {
		orientation := -1
		for k := 0; k < numOrientations; k++ {
			if cqm.SolutionBooleanValue(a, m.Vars.Orient[i][k]) {
				if orientation >= 0 {
					return nil, fmt.Errorf("binpack: case %d has multiple active orientations", i)
				}
				orientation = k
			}
		}
		if orientation < 0 {
			return nil, fmt.Errorf("binpack: case %d has no active orientation", i)
		}

		bin := 0
		if m.Bins.Count > 1 {
			bin = -1
			for j := 0; j < m.Bins.Count; j++ {
				if cqm.SolutionValue(a, m.Vars.BinLoc[i][j]) > 0.5 {
					if bin >= 0 {
						return nil, fmt.Errorf("binpack: case %d assigned to multiple bins", i)
					}
					bin = j
				}
			}
			if bin < 0 {
				return nil, fmt.Errorf("binpack: case %d assigned to no bin", i)
			}
		}

		ext := orientationExtents(c)[orientation]
		out[i] = Placement{
			CaseID:      c.ID,
			Index:       i,
			Bin:         bin,
			Orientation: orientation,
			X:           cqm.SolutionValue(a, m.Vars.X[i]) - float64(bin)*m.Bins.Length,
			Y:           cqm.SolutionValue(a, m.Vars.Y[i]),
			Z:           cqm.SolutionValue(a, m.Vars.Z[i]),
			Length:      ext[0],
			Width:       ext[1],
			Height:      ext[2],
		}
	}
	return out, nil
}

// Overlaps reports whether the two placements in the same bin intersect with
// positive volume.
func Overlaps(a, b Placement) bool {
	if a.Bin != b.Bin {
		return false
	}
	return a.X < b.X+b.Length && b.X < a.X+a.Length &&
		a.Y < b.Y+b.Width && b.Y < a.Y+a.Width &&
		a.Z < b.Z+b.Height && b.Z < a.Z+a.Height
}
