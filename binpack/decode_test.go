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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/binpack3d/cqm"
)

var oneCaseSpecs = []CaseSpec{
	{ID: 1, Quantity: 1, Length: 3, Width: 2, Height: 1, Weight: 1, LoadCapacity: 1},
}

func TestDecode_OrientationPermutations(t *testing.T) {
	m := mustBuild(t, oneCaseSpecs, BinSpec{Length: 4, Width: 4, Height: 4, Count: 1}, Options{})

	// Orientation k permutes (length, width, height) = (3, 2, 1) onto the axes.
	want := [][3]float64{
		{3, 2, 1},
		{3, 1, 2},
		{2, 3, 1},
		{2, 1, 3},
		{1, 3, 2},
		{1, 2, 3},
	}
	for k := 0; k < 6; k++ {
		a := assign(t, m, map[string]float64{
			fmt.Sprintf("orient_0_%d", k): 1,
		})
		layout, err := m.Decode(a)
		require.NoError(t, err)
		got := [3]float64{layout[0].Length, layout[0].Width, layout[0].Height}
		assert.Equal(t, want[k], got, "orientation %d", k)
		assert.Equal(t, k, layout[0].Orientation)
	}
}

func TestDecode_BinLocalCoordinates(t *testing.T) {
	m := mustBuild(t, oneCaseSpecs, BinSpec{Length: 4, Width: 4, Height: 4, Count: 2}, Options{})

	// Global x = 5 inside bin 1's slot [4, 8] decodes to local x = 1.
	a := assign(t, m, map[string]float64{
		"x_0":        5,
		"orient_0_0": 1,
		"bin_loc_0_1": 1,
		"bin_on_0":    1,
	})
	layout, err := m.Decode(a)
	require.NoError(t, err)
	assert.Equal(t, 1, layout[0].Bin)
	assert.Equal(t, 1.0, layout[0].X)
}

func TestDecode_Errors(t *testing.T) {
	single := mustBuild(t, oneCaseSpecs, BinSpec{Length: 4, Width: 4, Height: 4, Count: 1}, Options{})
	multi := mustBuild(t, oneCaseSpecs, BinSpec{Length: 4, Width: 4, Height: 4, Count: 2}, Options{})

	testCases := []struct {
		name string
		m    *Model
		a    cqm.Assignment
	}{
		{
			name: "TooShort",
			m:    single,
			a:    make(cqm.Assignment, 2),
		},
		{
			name: "NoOrientation",
			m:    single,
			a:    make(cqm.Assignment, len(single.CQM.Vars)),
		},
		{
			name: "MultipleOrientations",
			m:    single,
			a:    assign(t, single, map[string]float64{"orient_0_0": 1, "orient_0_3": 1}),
		},
		{
			name: "NoBin",
			m:    multi,
			a:    assign(t, multi, map[string]float64{"orient_0_0": 1}),
		},
		{
			name: "MultipleBins",
			m:    multi,
			a: assign(t, multi, map[string]float64{
				"orient_0_0": 1, "bin_loc_0_0": 1, "bin_loc_0_1": 1,
			}),
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.m.Decode(test.a)
			assert.Error(t, err)
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := Placement{Bin: 0, X: 0, Y: 0, Z: 0, Length: 4, Width: 4, Height: 4}
	testCases := []struct {
		name string
		b    Placement
		want bool
	}{
		{
			name: "Intersecting",
			b:    Placement{Bin: 0, X: 2, Y: 2, Z: 2, Length: 4, Width: 4, Height: 4},
			want: true,
		},
		{
			name: "Contained",
			b:    Placement{Bin: 0, X: 1, Y: 1, Z: 1, Length: 1, Width: 1, Height: 1},
			want: true,
		},
		{
			name: "TouchingFaces",
			b:    Placement{Bin: 0, X: 4, Y: 0, Z: 0, Length: 4, Width: 4, Height: 4},
			want: false,
		},
		{
			name: "Disjoint",
			b:    Placement{Bin: 0, X: 9, Y: 0, Z: 0, Length: 4, Width: 4, Height: 4},
			want: false,
		},
		{
			name: "DifferentBins",
			b:    Placement{Bin: 1, X: 0, Y: 0, Z: 0, Length: 4, Width: 4, Height: 4},
			want: false,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Overlaps(base, test.b))
			assert.Equal(t, test.want, Overlaps(test.b, base))
		})
	}
}
