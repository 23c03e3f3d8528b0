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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCases_ExpandsQuantities(t *testing.T) {
	cases, err := LoadCases([]CaseSpec{
		{ID: 7, Quantity: 2, Length: 4, Width: 3, Height: 2, Weight: 5, LoadCapacity: 20},
		{ID: 9, Quantity: 1, Length: 1, Width: 1, Height: 1, Weight: 1, LoadCapacity: 1},
	})
	require.NoError(t, err)
	require.Len(t, cases, 3)

	// Expansion preserves spec order; instances are addressed by index.
	assert.Equal(t, []int{7, 7, 9}, []int{cases[0].ID, cases[1].ID, cases[2].ID})
	assert.Equal(t, cases[0], cases[1])
	assert.Equal(t, 24.0, cases[0].Volume())
	assert.Equal(t, 4.0, cases[0].MaxExtent())
	assert.Equal(t, 49.0, cases.TotalVolume())
}

func TestLoadCases_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		specs []CaseSpec
	}{
		{
			name:  "Empty",
			specs: nil,
		},
		{
			name:  "ZeroQuantity",
			specs: []CaseSpec{{ID: 1, Quantity: 0, Length: 1, Width: 1, Height: 1}},
		},
		{
			name:  "NegativeDimension",
			specs: []CaseSpec{{ID: 1, Quantity: 1, Length: -1, Width: 1, Height: 1}},
		},
		{
			name:  "NegativeWeight",
			specs: []CaseSpec{{ID: 1, Quantity: 1, Length: 1, Width: 1, Height: 1, Weight: -1}},
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadCases(test.specs)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestLoadBins_MinimumPoolSize(t *testing.T) {
	cases, err := LoadCases([]CaseSpec{
		{ID: 1, Quantity: 3, Length: 4, Width: 4, Height: 4, Weight: 1, LoadCapacity: 1},
	})
	require.NoError(t, err)

	// 3 * 64 = 192 of volume needs ceil(192/128) = 2 bins of 8x4x4.
	_, err = LoadBins(BinSpec{Length: 8, Width: 4, Height: 4, Count: 1}, cases)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 2, cfgErr.Required)
	assert.Equal(t, 1, cfgErr.Configured)

	bins, err := LoadBins(BinSpec{Length: 8, Width: 4, Height: 4, Count: 2}, cases)
	require.NoError(t, err)
	assert.Equal(t, 2, bins.Count)
	assert.Equal(t, 128.0, bins.Volume())
}

func TestLoadBins_ExactVolumeFit(t *testing.T) {
	// Two 4x4x4 cases exactly fill one 8x4x4 bin; an exact fit is not an error.
	cases, err := LoadCases([]CaseSpec{
		{ID: 1, Quantity: 2, Length: 4, Width: 4, Height: 4, Weight: 1, LoadCapacity: 1},
	})
	require.NoError(t, err)
	bins, err := LoadBins(BinSpec{Length: 8, Width: 4, Height: 4, Count: 1}, cases)
	require.NoError(t, err)
	assert.Equal(t, 1, bins.Count)
}

func TestLoadBins_Invalid(t *testing.T) {
	cases, err := LoadCases([]CaseSpec{{ID: 1, Quantity: 1, Length: 1, Width: 1, Height: 1}})
	require.NoError(t, err)

	var cfgErr *ConfigurationError
	_, err = LoadBins(BinSpec{Length: 0, Width: 4, Height: 4, Count: 1}, cases)
	require.ErrorAs(t, err, &cfgErr)
	_, err = LoadBins(BinSpec{Length: 4, Width: 4, Height: 4, Count: 0}, cases)
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, errors.As(err, &cfgErr))
}
