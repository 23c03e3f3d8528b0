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

package solver

import "testing"

func TestStatus(t *testing.T) {
	testCases := []struct {
		status       Status
		wantString   string
		wantFeasible bool
	}{
		{StatusUnknown, "Unknown", false},
		{StatusOptimal, "Optimal", true},
		{StatusFeasible, "Feasible", true},
		{StatusInfeasible, "Infeasible", false},
		{StatusTimeout, "Timeout", false},
		{Status(42), "Unknown", false},
	}
	for _, test := range testCases {
		t.Run(test.wantString, func(t *testing.T) {
			if got := test.status.String(); got != test.wantString {
				t.Errorf("Status(%d).String() = %q, want %q", test.status, got, test.wantString)
			}
			if got := test.status.Feasible(); got != test.wantFeasible {
				t.Errorf("Status(%d).Feasible() = %v, want %v", test.status, got, test.wantFeasible)
			}
		})
	}
}
