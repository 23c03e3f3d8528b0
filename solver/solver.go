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

// Package solver defines the backend-agnostic contract for solving a
// constrained quadratic model. Backends are opaque and capability-based: they
// accept a model and return a feasible assignment or an infeasibility signal.
// Callers must not depend on backend identity.
package solver

import (
	"context"
	"time"

	"github.com/google/binpack3d/cqm"
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusUnknown means the backend reported no usable outcome.
	StatusUnknown Status = iota
	// StatusOptimal means the assignment is feasible and proven optimal.
	StatusOptimal
	// StatusFeasible means the assignment is feasible but not proven optimal.
	StatusFeasible
	// StatusInfeasible means the model has no feasible assignment, or none was
	// found within the time budget.
	StatusInfeasible
	// StatusTimeout means the time budget expired with no feasible assignment.
	StatusTimeout
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	case StatusTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Feasible reports whether the result carries a usable assignment.
func (s Status) Feasible() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Options bound a single solve request.
type Options struct {
	// TimeLimit is the solve time budget. Zero means backend default.
	TimeLimit time.Duration
	// RelGap is the relative optimality gap at which a backend may stop early.
	// Zero means backend default.
	RelGap float64
}

// Result is the outcome of one solve. Assignment is populated only when
// Status is feasible; an infeasible or timed-out solve is a normal, non-error
// outcome.
type Result struct {
	Status     Status
	Assignment cqm.Assignment
	Objective  float64
	Runtime    time.Duration
}

// Solver is a solving backend. Solve blocks until a result is available, the
// options' time budget runs out, or ctx is done; it is the one potentially
// long-running call in the pipeline. A timeout surfaces as a Result with
// StatusTimeout (or StatusInfeasible), never as a panic or a fabricated
// placement.
type Solver interface {
	Solve(ctx context.Context, m *cqm.Model, opts Options) (*Result, error)
}
