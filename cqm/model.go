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

package cqm

import (
	"fmt"
	"math"
)

// VarDef describes one variable of a built model.
type VarDef struct {
	Name string
	Type VarType
	Lb   float64
	Ub   float64
}

// ConstrDef describes one constraint of a built model: Lb <= Expr <= Ub.
// Either bound may be infinite.
type ConstrDef struct {
	Name string
	Expr Expr
	Lb   float64
	Ub   float64
}

// Objective is the objective of a built model. The zero value is an empty
// minimization objective.
type Objective struct {
	Expr     Expr
	Maximize bool
}

// Model is an immutable snapshot of a constrained quadratic model.
type Model struct {
	Vars      []VarDef
	Constrs   []ConstrDef
	Objective Objective
}

// IsQuadratic reports whether any constraint or the objective carries
// quadratic terms.
func (m *Model) IsQuadratic() bool {
	if m.Objective.Expr.IsQuadratic() {
		return true
	}
	for i := range m.Constrs {
		if m.Constrs[i].Expr.IsQuadratic() {
			return true
		}
	}
	return false
}

// Assignment maps every variable of a model to a numeric value, indexed by
// VarIndex.
type Assignment []float64

// SolutionValue returns the value of the LinearArgument under the assignment.
func SolutionValue(a Assignment, la LinearArgument) float64 {
	return la.evaluate(a)
}

// SolutionBooleanValue returns the value of the binary variable under the
// assignment, using a 0.5 threshold to absorb solver round-off.
func SolutionBooleanValue(a Assignment, bv BoolVar) bool {
	return a[bv.ind] > 0.5
}

// Violation describes a constraint or variable bound violated by an
// assignment.
type Violation struct {
	// Constr is the index of the violated constraint, or -1 for a variable
	// bound or integrality violation.
	Constr ConstrIndex
	// Var is the index of the violated variable, or -1 for a constraint
	// violation.
	Var VarIndex
	// Amount is the absolute amount by which the assignment misses the bound.
	Amount float64
	// Desc is a human-readable description.
	Desc string
}

// Violations returns all constraints and variable bounds the assignment
// violates by more than tol. A nil return means the assignment is feasible.
func (m *Model) Violations(a Assignment, tol float64) []Violation {
	var out []Violation
	if len(a) != len(m.Vars) {
		return []Violation{{Constr: -1, Var: -1, Amount: math.Inf(1),
			Desc: fmt.Sprintf("assignment has %d values, model has %d variables", len(a), len(m.Vars))}}
	}
	for i, v := range m.Vars {
		val := a[i]
		if d := v.Lb - val; d > tol {
			out = append(out, Violation{Constr: -1, Var: VarIndex(i), Amount: d,
				Desc: fmt.Sprintf("variable %s below lower bound: %v < %v", m.varName(VarIndex(i)), val, v.Lb)})
		}
		if d := val - v.Ub; d > tol {
			out = append(out, Violation{Constr: -1, Var: VarIndex(i), Amount: d,
				Desc: fmt.Sprintf("variable %s above upper bound: %v > %v", m.varName(VarIndex(i)), val, v.Ub)})
		}
		if v.Type != Real {
			if d := math.Abs(val - math.Round(val)); d > tol {
				out = append(out, Violation{Constr: -1, Var: VarIndex(i), Amount: d,
					Desc: fmt.Sprintf("variable %s not integral: %v", m.varName(VarIndex(i)), val)})
			}
		}
	}
	for i := range m.Constrs {
		c := &m.Constrs[i]
		val := c.Expr.Evaluate(a)
		if d := c.Lb - val; d > tol {
			out = append(out, Violation{Constr: ConstrIndex(i), Var: -1, Amount: d,
				Desc: fmt.Sprintf("constraint %s below lower bound: %v < %v", m.constrName(ConstrIndex(i)), val, c.Lb)})
		}
		if d := val - c.Ub; d > tol {
			out = append(out, Violation{Constr: ConstrIndex(i), Var: -1, Amount: d,
				Desc: fmt.Sprintf("constraint %s above upper bound: %v > %v", m.constrName(ConstrIndex(i)), val, c.Ub)})
		}
	}
	return out
}

// ObjectiveValue returns the objective value of the assignment.
func (m *Model) ObjectiveValue(a Assignment) float64 {
	return m.Objective.Expr.Evaluate(a)
}

func (m *Model) varName(i VarIndex) string {
	if n := m.Vars[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("v%d", i)
}

func (m *Model) constrName(i ConstrIndex) string {
	if n := m.Constrs[i].Name; n != "" {
		return n
	}
	return fmt.Sprintf("c%d", i)
}
