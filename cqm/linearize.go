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
	"errors"
	"fmt"
	"math"
)

// ErrNotLinearizable is returned when a quadratic term involves a
// non-binary variable and cannot be rewritten exactly.
var ErrNotLinearizable = errors.New("quadratic term on non-binary variables cannot be linearized")

// Linearize rewrites every binary-times-binary product of the model through an
// auxiliary binary variable with the standard McCormick envelope
// (w <= u, w <= v, w >= u + v - 1), returning a purely linear model for
// backends that do not accept quadratic terms.
//
// Indices of the original variables are preserved; auxiliary variables are
// appended after them, so an assignment for the linearized model restricted to
// the first len(m.Vars) entries is an assignment for the original model.
func Linearize(m *Model) (*Model, error) {
	if !m.IsQuadratic() {
		return m, nil
	}

	lm := &Model{
		Vars:    make([]VarDef, len(m.Vars), len(m.Vars)+8),
		Constrs: make([]ConstrDef, 0, len(m.Constrs)),
	}
	copy(lm.Vars, m.Vars)

	// One auxiliary per distinct unordered binary pair, shared across
	// constraints and the objective.
	aux := make(map[[2]VarIndex]VarIndex)

	product := func(u, v VarIndex) (VarIndex, error) {
		if u == v {
			// u*u == u for binary u.
			if m.Vars[u].Type != Binary {
				return 0, fmt.Errorf("square of %s: %w", m.varName(u), ErrNotLinearizable)
			}
			return u, nil
		}
		if m.Vars[u].Type != Binary || m.Vars[v].Type != Binary {
			return 0, fmt.Errorf("product %s*%s: %w", m.varName(u), m.varName(v), ErrNotLinearizable)
		}
		key := [2]VarIndex{u, v}
		if w, ok := aux[key]; ok {
			return w, nil
		}
		w := VarIndex(len(lm.Vars))
		lm.Vars = append(lm.Vars, VarDef{
			Name: fmt.Sprintf("and_%s_%s", m.varName(u), m.varName(v)),
			Type: Binary, Lb: 0, Ub: 1,
		})
		aux[key] = w
		// w <= u
		lm.Constrs = append(lm.Constrs, ConstrDef{
			Expr: Expr{Terms: []Term{{Var: w, Coeff: 1}, {Var: u, Coeff: -1}}},
			Lb:   math.Inf(-1), Ub: 0,
		})
		// w <= v
		lm.Constrs = append(lm.Constrs, ConstrDef{
			Expr: Expr{Terms: []Term{{Var: w, Coeff: 1}, {Var: v, Coeff: -1}}},
			Lb:   math.Inf(-1), Ub: 0,
		})
		// w >= u + v - 1
		lm.Constrs = append(lm.Constrs, ConstrDef{
			Expr: Expr{Terms: []Term{{Var: w, Coeff: 1}, {Var: u, Coeff: -1}, {Var: v, Coeff: -1}}},
			Lb:   -1, Ub: math.Inf(1),
		})
		return w, nil
	}

	rewrite := func(e Expr) (Expr, error) {
		if !e.IsQuadratic() {
			return e, nil
		}
		out := Expr{Offset: e.Offset, Terms: make([]Term, len(e.Terms), len(e.Terms)+len(e.Quads))}
		copy(out.Terms, e.Terms)
		for _, q := range e.Quads {
			w, err := product(q.U, q.V)
			if err != nil {
				return Expr{}, err
			}
			out.Terms = append(out.Terms, Term{Var: w, Coeff: q.Coeff})
		}
		return out, nil
	}

	for i := range m.Constrs {
		c := m.Constrs[i]
		e, err := rewrite(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", m.constrName(ConstrIndex(i)), err)
		}
		c.Expr = e
		lm.Constrs = append(lm.Constrs, c)
	}
	objExpr, err := rewrite(m.Objective.Expr)
	if err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}
	lm.Objective = Objective{Expr: objExpr, Maximize: m.Objective.Maximize}

	return lm, nil
}
