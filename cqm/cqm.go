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

// Package cqm offers a user-friendly API to build constrained quadratic models.
//
// The `Builder` struct accumulates variables, constraints, and the objective of
// a model with continuous and binary variables, linear terms, and products of
// pairs of variables. The `NumVar` and `BoolVar` structs are references to
// specific variables in the model and the `Expr` struct provides helper methods
// for creating constraints and the objective from expressions with many
// variables and coefficients.
//
// Calling `Model()` returns an immutable snapshot of the model that a solver
// backend can consume.
package cqm

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
)

// ErrMixedModels holds the error when elements added to a model belong to
// different builders.
var ErrMixedModels = errors.New("elements are not part of the same model")

type (
	// VarIndex is the index of a variable in the model.
	VarIndex int32
	// ConstrIndex is the index of a constraint in the model.
	ConstrIndex int32
)

// VarType is the domain type of a model variable.
type VarType int

const (
	// Real indicates a continuous variable.
	Real VarType = iota
	// Binary indicates a 0/1 variable.
	Binary
	// Integer indicates a general integer variable.
	Integer
)

// String returns a human-readable representation of the variable type.
func (t VarType) String() string {
	switch t {
	case Real:
		return "Real"
	case Binary:
		return "Binary"
	case Integer:
		return "Integer"
	default:
		return "Unknown"
	}
}

// NumVar is a reference to a continuous variable in the model.
type NumVar struct {
	ind VarIndex
	cqb *Builder
}

// Name returns the name of the variable.
func (v NumVar) Name() string {
	return v.cqb.vars[v.ind].Name
}

// Index returns the index of the variable.
func (v NumVar) Index() VarIndex {
	return v.ind
}

// WithName sets the name of the variable.
func (v NumVar) WithName(s string) NumVar {
	v.cqb.vars[v.ind].Name = s
	return v
}

func (v NumVar) addToExpr(e *Expr, c float64) {
	e.noteOwner(v.cqb)
	e.Terms = append(e.Terms, Term{Var: v.ind, Coeff: c})
}

func (v NumVar) evaluate(a Assignment) float64 {
	return a[v.ind]
}

// BoolVar is a reference to a binary variable in the model.
type BoolVar struct {
	ind VarIndex
	cqb *Builder
}

// Name returns the name of the variable.
func (b BoolVar) Name() string {
	return b.cqb.vars[b.ind].Name
}

// Index returns the index of the variable.
func (b BoolVar) Index() VarIndex {
	return b.ind
}

// WithName sets the name of the variable.
func (b BoolVar) WithName(s string) BoolVar {
	b.cqb.vars[b.ind].Name = s
	return b
}

func (b BoolVar) addToExpr(e *Expr, c float64) {
	e.noteOwner(b.cqb)
	e.Terms = append(e.Terms, Term{Var: b.ind, Coeff: c})
}

func (b BoolVar) evaluate(a Assignment) float64 {
	return a[b.ind]
}

// Constraint is a reference to a constraint in the model.
type Constraint struct {
	ind ConstrIndex
	cqb *Builder
}

// WithName sets the name of the constraint.
func (c Constraint) WithName(s string) Constraint {
	c.cqb.constrs[c.ind].Name = s
	return c
}

// Name returns the name of the constraint.
func (c Constraint) Name() string {
	return c.cqb.constrs[c.ind].Name
}

// Index returns the index of the constraint.
func (c Constraint) Index() ConstrIndex {
	return c.ind
}

// Builder accumulates the variables, constraints, and objective of a
// constrained quadratic model.
type Builder struct {
	vars    []VarDef
	constrs []ConstrDef
	obj     Objective
	// The first and only the first error is reported in Model.
	err error
}

// NewBuilder creates and returns a new model Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewNumVar creates a new continuous variable with bounds [lb, ub].
func (cq *Builder) NewNumVar(lb, ub float64) NumVar {
	v := NumVar{ind: VarIndex(len(cq.vars)), cqb: cq}
	cq.vars = append(cq.vars, VarDef{Type: Real, Lb: lb, Ub: ub})
	return v
}

// NewBoolVar creates a new binary variable.
func (cq *Builder) NewBoolVar() BoolVar {
	b := BoolVar{ind: VarIndex(len(cq.vars)), cqb: cq}
	cq.vars = append(cq.vars, VarDef{Type: Binary, Lb: 0, Ub: 1})
	return b
}

// NewIntVar creates a new integer variable with bounds [lb, ub].
func (cq *Builder) NewIntVar(lb, ub float64) NumVar {
	v := NumVar{ind: VarIndex(len(cq.vars)), cqb: cq}
	cq.vars = append(cq.vars, VarDef{Type: Integer, Lb: lb, Ub: ub})
	return v
}

// NumVars returns the number of variables added to the builder.
func (cq *Builder) NumVars() int {
	return len(cq.vars)
}

// checkOwnerAndSetError verifies that the expression was built from this
// builder's variables. If not, an error wrapping ErrMixedModels is set on the
// builder; only the first error is kept.
func (cq *Builder) checkOwnerAndSetError(e *Expr, what string) {
	if e.owner != nil && e.owner != cq || e.mixed {
		err := fmt.Errorf("%s: %w", what, ErrMixedModels)
		log.Errorf("%v", err)
		if cq.err == nil {
			cq.err = err
		}
	}
}

func (cq *Builder) appendConstraint(e *Expr, lb, ub float64) Constraint {
	cq.checkOwnerAndSetError(e, fmt.Sprintf("constraint %d", len(cq.constrs)))
	i := ConstrIndex(len(cq.constrs))
	cq.constrs = append(cq.constrs, ConstrDef{Expr: e.snapshot(), Lb: lb, Ub: ub})
	return Constraint{ind: i, cqb: cq}
}

// AddLinearConstraint adds the constraint `lb <= expr <= ub`.
func (cq *Builder) AddLinearConstraint(expr LinearArgument, lb, ub float64) Constraint {
	e := NewExpr().Add(expr)
	return cq.appendConstraint(e, lb, ub)
}

// AddEquality adds the constraint `lhs == rhs`.
func (cq *Builder) AddEquality(lhs, rhs LinearArgument) Constraint {
	diff := NewExpr().Add(lhs).AddTerm(rhs, -1)
	rc := -diff.Offset
	diff.Offset = 0
	return cq.appendConstraint(diff, rc, rc)
}

// AddLessOrEqual adds the constraint `lhs <= rhs`.
func (cq *Builder) AddLessOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewExpr().Add(lhs).AddTerm(rhs, -1)
	rc := -diff.Offset
	diff.Offset = 0
	return cq.appendConstraint(diff, math.Inf(-1), rc)
}

// AddGreaterOrEqual adds the constraint `lhs >= rhs`.
func (cq *Builder) AddGreaterOrEqual(lhs, rhs LinearArgument) Constraint {
	diff := NewExpr().Add(lhs).AddTerm(rhs, -1)
	rc := -diff.Offset
	diff.Offset = 0
	return cq.appendConstraint(diff, rc, math.Inf(1))
}

// AddExactlyOne adds the constraint that exactly one of the binary variables
// must be true.
func (cq *Builder) AddExactlyOne(bvs ...BoolVar) Constraint {
	e := NewExpr()
	for _, b := range bvs {
		e.Add(b)
	}
	return cq.appendConstraint(e, 1, 1)
}

// AddAtMostOne adds the constraint that at most one of the binary variables
// must be true.
func (cq *Builder) AddAtMostOne(bvs ...BoolVar) Constraint {
	e := NewExpr()
	for _, b := range bvs {
		e.Add(b)
	}
	return cq.appendConstraint(e, math.Inf(-1), 1)
}

// AddImplication adds the constraint a => b.
func (cq *Builder) AddImplication(a, b BoolVar) Constraint {
	diff := NewExpr().Add(b).AddTerm(a, -1)
	return cq.appendConstraint(diff, 0, math.Inf(1))
}

// Minimize sets a minimization objective.
func (cq *Builder) Minimize(obj LinearArgument) {
	e := NewExpr().Add(obj)
	cq.checkOwnerAndSetError(e, "objective")
	cq.obj = Objective{Expr: e.snapshot()}
}

// Maximize sets a maximization objective.
func (cq *Builder) Maximize(obj LinearArgument) {
	e := NewExpr().Add(obj)
	cq.checkOwnerAndSetError(e, "objective")
	cq.obj = Objective{Expr: e.snapshot(), Maximize: true}
}

// Model returns an immutable snapshot of the built model.
//
// Model returns an error when invalid parameters have been used during model
// building (e.g. passing variables from other builders).
func (cq *Builder) Model() (*Model, error) {
	if cq.err != nil {
		return nil, cq.err
	}
	m := &Model{
		Vars:      make([]VarDef, len(cq.vars)),
		Constrs:   make([]ConstrDef, len(cq.constrs)),
		Objective: cq.obj,
	}
	copy(m.Vars, cq.vars)
	copy(m.Constrs, cq.constrs)
	return m, nil
}
