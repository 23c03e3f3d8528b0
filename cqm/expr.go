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
	log "github.com/golang/glog"
)

// LinearArgument provides an interface for NumVar, BoolVar, and Expr.
type LinearArgument interface {
	addToExpr(e *Expr, c float64)
	evaluate(a Assignment) float64
}

// Term is a linear term `Coeff * Var`.
type Term struct {
	Var   VarIndex
	Coeff float64
}

// QuadTerm is a quadratic term `Coeff * U * V`. Terms are stored with
// U <= V so that structurally equal expressions compare equal.
type QuadTerm struct {
	U, V  VarIndex
	Coeff float64
}

// Expr is a container for an expression with linear terms, quadratic terms,
// and a constant offset.
type Expr struct {
	Terms  []Term
	Quads  []QuadTerm
	Offset float64

	owner *Builder
	mixed bool
}

// NewExpr creates a new empty Expr.
func NewExpr() *Expr {
	return &Expr{}
}

// NewConstant creates and returns an Expr containing the constant `c`.
func NewConstant(c float64) *Expr {
	return &Expr{Offset: c}
}

func (e *Expr) noteOwner(b *Builder) {
	if e.owner == nil {
		e.owner = b
	} else if e.owner != b {
		e.mixed = true
	}
}

// Add adds the linear argument term to the Expr and returns itself.
func (e *Expr) Add(la LinearArgument) *Expr {
	return e.AddTerm(la, 1)
}

// AddConstant adds the constant to the Expr and returns itself.
func (e *Expr) AddConstant(c float64) *Expr {
	e.Offset += c
	return e
}

// AddTerm adds the linear argument with the given coefficient to the Expr and
// returns itself.
func (e *Expr) AddTerm(la LinearArgument, coeff float64) *Expr {
	la.addToExpr(e, coeff)
	return e
}

// AddSum adds the sum of the linear arguments to the Expr and returns itself.
func (e *Expr) AddSum(las ...LinearArgument) *Expr {
	for _, la := range las {
		e.Add(la)
	}
	return e
}

// AddWeightedSum adds the linear arguments with the corresponding coefficients
// to the Expr and returns itself.
func (e *Expr) AddWeightedSum(las []LinearArgument, coeffs []float64) *Expr {
	if len(coeffs) != len(las) {
		log.Fatalf("las and coeffs must be the same length: %v != %v", len(las), len(coeffs))
	}
	for i, la := range las {
		e.AddTerm(la, coeffs[i])
	}
	return e
}

// AddProduct adds `coeff * a * b` to the Expr and returns itself. Both
// arguments must be at most linear; the product of two linear expressions is
// expanded into quadratic terms with canonical index ordering.
func (e *Expr) AddProduct(a, b LinearArgument, coeff float64) *Expr {
	fa := flatten(a)
	fb := flatten(b)
	e.noteFlatOwner(fa)
	e.noteFlatOwner(fb)

	e.Offset += coeff * fa.offset * fb.offset
	for _, t := range fa.terms {
		if c := coeff * t.Coeff * fb.offset; c != 0 {
			e.Terms = append(e.Terms, Term{Var: t.Var, Coeff: c})
		}
	}
	for _, t := range fb.terms {
		if c := coeff * t.Coeff * fa.offset; c != 0 {
			e.Terms = append(e.Terms, Term{Var: t.Var, Coeff: c})
		}
	}
	for _, ta := range fa.terms {
		for _, tb := range fb.terms {
			u, v := ta.Var, tb.Var
			if u > v {
				u, v = v, u
			}
			e.Quads = append(e.Quads, QuadTerm{U: u, V: v, Coeff: coeff * ta.Coeff * tb.Coeff})
		}
	}
	return e
}

func (e *Expr) addToExpr(dst *Expr, c float64) {
	dst.noteFlatOwner(flatExpr{owner: e.owner, mixed: e.mixed})
	for _, t := range e.Terms {
		dst.Terms = append(dst.Terms, Term{Var: t.Var, Coeff: t.Coeff * c})
	}
	for _, q := range e.Quads {
		dst.Quads = append(dst.Quads, QuadTerm{U: q.U, V: q.V, Coeff: q.Coeff * c})
	}
	dst.Offset += e.Offset * c
}

// Evaluate returns the value of the expression under the assignment.
func (e *Expr) Evaluate(a Assignment) float64 {
	result := e.Offset
	for _, t := range e.Terms {
		result += t.Coeff * a[t.Var]
	}
	for _, q := range e.Quads {
		result += q.Coeff * a[q.U] * a[q.V]
	}
	return result
}

func (e *Expr) evaluate(a Assignment) float64 {
	return e.Evaluate(a)
}

// IsQuadratic reports whether the expression carries any quadratic term.
func (e *Expr) IsQuadratic() bool {
	return len(e.Quads) > 0
}

// snapshot returns a copy of the expression detached from the builder-facing
// bookkeeping, suitable for storing in an immutable model.
func (e *Expr) snapshot() Expr {
	s := Expr{Offset: e.Offset}
	if len(e.Terms) > 0 {
		s.Terms = make([]Term, len(e.Terms))
		copy(s.Terms, e.Terms)
	}
	if len(e.Quads) > 0 {
		s.Quads = make([]QuadTerm, len(e.Quads))
		copy(s.Quads, e.Quads)
	}
	return s
}

type flatExpr struct {
	terms  []Term
	offset float64
	owner  *Builder
	mixed  bool
}

func (e *Expr) noteFlatOwner(f flatExpr) {
	if f.mixed {
		e.mixed = true
	}
	if f.owner != nil {
		e.noteOwner(f.owner)
	}
}

// flatten reduces a LinearArgument to its linear terms and offset. Quadratic
// arguments cannot participate in a product; that is a programming defect.
func flatten(la LinearArgument) flatExpr {
	switch v := la.(type) {
	case NumVar:
		return flatExpr{terms: []Term{{Var: v.ind, Coeff: 1}}, owner: v.cqb}
	case BoolVar:
		return flatExpr{terms: []Term{{Var: v.ind, Coeff: 1}}, owner: v.cqb}
	case *Expr:
		if v.IsQuadratic() {
			log.Fatalf("AddProduct: argument with quadratic terms is not representable")
		}
		return flatExpr{terms: v.Terms, offset: v.Offset, owner: v.owner, mixed: v.mixed}
	default:
		log.Fatalf("AddProduct: unsupported linear argument %T", la)
		return flatExpr{}
	}
}
