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
	"strings"
)

// ExportLP outputs the model as a string in CPLEX LP format, including
// quadratic blocks in `[ ... ]` notation. Intended for debugging and for
// interchange with external LP-format tooling.
func ExportLP(m *Model) (string, error) {
	var sb strings.Builder

	if m.Objective.Maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	sb.WriteString(" obj:")
	writeLinearTerms(&sb, m, m.Objective.Expr.Terms)
	if m.Objective.Expr.IsQuadratic() {
		// The LP convention scales the objective quadratic block by 1/2.
		sb.WriteString(" + [")
		for _, q := range m.Objective.Expr.Quads {
			writeQuad(&sb, m, QuadTerm{U: q.U, V: q.V, Coeff: 2 * q.Coeff})
		}
		sb.WriteString(" ] / 2")
	}
	if off := m.Objective.Expr.Offset; off != 0 {
		fmt.Fprintf(&sb, " %s %v", signOf(off), math.Abs(off))
	}
	sb.WriteString("\nSubject To\n")

	for i := range m.Constrs {
		c := &m.Constrs[i]
		if math.IsInf(c.Lb, -1) && math.IsInf(c.Ub, 1) {
			continue
		}
		switch {
		case c.Lb == c.Ub:
			writeRow(&sb, m, c, fmt.Sprintf("%s:", m.constrName(ConstrIndex(i))), "=", c.Lb)
		default:
			if !math.IsInf(c.Ub, 1) {
				writeRow(&sb, m, c, fmt.Sprintf("%s_ub:", m.constrName(ConstrIndex(i))), "<=", c.Ub)
			}
			if !math.IsInf(c.Lb, -1) {
				writeRow(&sb, m, c, fmt.Sprintf("%s_lb:", m.constrName(ConstrIndex(i))), ">=", c.Lb)
			}
		}
	}

	sb.WriteString("Bounds\n")
	for i, v := range m.Vars {
		if v.Type == Binary {
			continue
		}
		name := m.varName(VarIndex(i))
		switch {
		case math.IsInf(v.Lb, -1) && math.IsInf(v.Ub, 1):
			fmt.Fprintf(&sb, " %s free\n", name)
		case math.IsInf(v.Ub, 1):
			fmt.Fprintf(&sb, " %s >= %v\n", name, v.Lb)
		case math.IsInf(v.Lb, -1):
			fmt.Fprintf(&sb, " %s <= %v\n", name, v.Ub)
		default:
			fmt.Fprintf(&sb, " %v <= %s <= %v\n", v.Lb, name, v.Ub)
		}
	}

	var generals, binaries []string
	for i, v := range m.Vars {
		switch v.Type {
		case Integer:
			generals = append(generals, m.varName(VarIndex(i)))
		case Binary:
			binaries = append(binaries, m.varName(VarIndex(i)))
		}
	}
	if len(generals) > 0 {
		sb.WriteString("Generals\n")
		for _, n := range generals {
			fmt.Fprintf(&sb, " %s\n", n)
		}
	}
	if len(binaries) > 0 {
		sb.WriteString("Binaries\n")
		for _, n := range binaries {
			fmt.Fprintf(&sb, " %s\n", n)
		}
	}
	sb.WriteString("End\n")

	return sb.String(), nil
}

func writeRow(sb *strings.Builder, m *Model, c *ConstrDef, label, rel string, rhs float64) {
	fmt.Fprintf(sb, " %s", label)
	writeLinearTerms(sb, m, c.Expr.Terms)
	if c.Expr.IsQuadratic() {
		sb.WriteString(" + [")
		for _, q := range c.Expr.Quads {
			writeQuad(sb, m, q)
		}
		sb.WriteString(" ]")
	}
	fmt.Fprintf(sb, " %s %v\n", rel, rhs-c.Expr.Offset)
}

func writeLinearTerms(sb *strings.Builder, m *Model, terms []Term) {
	if len(terms) == 0 {
		sb.WriteString(" 0")
		return
	}
	for _, t := range terms {
		fmt.Fprintf(sb, " %s %v %s", signOf(t.Coeff), math.Abs(t.Coeff), m.varName(t.Var))
	}
}

func writeQuad(sb *strings.Builder, m *Model, q QuadTerm) {
	if q.U == q.V {
		fmt.Fprintf(sb, " %s %v %s ^ 2", signOf(q.Coeff), math.Abs(q.Coeff), m.varName(q.U))
		return
	}
	fmt.Fprintf(sb, " %s %v %s * %s", signOf(q.Coeff), math.Abs(q.Coeff), m.varName(q.U), m.varName(q.V))
}

func signOf(c float64) string {
	if c < 0 {
		return "-"
	}
	return "+"
}
