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

// Package binpack formulates 3D orthogonal bin packing — placing cuboid cases
// with free axis-aligned orientation into a pool of identical cuboid bins —
// as a constrained quadratic model, and decodes a solver's assignment back
// into a physical layout.
//
// The package only builds and decodes models; solving is delegated to a
// backend behind the solver.Solver interface.
package binpack

import (
	"fmt"
	"math"
)

// CaseSpec is the raw description of one case type. A spec with Quantity n
// expands into n identical case instances.
type CaseSpec struct {
	ID           int
	Quantity     int
	Length       float64
	Width        float64
	Height       float64
	Weight       float64
	LoadCapacity float64
}

// Case is one physical cuboid item to be packed. Instances are identified by
// their index in the Cases slice; the ID only tags which spec the instance
// came from.
type Case struct {
	ID           int
	Length       float64
	Width        float64
	Height       float64
	Weight       float64
	LoadCapacity float64
}

// Volume returns the volume of the case.
func (c Case) Volume() float64 {
	return c.Length * c.Width * c.Height
}

// MaxExtent returns the largest of the three extents.
func (c Case) MaxExtent() float64 {
	return math.Max(c.Length, math.Max(c.Width, c.Height))
}

// Cases is the ordered set of case instances of a packing problem. Spec
// expansion preserves input order: every later component references a case
// solely through its index here.
type Cases []Case

// TotalVolume returns the summed volume of all case instances.
func (cs Cases) TotalVolume() float64 {
	var v float64
	for _, c := range cs {
		v += c.Volume()
	}
	return v
}

func (cs Cases) maxExtent() float64 {
	var m float64
	for _, c := range cs {
		m = math.Max(m, c.MaxExtent())
	}
	return m
}

// BinSpec is the raw description of the bin pool: one set of dimensions shared
// by Count identical bins.
type BinSpec struct {
	Length float64
	Width  float64
	Height float64
	Count  int
}

// Bins is the validated bin pool.
type Bins struct {
	Length float64
	Width  float64
	Height float64
	Count  int
}

// Volume returns the volume of a single bin.
func (b Bins) Volume() float64 {
	return b.Length * b.Width * b.Height
}

// ConfigurationError reports a bin pool that cannot possibly hold the cases,
// or otherwise invalid geometry input. It is raised at catalog construction,
// before any model work begins.
type ConfigurationError struct {
	// Required is the theoretical minimum bin count by volume; zero when the
	// error is not about the pool size.
	Required int
	// Configured is the configured pool size.
	Configured int
	Reason     string
}

func (e *ConfigurationError) Error() string {
	return "binpack: invalid configuration: " + e.Reason
}

// LoadCases expands the case specs into one entry per physical instance,
// preserving spec order.
func LoadCases(specs []CaseSpec) (Cases, error) {
	var cases Cases
	for _, s := range specs {
		if s.Quantity <= 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("case %d has non-positive quantity %d", s.ID, s.Quantity)}
		}
		if s.Length <= 0 || s.Width <= 0 || s.Height <= 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("case %d has non-positive dimensions (%v, %v, %v)", s.ID, s.Length, s.Width, s.Height)}
		}
		if s.Weight < 0 || s.LoadCapacity < 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("case %d has negative weight or load capacity", s.ID)}
		}
		for q := 0; q < s.Quantity; q++ {
			cases = append(cases, Case{
				ID:           s.ID,
				Length:       s.Length,
				Width:        s.Width,
				Height:       s.Height,
				Weight:       s.Weight,
				LoadCapacity: s.LoadCapacity,
			})
		}
	}
	if len(cases) == 0 {
		return nil, &ConfigurationError{Reason: "no cases"}
	}
	return cases, nil
}

// LoadBins validates the bin pool against the cases. The pool must contain at
// least the theoretical minimum bin count by volume,
// ceil(total case volume / bin volume); a smaller pool cannot possibly fit
// all cases and is a configuration error, not a solver failure.
func LoadBins(spec BinSpec, cases Cases) (Bins, error) {
	if spec.Length <= 0 || spec.Width <= 0 || spec.Height <= 0 {
		return Bins{}, &ConfigurationError{Reason: fmt.Sprintf("bin has non-positive dimensions (%v, %v, %v)", spec.Length, spec.Width, spec.Height)}
	}
	if spec.Count <= 0 {
		return Bins{}, &ConfigurationError{Reason: fmt.Sprintf("non-positive bin count %d", spec.Count)}
	}
	bins := Bins{Length: spec.Length, Width: spec.Width, Height: spec.Height, Count: spec.Count}
	required := int(math.Ceil(cases.TotalVolume() / bins.Volume()))
	if spec.Count < required {
		return Bins{}, &ConfigurationError{
			Required:   required,
			Configured: spec.Count,
			Reason: fmt.Sprintf("total case volume %v needs at least %d bins of volume %v, configured %d",
				cases.TotalVolume(), required, bins.Volume(), spec.Count),
		}
	}
	return bins, nil
}
