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

// The binpacking_problem_cqm command builds a small 3D bin-packing model and
// solves it with either a local HiGHS instance or a remote hybrid sampler.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/google/binpack3d/binpack"
	"github.com/google/binpack3d/solver"
	"github.com/google/binpack3d/solver/highs"
	"github.com/google/binpack3d/solver/hybrid"
)

var (
	backend   = flag.String("backend", "highs", "solving backend: highs or hybrid")
	endpoint  = flag.String("endpoint", "", "hybrid sampler service URL")
	timeLimit = flag.Duration("time_limit", time.Minute, "solve time budget")
)

func binpackingProblemCQM() error {
	cases, err := binpack.LoadCases([]binpack.CaseSpec{
		{ID: 1, Quantity: 2, Length: 4, Width: 4, Height: 4, Weight: 10, LoadCapacity: 50},
		{ID: 2, Quantity: 3, Length: 2, Width: 3, Height: 2, Weight: 4, LoadCapacity: 12},
	})
	if err != nil {
		return err
	}
	bins, err := binpack.LoadBins(binpack.BinSpec{Length: 8, Width: 4, Height: 6, Count: 2}, cases)
	if err != nil {
		return err
	}

	var s solver.Solver
	switch *backend {
	case "highs":
		s = highs.New()
	case "hybrid":
		s = hybrid.New(*endpoint)
	default:
		return fmt.Errorf("unknown backend %q", *backend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeLimit+10*time.Second)
	defer cancel()

	layout, res, err := binpack.Pack(ctx, s, cases, bins, binpack.Options{},
		solver.Options{TimeLimit: *timeLimit})
	if err != nil {
		return err
	}
	fmt.Println("Status: ", res.Status)
	if layout == nil {
		fmt.Println("No feasible packing; increase the time limit or relax the bin configuration.")
		return nil
	}
	fmt.Println("Objective: ", res.Objective)
	for _, p := range layout {
		fmt.Printf("case %d (instance %d): bin %d orientation %d at (%v, %v, %v) size (%v, %v, %v)\n",
			p.CaseID, p.Index, p.Bin, p.Orientation, p.X, p.Y, p.Z, p.Length, p.Width, p.Height)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := binpackingProblemCQM(); err != nil {
		log.Exitf("binpackingProblemCQM returned with error: %v", err)
	}
}
