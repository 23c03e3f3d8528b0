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

package hybrid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/binpack3d/cqm"
	"github.com/google/binpack3d/solver"
)

func testModel(t *testing.T) *cqm.Model {
	t.Helper()
	b := cqm.NewBuilder()
	x := b.NewNumVar(0, 10).WithName("x")
	p := b.NewBoolVar().WithName("p")
	b.AddLessOrEqual(cqm.NewExpr().Add(x).AddProduct(p, p, 1), cqm.NewConstant(5))
	b.Minimize(x)
	m, err := b.Model()
	require.NoError(t, err)
	return m
}

// sampler is a scripted stand-in for the remote service: it answers the
// submit with a fixed id and replays the given status sequence on polls.
type sampler struct {
	t        *testing.T
	statuses []problemResponse

	polls   atomic.Int32
	deletes atomic.Int32

	mu      sync.Mutex
	lastReq submitRequest
}

func (s *sampler) submitted() submitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

func (s *sampler) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/problems", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&s.lastReq); err != nil {
			s.t.Errorf("decoding submit request: %v", err)
		}
		json.NewEncoder(w).Encode(problemResponse{ID: "job-1", Status: "PENDING"})
	})
	mux.HandleFunc("GET /v1/problems/job-1", func(w http.ResponseWriter, r *http.Request) {
		i := int(s.polls.Add(1)) - 1
		if i >= len(s.statuses) {
			i = len(s.statuses) - 1
		}
		json.NewEncoder(w).Encode(s.statuses[i])
	})
	mux.HandleFunc("DELETE /v1/problems/job-1", func(w http.ResponseWriter, r *http.Request) {
		s.deletes.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestSolve_Completed(t *testing.T) {
	m := testModel(t)
	s := &sampler{t: t, statuses: []problemResponse{
		{ID: "job-1", Status: "PENDING"},
		{ID: "job-1", Status: "IN_PROGRESS"},
		{ID: "job-1", Status: "COMPLETED", Assignment: []float64{2, 1}, Objective: 2},
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	res, err := cl.Solve(context.Background(), m, solver.Options{TimeLimit: 30 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusFeasible, res.Status)
	assert.Equal(t, cqm.Assignment{2, 1}, res.Assignment)
	assert.Equal(t, 2.0, res.Objective)

	// The submitted job carries the time budget and the full model, quadratic
	// terms included.
	req := s.submitted()
	assert.NotEmpty(t, req.RequestID)
	assert.Equal(t, 30.0, req.TimeLimitSeconds)
	require.Len(t, req.Model.Vars, 2)
	assert.Equal(t, "x", req.Model.Vars[0].Name)
	require.Len(t, req.Model.Constrs, 1)
	assert.Len(t, req.Model.Constrs[0].Expr.Quad, 1)
	// One-sided row: no lower bound on the wire.
	assert.Nil(t, req.Model.Constrs[0].Lb)
	require.NotNil(t, req.Model.Constrs[0].Ub)
	assert.Equal(t, 5.0, *req.Model.Constrs[0].Ub)
}

func TestSolve_Infeasible(t *testing.T) {
	m := testModel(t)
	s := &sampler{t: t, statuses: []problemResponse{
		{ID: "job-1", Status: "INFEASIBLE"},
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	res, err := cl.Solve(context.Background(), m, solver.Options{})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
	assert.Nil(t, res.Assignment)
}

func TestSolve_DeadlineCancelsJob(t *testing.T) {
	m := testModel(t)
	s := &sampler{t: t, statuses: []problemResponse{
		{ID: "job-1", Status: "PENDING"},
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := cl.Solve(ctx, m, solver.Options{})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusTimeout, res.Status)
	// The orphaned job must have been cancelled on the service.
	assert.Equal(t, int32(1), s.deletes.Load())
}

func TestSolve_FailedJobIsAnError(t *testing.T) {
	m := testModel(t)
	s := &sampler{t: t, statuses: []problemResponse{
		{ID: "job-1", Status: "FAILED", Message: "out of memory"},
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	_, err := cl.Solve(context.Background(), m, solver.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestSolve_AssignmentLengthMismatch(t *testing.T) {
	m := testModel(t)
	s := &sampler{t: t, statuses: []problemResponse{
		{ID: "job-1", Status: "COMPLETED", Assignment: []float64{1}},
	}}
	srv := httptest.NewServer(s.handler())
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	_, err := cl.Solve(context.Background(), m, solver.Options{})
	assert.Error(t, err)
}

func TestSolve_BearerToken(t *testing.T) {
	m := testModel(t)
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(problemResponse{ID: "job-1", Status: "INFEASIBLE"})
	}))
	defer srv.Close()

	cl := New(srv.URL, WithToken("secret"), WithPollInterval(time.Millisecond))
	_, err := cl.Solve(context.Background(), m, solver.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth.Load())
}

func TestSolve_ServerError(t *testing.T) {
	m := testModel(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cl := New(srv.URL, WithPollInterval(time.Millisecond))
	_, err := cl.Solve(context.Background(), m, solver.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
