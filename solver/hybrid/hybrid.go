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

// Package hybrid adapts a remote hybrid sampler service to the solver.Solver
// contract: the model is submitted as one job, polled until done, and
// cancelled when the caller's context expires. The service accepts genuinely
// quadratic models; no linearization is applied.
package hybrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/google/binpack3d/cqm"
	"github.com/google/binpack3d/solver"
)

// DefaultPollInterval is the delay between job status polls.
const DefaultPollInterval = 2 * time.Second

// Client is a solver backed by a remote hybrid sampler service.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	poll    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpc = c }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(cl *Client) { cl.token = token }
}

// WithPollInterval sets the delay between job status polls.
func WithPollInterval(d time.Duration) Option {
	return func(cl *Client) { cl.poll = d }
}

// New returns a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cl := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
		poll:    DefaultPollInterval,
	}
	for _, o := range opts {
		o(cl)
	}
	return cl
}

// Wire representation of a submitted problem.
type wireVar struct {
	Name string  `json:"name"`
	Type string  `json:"type"`
	Lb   float64 `json:"lb"`
	Ub   float64 `json:"ub"`
}

type wireTerm struct {
	Var   int32   `json:"var"`
	Coeff float64 `json:"coeff"`
}

type wireQuad struct {
	U     int32   `json:"u"`
	V     int32   `json:"v"`
	Coeff float64 `json:"coeff"`
}

type wireExpr struct {
	Linear []wireTerm `json:"linear,omitempty"`
	Quad   []wireQuad `json:"quad,omitempty"`
	Offset float64    `json:"offset,omitempty"`
}

type wireConstr struct {
	Name string   `json:"name,omitempty"`
	Expr wireExpr `json:"expr"`
	Lb   *float64 `json:"lb,omitempty"`
	Ub   *float64 `json:"ub,omitempty"`
}

type wireModel struct {
	Vars      []wireVar    `json:"variables"`
	Constrs   []wireConstr `json:"constraints"`
	Objective wireExpr     `json:"objective"`
	Maximize  bool         `json:"maximize,omitempty"`
}

type submitRequest struct {
	RequestID        string    `json:"request_id"`
	TimeLimitSeconds float64   `json:"time_limit_seconds,omitempty"`
	Model            wireModel `json:"model"`
}

type problemResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Assignment []float64 `json:"assignment,omitempty"`
	Objective  float64   `json:"objective,omitempty"`
	RuntimeMS  int64     `json:"runtime_ms,omitempty"`
}

// Solve implements solver.Solver. The model is submitted once, tagged with a
// fresh request id, then polled until the service reports a terminal status.
// When ctx's deadline expires the job is cancelled on the service and the
// result is StatusTimeout — a normal "no feasible result" outcome, not an
// error.
func (cl *Client) Solve(ctx context.Context, m *cqm.Model, opts solver.Options) (*solver.Result, error) {
	reqID := uuid.NewString()
	start := time.Now()

	id, err := cl.submit(ctx, reqID, m, opts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &solver.Result{Status: solver.StatusTimeout, Runtime: time.Since(start)}, nil
		}
		return nil, err
	}
	log.V(1).Infof("hybrid: submitted problem %s (request %s)", id, reqID)

	ticker := time.NewTicker(cl.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			cl.cancel(id)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &solver.Result{Status: solver.StatusTimeout, Runtime: time.Since(start)}, nil
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}

		pr, err := cl.status(ctx, id)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				cl.cancel(id)
				return &solver.Result{Status: solver.StatusTimeout, Runtime: time.Since(start)}, nil
			}
			return nil, err
		}
		switch pr.Status {
		case "PENDING", "IN_PROGRESS":
			continue
		case "COMPLETED":
			if len(pr.Assignment) != len(m.Vars) {
				return nil, fmt.Errorf("hybrid: problem %s returned %d values for %d variables", id, len(pr.Assignment), len(m.Vars))
			}
			return &solver.Result{
				Status:     solver.StatusFeasible,
				Assignment: cqm.Assignment(pr.Assignment),
				Objective:  pr.Objective,
				Runtime:    time.Since(start),
			}, nil
		case "INFEASIBLE":
			return &solver.Result{Status: solver.StatusInfeasible, Runtime: time.Since(start)}, nil
		case "TIMEOUT":
			return &solver.Result{Status: solver.StatusTimeout, Runtime: time.Since(start)}, nil
		default:
			return nil, fmt.Errorf("hybrid: problem %s failed: %s %s", id, pr.Status, pr.Message)
		}
	}
}

func (cl *Client) submit(ctx context.Context, reqID string, m *cqm.Model, opts solver.Options) (string, error) {
	body, err := json.Marshal(submitRequest{
		RequestID:        reqID,
		TimeLimitSeconds: opts.TimeLimit.Seconds(),
		Model:            encodeModel(m),
	})
	if err != nil {
		return "", fmt.Errorf("hybrid: encoding model: %w", err)
	}
	pr, err := cl.do(ctx, http.MethodPost, cl.baseURL+"/v1/problems", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if pr.ID == "" {
		return "", errors.New("hybrid: service returned no problem id")
	}
	return pr.ID, nil
}

func (cl *Client) status(ctx context.Context, id string) (*problemResponse, error) {
	return cl.do(ctx, http.MethodGet, cl.baseURL+"/v1/problems/"+id, nil)
}

// cancel signals the service to stop a job whose caller has gone away. It
// runs on a short background deadline because the caller's context is
// already done.
func (cl *Client) cancel(id string) {
	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if _, err := cl.do(ctx, http.MethodDelete, cl.baseURL+"/v1/problems/"+id, nil); err != nil {
		log.Warningf("hybrid: cancelling problem %s: %v", id, err)
	}
}

func (cl *Client) do(ctx context.Context, method, url string, body io.Reader) (*problemResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("hybrid: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}
	resp, err := cl.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hybrid: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("hybrid: %s %s: %s: %s", method, url, resp.Status, msg)
	}
	var pr problemResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("hybrid: decoding response: %w", err)
	}
	return &pr, nil
}

func encodeModel(m *cqm.Model) wireModel {
	wm := wireModel{
		Vars:      make([]wireVar, len(m.Vars)),
		Constrs:   make([]wireConstr, len(m.Constrs)),
		Objective: encodeExpr(&m.Objective.Expr),
		Maximize:  m.Objective.Maximize,
	}
	for i, v := range m.Vars {
		wm.Vars[i] = wireVar{Name: v.Name, Type: v.Type.String(), Lb: v.Lb, Ub: v.Ub}
	}
	for i := range m.Constrs {
		c := &m.Constrs[i]
		wc := wireConstr{Name: c.Name, Expr: encodeExpr(&c.Expr)}
		if !isInf(c.Lb) {
			lb := c.Lb
			wc.Lb = &lb
		}
		if !isInf(c.Ub) {
			ub := c.Ub
			wc.Ub = &ub
		}
		wm.Constrs[i] = wc
	}
	return wm
}

func encodeExpr(e *cqm.Expr) wireExpr {
	we := wireExpr{Offset: e.Offset}
	for _, t := range e.Terms {
		we.Linear = append(we.Linear, wireTerm{Var: int32(t.Var), Coeff: t.Coeff})
	}
	for _, q := range e.Quads {
		we.Quad = append(we.Quad, wireQuad{U: int32(q.U), V: int32(q.V), Coeff: q.Coeff})
	}
	return we
}

func isInf(f float64) bool {
	return f > 1e300 || f < -1e300
}
