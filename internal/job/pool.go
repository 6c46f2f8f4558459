// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package job provides the wait-all worker pool the compiler uses to record
// passes in parallel (spec §4.H phase 2, §5 "parallel worker threads fed by
// a job manager"). It is a thin wrapper over golang.org/x/sync/errgroup:
// the teacher's own dedicated-thread machinery in internal/thread targets a
// single long-lived backend-owned thread, not a fan-out/join pool, so this
// package is grounded on the wider example pack's use of errgroup for
// exactly this "run N jobs, wait for all, surface the first error" shape.
package job

import (
	"context"

	"golang.org/x/sync/errgroup"
)

func newGroup(ctx context.Context) (*errgroup.Group, context.Context) {
	return errgroup.WithContext(ctx)
}

// Pool runs a batch of jobs and waits for all of them, one worker per
// submitted job bounded by a fixed concurrency limit.
type Pool struct {
	limit int
}

// NewPool creates a pool that runs at most limit jobs concurrently. A
// non-positive limit means unbounded.
func NewPool(limit int) *Pool {
	return &Pool{limit: limit}
}

// RunAll runs every fn concurrently and blocks until all have returned,
// returning the first non-nil error encountered (if any). A nil Pool is a
// valid zero value and imposes no concurrency limit.
func (p *Pool) RunAll(ctx context.Context, fns []func(context.Context) error) error {
	if len(fns) == 0 {
		return nil
	}
	g, gctx := newGroup(ctx)
	sem := make(chan struct{}, poolLimit(p))
	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			return fn(gctx)
		})
	}
	return g.Wait()
}

func poolLimit(p *Pool) int {
	if p == nil || p.limit <= 0 {
		return 1 << 20
	}
	return p.limit
}
