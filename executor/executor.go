// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/ava-labs/countervm/state"
)

// Metrics observes how often a task has to wait on an earlier one.
type Metrics interface {
	RecordBlocked()
	RecordExecutable()
}

// Executor sequences the concurrent execution of
// tasks with arbitrary conflicts on-the-fly.
//
// Executor ensures that conflicting tasks
// are executed in the order they were queued.
// Tasks with no conflicts are executed immediately.
type Executor struct {
	metrics Metrics

	added int
	tasks []*task

	// Per key, the latest task that may write it and the read-only tasks
	// queued after that writer.
	writers map[string]int
	readers map[string][]int

	workers     chan struct{}
	outstanding sync.WaitGroup

	err atomic.Error
}

// New creates a new [Executor] that runs at most [concurrency] tasks at once.
func New(items, concurrency int, metrics Metrics) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Executor{
		metrics: metrics,
		tasks:   make([]*task, items),
		writers: make(map[string]int, items*2),
		readers: make(map[string][]int, items*2),
		workers: make(chan struct{}, concurrency),
	}
}

type task struct {
	f func() error

	l        sync.Mutex
	waiters  []*sync.WaitGroup
	executed bool
}

// dependOn registers [wg] to be released when task [id] finishes.
func (e *Executor) dependOn(id int, wg *sync.WaitGroup, seen map[int]struct{}) {
	if _, ok := seen[id]; ok {
		return
	}
	seen[id] = struct{}{}
	t := e.tasks[id]
	t.l.Lock()
	if !t.executed {
		wg.Add(1)
		t.waiters = append(t.waiters, wg)
	}
	t.l.Unlock()
}

// Run executes [f] after all previously enqueued [f] with
// overlapping [conflicts] are executed. Two tasks that only
// read a key do not conflict on it.
//
// Run is not safe to call concurrently.
func (e *Executor) Run(conflicts state.Keys, f func() error) {
	// Ensure too many transactions not enqueued
	if e.added >= len(e.tasks) {
		e.err.CompareAndSwap(nil, errors.New("too many transactions created"))
		return
	}

	// Generate task
	id := e.added
	e.added++
	t := &task{f: f}
	e.tasks[id] = t
	e.outstanding.Add(1)

	// Record dependencies
	var (
		wg   sync.WaitGroup
		seen = map[int]struct{}{}
	)
	for k, perm := range conflicts {
		if writer, ok := e.writers[k]; ok {
			e.dependOn(writer, &wg, seen)
		}
		if perm == state.Read {
			e.readers[k] = append(e.readers[k], id)
			continue
		}
		for _, reader := range e.readers[k] {
			e.dependOn(reader, &wg, seen)
		}
		delete(e.readers, k)
		e.writers[k] = id
	}
	if e.metrics != nil {
		if len(seen) > 0 {
			e.metrics.RecordBlocked()
		} else {
			e.metrics.RecordExecutable()
		}
	}

	// Wait for the scheduler to execute us
	go func() {
		// Block until our dependencies have been executed
		wg.Wait()

		// Ensure we unblock our dependents
		defer func() {
			t.l.Lock()
			for _, w := range t.waiters {
				w.Done()
			}
			t.waiters = nil
			t.executed = true
			t.l.Unlock()
			e.outstanding.Done()
		}()

		// Stop early if executor is stopped
		if e.err.Load() != nil {
			return
		}

		// Execute task once we aren't too busy
		e.workers <- struct{}{}
		defer func() { <-e.workers }()
		if err := t.f(); err != nil {
			e.err.CompareAndSwap(nil, err)
		}
	}()
}

func (e *Executor) Stop() {
	e.err.CompareAndSwap(nil, ErrStopped)
}

// Wait returns as soon as all enqueued [f] are executed.
//
// You should not call [Run] after [Wait] is called.
func (e *Executor) Wait() error {
	e.outstanding.Wait()
	return e.err.Load()
}
