// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package supervisor

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hematlabs/hemat/internal/logging"
)

type mockGC struct {
	calls atomic.Int64
	err   error
	ran   chan struct{}
}

func (m *mockGC) RunGC() error {
	if m.calls.Add(1) == 1 {
		close(m.ran)
	}
	return m.err
}

func TestArchiveGCServiceRunsRounds(t *testing.T) {
	t.Parallel()

	gc := &mockGC{ran: make(chan struct{})}
	svc := NewArchiveGCService(gc, 10*time.Millisecond, logging.NewTestLogger(os.Stderr))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-gc.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("GC never ran")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if gc.calls.Load() < 1 {
		t.Error("expected at least one GC round")
	}
}

func TestArchiveGCServiceSurvivesErrors(t *testing.T) {
	t.Parallel()

	gc := &mockGC{ran: make(chan struct{}), err: errors.New("value log locked")}
	svc := NewArchiveGCService(gc, 5*time.Millisecond, logging.NewTestLogger(os.Stderr))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-gc.ran
	// Let a couple more rounds fail; the loop must keep going.
	time.Sleep(25 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
	if gc.calls.Load() < 2 {
		t.Errorf("GC ran %d times, want >= 2", gc.calls.Load())
	}
}

func TestArchiveGCServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewArchiveGCService(&mockGC{ran: make(chan struct{})}, 0, logging.NewTestLogger(os.Stderr))
	if svc.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", svc.interval)
	}
	if svc.String() != "archive-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}
