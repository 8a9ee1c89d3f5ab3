package component

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	ziplinecomponent "github.com/neosb/zipline/pkg/zipline/v1/component"
)

type fakeController struct {
	heartbeats int32
	done       int32
}

func (f *fakeController) Heartbeat(ctx context.Context, id ziplinecomponent.ID) error {
	atomic.AddInt32(&f.heartbeats, 1)
	return nil
}

func (f *fakeController) Done(ctx context.Context, id ziplinecomponent.ID) error {
	atomic.AddInt32(&f.done, 1)
	return nil
}

type fakeComponent struct {
	workCalls   int
	doneAfter   int
	signalCalls int32
	openErr     error
}

func (f *fakeComponent) ID() ziplinecomponent.ID { return "fake" }
func (f *fakeComponent) Open(ctx context.Context, handle ziplinecomponent.HostHandle) error {
	return f.openErr
}
func (f *fakeComponent) DoWork(ctx context.Context) (bool, error) {
	f.workCalls++
	return f.workCalls >= f.doneAfter, nil
}
func (f *fakeComponent) SignalDone(ctx context.Context) error {
	atomic.AddInt32(&f.signalCalls, 1)
	return nil
}

func TestRunCompletesNormally(t *testing.T) {
	ctrl := &fakeController{}
	comp := &fakeComponent{doneAfter: 3}
	handle := ziplinecomponent.HostHandle{ID: "fake", Controller: ctrl}

	err := Run(context.Background(), comp, handle, 5*time.Millisecond, NewGoroutineStrategy())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if comp.workCalls != 3 {
		t.Errorf("workCalls = %d, want 3", comp.workCalls)
	}
	if atomic.LoadInt32(&comp.signalCalls) != 0 {
		t.Errorf("SignalDone called %d times, want 0 on graceful completion", comp.signalCalls)
	}
}

func TestRunEmitsHeartbeats(t *testing.T) {
	ctrl := &fakeController{}
	comp := &fakeComponent{doneAfter: 1000000}
	handle := ziplinecomponent.HostHandle{ID: "fake", Controller: ctrl}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_ = Run(ctx, comp, handle, 5*time.Millisecond, NewGoroutineStrategy())

	if atomic.LoadInt32(&ctrl.heartbeats) == 0 {
		t.Error("expected at least one heartbeat to be reported")
	}
}

func TestRunCancellationSignalsDone(t *testing.T) {
	ctrl := &fakeController{}
	comp := &fakeComponent{doneAfter: 1000000}
	handle := ziplinecomponent.HostHandle{ID: "fake", Controller: ctrl}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, comp, handle, 5*time.Millisecond, NewGoroutineStrategy())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if atomic.LoadInt32(&comp.signalCalls) != 1 {
		t.Errorf("SignalDone called %d times, want 1 on cancellation", comp.signalCalls)
	}
}

func TestRunOpenError(t *testing.T) {
	comp := &fakeComponent{openErr: errors.New("boom")}
	handle := ziplinecomponent.HostHandle{ID: "fake", Controller: &fakeController{}}

	err := Run(context.Background(), comp, handle, time.Millisecond, NewGoroutineStrategy())
	if err == nil {
		t.Fatal("Run() error = nil, want non-nil")
	}
}
