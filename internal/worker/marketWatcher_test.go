package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain/service/poller"
)

type scriptedRunner struct {
	calls atomic.Int32
	fn    func(call int32) (poller.CycleReport, error)
}

func (r *scriptedRunner) RunCycle(context.Context) (poller.CycleReport, error) {
	call := r.calls.Add(1)
	if r.fn == nil {
		return poller.CycleReport{TraceID: "ok"}, nil
	}
	return r.fn(call)
}

func TestMarketWatcher_StartOnce(t *testing.T) {
	rq := require.New(t)

	runner := &scriptedRunner{}
	w := NewMarketWatcher(runner, 10*time.Millisecond)

	rq.NoError(w.Start(context.Background()))
	rq.ErrorIs(w.Start(context.Background()), ErrAlreadyRunning)
	rq.True(w.IsRunning())

	rq.Eventually(func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	w.Stop()
	rq.False(w.IsRunning())

	stopped := runner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	rq.Equal(stopped, runner.calls.Load())

	// После остановки можно запустить снова.
	rq.NoError(w.Start(context.Background()))
	w.Stop()
}

func TestMarketWatcher_SurvivesPanicsAndErrors(t *testing.T) {
	rq := require.New(t)

	runner := &scriptedRunner{fn: func(call int32) (poller.CycleReport, error) {
		switch call {
		case 1:
			panic("boom")
		case 2:
			return poller.CycleReport{TraceID: "failed"}, errors.New("store unavailable")
		default:
			return poller.CycleReport{TraceID: "ok", Notified: 1}, nil
		}
	}}

	w := NewMarketWatcher(runner, 5*time.Millisecond)
	rq.NoError(w.Start(context.Background()))
	defer w.Stop()

	rq.Eventually(func() bool {
		report, ok := w.LastReport()
		return ok && report.TraceID == "ok"
	}, time.Second, 5*time.Millisecond)

	status := w.Status()
	rq.True(status.Running)
	rq.GreaterOrEqual(status.Cycles, int64(3))
	rq.NotNil(status.LastReport)
	rq.Empty(status.LastError)
}

func TestMarketWatcher_StopsWithContext(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())

	w := NewMarketWatcher(&scriptedRunner{}, time.Hour)
	rq.NoError(w.Start(ctx))

	cancel()

	rq.Eventually(func() bool { return !w.IsRunning() }, time.Second, 5*time.Millisecond)
}

func TestMarketWatcher_RunReturnsOnCancel(t *testing.T) {
	rq := require.New(t)

	runner := &scriptedRunner{}
	w := NewMarketWatcher(runner, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	rq.Eventually(func() bool { return runner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		rq.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestMarketWatcher_StatusBeforeStart(t *testing.T) {
	rq := require.New(t)

	w := NewMarketWatcher(&scriptedRunner{}, 0)
	status := w.Status()

	rq.False(status.Running)
	rq.Equal(DefaultInterval.String(), status.Interval)
	rq.Nil(status.LastReport)

	_, ok := w.LastReport()
	rq.False(ok)

	w.Stop()
}
