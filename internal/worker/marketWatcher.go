package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"portals_watcher/internal/domain/service/poller"
	"portals_watcher/pkg/logx"
)

const DefaultInterval = 6 * time.Second

var ErrAlreadyRunning = errors.New("watcher is already running")

type CycleRunner interface {
	RunCycle(ctx context.Context) (poller.CycleReport, error)
}

// Status — снимок состояния для /status.
type Status struct {
	Running    bool                `json:"running"`
	Interval   string              `json:"interval"`
	Cycles     int64               `json:"cycles"`
	LastReport *poller.CycleReport `json:"last_report,omitempty"`
	LastError  string              `json:"last_error,omitempty"`
}

type MarketWatcher struct {
	poller   CycleRunner
	interval time.Duration

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup

	cycles     int64
	lastReport *poller.CycleReport
	lastErr    error
}

func NewMarketWatcher(p CycleRunner, interval time.Duration) *MarketWatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &MarketWatcher{
		poller:   p,
		interval: interval,
	}
}

// Start запускает цикл в фоне. Повторный вызов при работающем цикле
// возвращает ErrAlreadyRunning: второй параллельный цикл не создаётся.
func (w *MarketWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("watcher stopped with error", logx.Error(err))
		}
	}()

	return nil
}

func (w *MarketWatcher) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *MarketWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *MarketWatcher) LastReport() (poller.CycleReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastReport == nil {
		return poller.CycleReport{}, false
	}
	return *w.lastReport, true
}

func (w *MarketWatcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := Status{
		Running:  w.isRunning,
		Interval: w.interval.String(),
		Cycles:   w.cycles,
	}

	if w.lastReport != nil {
		report := *w.lastReport
		status.LastReport = &report
	}

	if w.lastErr != nil {
		status.LastError = w.lastErr.Error()
	}

	return status
}

// Run крутит циклы до отмены ctx. Пауза отсчитывается от конца цикла,
// поэтому циклы никогда не перекрываются.
func (w *MarketWatcher) Run(ctx context.Context) error {
	logger(ctx).Info("market watcher started", slog.Duration("interval", w.interval))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("market watcher stopped")
			return ctx.Err()
		case <-timer.C:
		}

		w.runOnce(ctx)

		timer.Reset(w.interval)
	}
}

func (w *MarketWatcher) runOnce(ctx context.Context) {
	report, err := w.safeCycle(ctx)

	w.mu.Lock()
	w.cycles++
	w.lastErr = err
	if err == nil {
		w.lastReport = &report
	}
	w.mu.Unlock()

	if err != nil {
		logger(ctx).Error("poll cycle failed",
			slog.String(logx.FieldTraceID, report.TraceID),
			logx.Error(err),
		)
		return
	}

	level := slog.LevelDebug
	if report.Notified > 0 || report.Failed > 0 {
		level = slog.LevelInfo
	}

	logger(ctx).Log(ctx, level, "poll cycle completed",
		slog.String(logx.FieldTraceID, report.TraceID),
		slog.Int("collections", report.Collections),
		slog.Int("skipped", report.Skipped),
		slog.Int("evaluated", report.Evaluated),
		slog.Int("discarded", report.Discarded),
		slog.Int("notified", report.Notified),
		slog.Int("failed", report.Failed),
		slog.Int64(logx.FieldDurationMs, report.Duration.Milliseconds()),
	)
}

func (w *MarketWatcher) safeCycle(ctx context.Context) (report poller.CycleReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll cycle panicked: %v", r)
			logger(ctx).Error("poll cycle panicked", slog.String(logx.FieldStack, string(debug.Stack())))
		}
	}()

	return w.poller.RunCycle(ctx)
}
