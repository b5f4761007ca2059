package server

import (
	"portals_watcher/internal/domain/entity"
	"portals_watcher/internal/worker"
	"portals_watcher/pkg/rest"
)

func newRESTStatus(status worker.Status) rest.Status {
	out := rest.Status{
		Running:   status.Running,
		Interval:  status.Interval,
		Cycles:    status.Cycles,
		LastError: status.LastError,
	}

	if r := status.LastReport; r != nil {
		out.LastCycle = &rest.CycleReport{
			TraceID:     r.TraceID,
			Collections: r.Collections,
			Skipped:     r.Skipped,
			Evaluated:   r.Evaluated,
			Discarded:   r.Discarded,
			Notified:    r.Notified,
			Failed:      r.Failed,
			StartedAt:   r.StartedAt,
			DurationMs:  r.Duration.Milliseconds(),
		}
	}

	return out
}

func newRESTSubscription(sub entity.Subscription) rest.Subscription {
	return rest.Subscription{
		Collection:   sub.Collection,
		ThresholdPct: sub.ThresholdPct,
		UpdatedAt:    sub.UpdatedAt,
	}
}
