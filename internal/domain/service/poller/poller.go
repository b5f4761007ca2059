package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/rs/xid"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/pkg/contextx"
	"portals_watcher/pkg/logx"
)

const DefaultListingsLimit = 20

type SubscriptionStore interface {
	ListDistinctCollections(ctx context.Context) ([]string, error)
	SubscribersOf(ctx context.Context, collection string) ([]entity.Subscription, error)
}

type Ledger interface {
	IsSeen(ctx context.Context, listingID string) (bool, error)
	MarkSeen(ctx context.Context, listingID string) (bool, error)
}

type Gateway interface {
	GetFloor(ctx context.Context, collection string) (float64, bool)
	GetRecentListings(ctx context.Context, collection string, limit int) []entity.Listing
}

type Sink interface {
	Send(ctx context.Context, userID int64, text string, disablePreview bool) error
}

// CycleReport — итог одного прохода по всем коллекциям.
type CycleReport struct {
	TraceID     string        `json:"trace_id"`
	Collections int           `json:"collections"`
	Skipped     int           `json:"skipped"`
	Evaluated   int           `json:"evaluated"`
	Discarded   int           `json:"discarded"`
	Notified    int           `json:"notified"`
	Failed      int           `json:"failed"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

type Poller struct {
	store         SubscriptionStore
	ledger        Ledger
	gateway       Gateway
	sink          Sink
	listingsLimit int
}

func New(store SubscriptionStore, ledger Ledger, gateway Gateway, sink Sink, listingsLimit int) *Poller {
	if listingsLimit <= 0 {
		listingsLimit = DefaultListingsLimit
	}

	return &Poller{
		store:         store,
		ledger:        ledger,
		gateway:       gateway,
		sink:          sink,
		listingsLimit: listingsLimit,
	}
}

// RunCycle проходит по всем коллекциям, на которые есть подписки.
// Ошибка возвращается только если не удалось получить сам список коллекций;
// сбои отдельных коллекций, лотов и получателей логируются и учитываются в отчёте.
func (p *Poller) RunCycle(ctx context.Context) (report CycleReport, err error) {
	report = CycleReport{
		TraceID:   xid.New().String(),
		StartedAt: time.Now(),
	}

	ctx = contextx.WithTraceID(ctx, contextx.TraceID(report.TraceID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, report.TraceID)))

	defer func() {
		report.Duration = time.Since(report.StartedAt)
		cycleDuration.Observe(report.Duration.Seconds())
	}()

	collections, err := p.store.ListDistinctCollections(ctx)
	if err != nil {
		cyclesTotal.WithLabelValues("failed").Inc()
		return report, fmt.Errorf("store.ListDistinctCollections: %w", err)
	}

	report.Collections = len(collections)

	for _, collection := range collections {
		if ctx.Err() != nil {
			break
		}

		p.processCollectionSafe(ctx, collection, &report)
	}

	cyclesTotal.WithLabelValues("ok").Inc()

	return report, nil
}

// processCollectionSafe изолирует панику одной коллекции от остальных.
func (p *Poller) processCollectionSafe(ctx context.Context, collection string, report *CycleReport) {
	defer func() {
		if r := recover(); r != nil {
			report.Skipped++
			logger(ctx).Error("collection processing panicked",
				slog.String(logx.FieldCollection, collection),
				slog.Any(logx.FieldError, r),
				slog.String(logx.FieldStack, string(debug.Stack())),
			)
		}
	}()

	p.processCollection(ctx, collection, report)
}

func (p *Poller) processCollection(ctx context.Context, collection string, report *CycleReport) {
	log := logger(ctx).With(slog.String(logx.FieldCollection, collection))

	floor, ok := p.gateway.GetFloor(ctx, collection)
	if !ok {
		report.Skipped++
		collectionsSkippedTotal.Inc()
		log.Debug("floor unavailable, collection skipped")
		return
	}

	listings := p.gateway.GetRecentListings(ctx, collection, p.listingsLimit)

	for _, listing := range listings {
		if !listing.Valid() {
			report.Discarded++
			listingsDiscardedTotal.Inc()
			log.Debug("malformed listing discarded", slog.String(logx.FieldListingID, listing.ID))
			continue
		}

		seen, err := p.ledger.IsSeen(ctx, listing.ID)
		if err != nil {
			// Окончательное решение всё равно за MarkSeen.
			log.Warn("ledger.IsSeen", slog.String(logx.FieldListingID, listing.ID), logx.Error(err))
		} else if seen {
			continue
		}

		// Подписчиков читаем до отметки: при ошибке хранилища лот остаётся
		// непросмотренным и будет разобран в следующем цикле.
		subscribers, err := p.store.SubscribersOf(ctx, collection)
		if err != nil {
			report.Skipped++
			collectionsSkippedTotal.Inc()
			log.Error("store.SubscribersOf, collection abandoned for this cycle", logx.Error(err))
			return
		}

		// Лот захватывается до рассылки: падение между отметкой и отправкой
		// теряет уведомление, но никогда не дублирует его.
		inserted, err := p.ledger.MarkSeen(ctx, listing.ID)
		if err != nil {
			log.Error("ledger.MarkSeen", slog.String(logx.FieldListingID, listing.ID), logx.Error(err))
			continue
		}

		if !inserted {
			continue
		}

		report.Evaluated++
		listingsEvaluatedTotal.Inc()

		p.notify(ctx, log, collection, floor, listing, subscribers, report)
	}
}

func (p *Poller) notify(
	ctx context.Context,
	log *slog.Logger,
	collection string,
	floor float64,
	listing entity.Listing,
	subscribers []entity.Subscription,
	report *CycleReport,
) {
	price := listing.PriceValue()

	for _, sub := range subscribers {
		if !sub.Triggers(price, floor) {
			continue
		}

		alert := entity.Alert{
			UserID:       sub.UserID,
			Collection:   collection,
			Listing:      listing,
			Floor:        floor,
			ThresholdPct: sub.ThresholdPct,
			Border:       sub.Border(floor),
		}

		if err := p.sink.Send(ctx, sub.UserID, formatAlert(alert), true); err != nil {
			report.Failed++
			notificationsTotal.WithLabelValues("failed").Inc()
			log.Error("sink.Send",
				slog.Int64(logx.FieldUserID, sub.UserID),
				slog.String(logx.FieldListingID, listing.ID),
				logx.Error(err),
			)
			continue
		}

		report.Notified++
		notificationsTotal.WithLabelValues("sent").Inc()
		log.Info("alert sent",
			slog.Int64(logx.FieldUserID, sub.UserID),
			slog.String(logx.FieldListingID, listing.ID),
			slog.Float64(logx.FieldPrice, price),
			slog.Float64(logx.FieldFloor, floor),
			slog.Float64(logx.FieldThreshold, sub.ThresholdPct),
		)
	}
}
