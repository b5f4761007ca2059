package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"portals_watcher/internal/domain/entity"
	"portals_watcher/pkg/logx"
)

const (
	opFloor    = "floor"
	opListings = "listings"

	DefaultListingURLTemplate = "https://t.me/portals/market?startapp={id}"
	DefaultListingsLimit      = 20
)

var errNoFloor = errors.New("floor not found in payload")

type Options struct {
	Client             ClientOptions
	ListingURLTemplate string
	// RPS <= 0 отключает ограничение.
	RPS     float64
	Breaker BreakerOptions
}

type BreakerOptions struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Gateway отдаёт floor и свежие лоты коллекции. Любая ошибка апстрима
// превращается в отсутствие результата: вызывающий код пропускает коллекцию.
type Gateway struct {
	client      *Client
	limiter     *rate.Limiter
	breaker     *gobreaker.CircuitBreaker
	urlTemplate string
}

func NewGateway(opts Options) (*Gateway, error) {
	client, err := NewClient(opts.Client)
	if err != nil {
		return nil, fmt.Errorf("NewClient: %w", err)
	}

	urlTemplate := opts.ListingURLTemplate
	if urlTemplate == "" {
		urlTemplate = DefaultListingURLTemplate
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}

	return &Gateway{
		client:      client,
		limiter:     rate.NewLimiter(limit, 1),
		breaker:     newBreaker(opts.Breaker),
		urlTemplate: urlTemplate,
	}, nil
}

func newBreaker(opts BreakerOptions) *gobreaker.CircuitBreaker {
	if opts == (BreakerOptions{}) {
		opts = DefaultBreakerOptions()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "marketplace",
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		IsSuccessful: isBreakerSuccess,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger(context.Background()).Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
}

// isBreakerSuccess: отказом апстрима считаются только транспортные ошибки и 5xx.
// 4xx (неизвестная коллекция) и отмена нашего контекста цепь не размыкают.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError
	}

	return false
}

// GetFloor возвращает floor коллекции; ok=false, если его получить не удалось.
func (g *Gateway) GetFloor(ctx context.Context, collection string) (float64, bool) {
	doc, err := g.fetch(ctx, opFloor, floorPath(collection), nil)
	if err != nil {
		g.warn(ctx, opFloor, collection, err)
		return 0, false
	}

	floor, ok := parseFloor(doc)
	if !ok {
		gatewayFailuresTotal.WithLabelValues(opFloor, "payload").Inc()
		g.warn(ctx, opFloor, collection, errNoFloor)
		return 0, false
	}

	return floor, true
}

// GetRecentListings возвращает не более limit последних лотов в порядке
// апстрима. Невалидные элементы не отбрасываются: это решает поллер.
func (g *Gateway) GetRecentListings(ctx context.Context, collection string, limit int) []entity.Listing {
	if limit <= 0 {
		limit = DefaultListingsLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	doc, err := g.fetch(ctx, opListings, listingsPath(collection), query)
	if err != nil {
		g.warn(ctx, opListings, collection, err)
		return []entity.Listing{}
	}

	items := listItems(doc)
	if len(items) > limit {
		items = items[:limit]
	}

	defaults := listingDefaults{collection: collection, urlTemplate: g.urlTemplate}

	listings := make([]entity.Listing, 0, len(items))
	for _, item := range items {
		listing, ok := parseListing(item, defaults)
		if !ok {
			continue
		}
		listings = append(listings, listing)
	}

	return listings
}

func (g *Gateway) fetch(ctx context.Context, op, path string, query url.Values) (any, error) {
	gatewayRequestsTotal.WithLabelValues(op).Inc()

	if err := g.limiter.Wait(ctx); err != nil {
		gatewayFailuresTotal.WithLabelValues(op, "rate_limit").Inc()
		return nil, fmt.Errorf("limiter.Wait: %w", err)
	}

	started := time.Now()
	defer func() {
		gatewayRequestDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
	}()

	doc, err := g.breaker.Execute(func() (any, error) {
		return g.client.getJSON(ctx, path, query)
	})
	if err != nil {
		reason := "http"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = "breaker_open"
		}
		gatewayFailuresTotal.WithLabelValues(op, reason).Inc()
		return nil, err
	}

	return doc, nil
}

func (g *Gateway) warn(ctx context.Context, op, collection string, err error) {
	logger(ctx).Warn("marketplace request failed",
		slog.String("operation", op),
		slog.String(logx.FieldCollection, collection),
		logx.Error(err),
	)
}
