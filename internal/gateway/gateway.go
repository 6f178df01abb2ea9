// Package gateway feeds the catalog store from the data source: a one-shot product load
// and a periodic stock poll, both bound to the lifetime of a session.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPollInterval is used when Settings.PollInterval is not positive.
const DefaultPollInterval = 15 * time.Second

// Dispatcher receives the actions produced by the gateway.
type Dispatcher interface {
	Dispatch(a catalog.Action)
}

// Settings selects the data source and the stock polling cadence.
type Settings struct {
	APIBase      string
	PollInterval time.Duration
}

func (s Settings) interval() time.Duration {
	if s.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return s.PollInterval
}

// Gateway runs the load and poll lifecycles of one session.
type Gateway struct {
	dispatcher Dispatcher
	newSource  SourceFactory
	logger     *slog.Logger
	tracer     trace.Tracer
	fetches    metric.Int64Counter
	polls      metric.Int64Counter

	mu       sync.Mutex
	parent   context.Context
	settings Settings
	loader   *lifecycle
	poller   *lifecycle
	closed   bool
	wg       sync.WaitGroup
}

// New creates a gateway dispatching into d, building sources with newSource.
func New(d Dispatcher, newSource SourceFactory, logger *slog.Logger) *Gateway {
	meter := otel.Meter("storefront-gateway")
	fetches, err := meter.Int64Counter("storefront_catalog_fetch", metric.WithDescription("Initial product loads by result"))
	if err != nil {
		panic(fmt.Sprintf("failed to create storefront_catalog_fetch counter: %v", err))
	}
	polls, err := meter.Int64Counter("storefront_stock_poll", metric.WithDescription("Stock polls by result"))
	if err != nil {
		panic(fmt.Sprintf("failed to create storefront_stock_poll counter: %v", err))
	}
	return &Gateway{
		dispatcher: d,
		newSource:  newSource,
		logger:     logger.With("component", "gateway"),
		tracer:     otel.Tracer("storefront-gateway"),
		fetches:    fetches,
		polls:      polls,
	}
}

// lifecycle is a cancellable unit of work. Once stopped, it never dispatches again.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
}

func newLifecycle(parent context.Context) *lifecycle {
	ctx, cancel := context.WithCancel(parent)
	return &lifecycle{ctx: ctx, cancel: cancel}
}

// stop cancels the lifecycle. After it returns no further action is dispatched.
func (l *lifecycle) stop() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.cancel()
}

// dispatch forwards a to d unless the lifecycle was stopped or its context ended.
func (l *lifecycle) dispatch(d Dispatcher, a catalog.Action) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || l.ctx.Err() != nil {
		return false
	}
	d.Dispatch(a)
	return true
}

// Start begins the initial load and the stock polling. Both end when ctx is done or on Close.
func (g *Gateway) Start(ctx context.Context, settings Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.parent = ctx
	g.settings = settings
	src := g.newSource(settings.APIBase)
	g.startLoadLocked(src)
	g.startPollingLocked(src, settings.interval())
}

// Reconfigure applies new settings. A different API base restarts both lifecycles;
// a different interval only reschedules polling.
func (g *Gateway) Reconfigure(settings Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.parent == nil {
		return
	}
	previous := g.settings
	g.settings = settings
	switch {
	case settings.APIBase != previous.APIBase:
		g.logger.Info("Data source changed, reloading catalog", "api_base", settings.APIBase)
		src := g.newSource(settings.APIBase)
		g.startLoadLocked(src)
		g.startPollingLocked(src, settings.interval())
	case settings.interval() != previous.interval():
		g.logger.Info("Rescheduling stock polling", "interval", settings.interval())
		g.startPollingLocked(g.newSource(settings.APIBase), settings.interval())
	}
}

// Load restarts the product load against the current data source, aborting a load in flight.
func (g *Gateway) Load() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.parent == nil {
		return
	}
	g.startLoadLocked(g.newSource(g.settings.APIBase))
}

// StartPolling reschedules stock polling at the given interval. The previous poller is
// cancelled before the new one starts.
func (g *Gateway) StartPolling(every time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed || g.parent == nil {
		return
	}
	g.settings.PollInterval = every
	g.startPollingLocked(g.newSource(g.settings.APIBase), g.settings.interval())
}

// Close cancels both lifecycles and waits for their goroutines to finish.
func (g *Gateway) Close() {
	g.mu.Lock()
	g.closed = true
	g.loader.stop()
	g.poller.stop()
	g.loader, g.poller = nil, nil
	g.mu.Unlock()

	g.wg.Wait()
	g.logger.Debug("Gateway closed")
}

// startLoadLocked aborts any running load and starts a new one. Caller holds g.mu.
func (g *Gateway) startLoadLocked(src Source) {
	g.loader.stop()
	lc := newLifecycle(g.parent)
	g.loader = lc

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.load(lc, src)
	}()
}

// load fetches the product list once. Failures are surfaced as FETCH_ERR unless the
// lifecycle was cancelled, in which case nothing is dispatched.
func (g *Gateway) load(lc *lifecycle, src Source) {
	ctx, span := g.tracer.Start(logger.ContextWithAttrs(lc.ctx, slog.String("lifecycle", "load")), "gateway.load")
	defer span.End()

	if !lc.dispatch(g.dispatcher, catalog.FetchStart{}) {
		return
	}
	products, err := src.Products(ctx)
	switch {
	case lc.ctx.Err() != nil || errors.Is(err, context.Canceled):
		g.logger.DebugContext(ctx, "Product load cancelled")
		g.countFetch(ctx, "cancelled")
	case err != nil:
		g.logger.WarnContext(ctx, "Product load failed", "error", err)
		if lc.dispatch(g.dispatcher, catalog.FetchErr{Message: displayMessage(err)}) {
			g.countFetch(ctx, "error")
		}
	default:
		g.logger.InfoContext(ctx, "Product list loaded", "count", len(products))
		if lc.dispatch(g.dispatcher, catalog.FetchOK{Products: products}) {
			g.countFetch(ctx, "ok")
		}
	}
}

// startPollingLocked replaces the active poller; at most one is ever scheduled. Caller holds g.mu.
func (g *Gateway) startPollingLocked(src Source, every time.Duration) {
	g.poller.stop()
	lc := newLifecycle(g.parent)
	g.poller = lc

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		g.spawnPoll(lc, src)
		for {
			select {
			case <-lc.ctx.Done():
				return
			case <-ticker.C:
				g.spawnPoll(lc, src)
			}
		}
	}()
}

// spawnPoll runs one poll in its own goroutine. A slow poll does not delay the next tick,
// so polls may overlap.
func (g *Gateway) spawnPoll(lc *lifecycle, src Source) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.poll(lc, src)
	}()
}

// poll fetches stock levels and dispatches STOCK_PATCH. Failures are dropped silently.
func (g *Gateway) poll(lc *lifecycle, src Source) {
	ctx, span := g.tracer.Start(logger.ContextWithAttrs(lc.ctx, slog.String("lifecycle", "poll")), "gateway.poll")
	defer span.End()

	byID, err := src.Stock(ctx)
	if err != nil {
		if lc.ctx.Err() == nil {
			g.logger.DebugContext(ctx, "Stock poll failed", "error", err)
			g.countPoll(ctx, "error")
		}
		return
	}
	if lc.dispatch(g.dispatcher, catalog.StockPatch{ByID: byID}) {
		g.countPoll(ctx, "ok")
	}
}

func (g *Gateway) countFetch(ctx context.Context, result string) {
	g.fetches.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (g *Gateway) countPoll(ctx context.Context, result string) {
	g.polls.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
