package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/RechkalovAA/weblarek/internal/bus"
	"github.com/RechkalovAA/weblarek/internal/domain"
	"github.com/RechkalovAA/weblarek/internal/model"
	"github.com/RechkalovAA/weblarek/internal/view"
	"github.com/RechkalovAA/weblarek/internal/view/headless"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// CatalogProvider supplies the initial catalog of a session.
type CatalogProvider interface {
	Load(ctx context.Context) ([]domain.Product, CatalogSource)
}

// BusObserver is attached to the bus of every new session.
type BusObserver interface {
	Attach(sessionID string, b *bus.Bus)
}

// SessionDeps are shared by every session.
type SessionDeps struct {
	Catalog       CatalogProvider
	Orders        OrderSubmitter
	Builder       view.Builder
	Observers     []BusObserver
	SubmitTimeout time.Duration
	Logger        *slog.Logger
}

// State is a point-in-time view of a session.
type State struct {
	ID            string          `json:"id"`
	Stage         string          `json:"stage"`
	CatalogSource CatalogSource   `json:"catalog_source,omitempty"`
	Screen        headless.Screen `json:"screen"`
}

// Session is one storefront user. All bus traffic runs under mu, which makes
// the session a single logical thread; order service calls run on their own
// goroutines and re-enter through Defer.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	bus      *bus.Bus
	catalog  *model.Catalog
	orch     *Orchestrator
	recorder *headless.Recorder
	provider CatalogProvider
	source   CatalogSource
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewSession builds the models, views and orchestrator of a new session.
func NewSession(id string, deps SessionDeps) *Session {
	logger := deps.Logger.With(slog.String("session_id", id))
	ctx, cancel := context.WithCancel(context.Background())

	b := bus.New(logger)
	recorder := headless.New()
	s := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		bus:       b,
		catalog:   model.NewCatalog(b),
		recorder:  recorder,
		provider:  deps.Catalog,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger,
	}
	s.orch = NewOrchestrator(OrchestratorDeps{
		Bus:           b,
		Catalog:       s.catalog,
		Basket:        model.NewBasket(b),
		Buyer:         model.NewBuyer(),
		Views:         recorder.Views(),
		Builder:       deps.Builder,
		Orders:        deps.Orders,
		Deferrer:      s,
		SubmitTimeout: deps.SubmitTimeout,
		Logger:        logger,
	})
	for _, obs := range deps.Observers {
		obs.Attach(id, b)
	}
	return s
}

// Start loads the catalog in the background. The page is rendered once the
// catalog arrives. Starting a closed session does nothing.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.logger.DebugContext(ctx, "loading catalog")
	s.Defer(func(ctx context.Context) func() {
		items, source := s.provider.Load(ctx)
		return func() {
			s.source = source
			s.catalog.SetItems(items)
			s.logger.Info("catalog loaded",
				slog.String("source", string(source)),
				slog.Int("items", len(items)),
			)
		}
	})
}

// Emit publishes an intent on the session bus. Change events are rejected.
func (s *Session) Emit(ctx context.Context, ev domain.Event) error {
	if !slices.Contains(domain.IntentNames(), ev.EventName()) {
		return apperrors.InvalidInput(fmt.Sprintf("%s is not an intent event", ev.EventName()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.NotFound("session", s.ID)
	}

	intentsTotal.WithLabelValues(ev.EventName()).Inc()
	s.logger.DebugContext(ctx, "intent received",
		slog.String("event", ev.EventName()),
		slog.String("stage", s.orch.Stage().String()),
	)
	s.bus.Publish(ev)
	return nil
}

// Defer runs work on its own goroutine and then its completion under the
// session lock. Completions of a closed session are dropped. Callers must hold
// the session lock and have checked that the session is open, so that no
// goroutine is added once Close has started waiting.
func (s *Session) Defer(work func(ctx context.Context) func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		done := work(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || done == nil {
			return
		}
		done()
	}()
}

// State returns the current stage and screen.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:            s.ID,
		Stage:         s.orch.Stage().String(),
		CatalogSource: s.source,
		Screen:        s.recorder.Screen(),
	}
}

// Screen returns what the session currently shows.
func (s *Session) Screen() headless.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.Screen()
}

// Stage returns the current checkout stage.
func (s *Session) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Stage()
}

// Wait blocks until every deferred call has completed.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight calls, detaches the orchestrator and waits for
// pending goroutines to return.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	s.orch.Close()
	s.mu.Unlock()

	s.wg.Wait()
}
