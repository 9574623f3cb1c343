package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/RechkalovAA/weblarek/internal/domain"
	"github.com/RechkalovAA/weblarek/internal/orderapi"
	"github.com/RechkalovAA/weblarek/internal/repository"
	apperrors "github.com/RechkalovAA/weblarek/pkg/errors"
)

// CatalogSource names where a loaded catalog came from.
type CatalogSource string

const (
	SourceAPI     CatalogSource = "api"
	SourceCache   CatalogSource = "cache"
	SourceBundled CatalogSource = "bundled"
)

// ProductFetcher fetches the live product list.
type ProductFetcher interface {
	FetchProductList(ctx context.Context) ([]domain.Product, error)
}

// CatalogLoader produces the initial catalog of a session. It never fails:
// the order service is tried first, then the cache, then the bundled list.
type CatalogLoader struct {
	api      ProductFetcher
	cache    repository.CatalogCache
	fallback func() []domain.Product
	timeout  time.Duration
	logger   *slog.Logger
}

// NewCatalogLoader creates a loader. cache may be nil.
func NewCatalogLoader(api ProductFetcher, cache repository.CatalogCache, timeout time.Duration, logger *slog.Logger) *CatalogLoader {
	return &CatalogLoader{
		api:      api,
		cache:    cache,
		fallback: orderapi.Fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// Load returns the best available catalog and where it came from. A fresh
// list from the order service refreshes the cache.
func (l *CatalogLoader) Load(ctx context.Context) ([]domain.Product, CatalogSource) {
	items, source := l.load(ctx)
	catalogLoadsTotal.WithLabelValues(string(source)).Inc()
	return items, source
}

func (l *CatalogLoader) load(ctx context.Context) ([]domain.Product, CatalogSource) {
	fetchCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	items, err := l.api.FetchProductList(fetchCtx)
	if err == nil {
		if l.cache != nil {
			if err := l.cache.Save(ctx, items); err != nil {
				l.logger.WarnContext(ctx, "failed to refresh catalog cache",
					slog.String("error", err.Error()),
				)
			}
		}
		return items, SourceAPI
	}

	l.logger.WarnContext(ctx, "product list fetch failed, falling back",
		slog.String("error", err.Error()),
	)

	if l.cache != nil {
		cached, cerr := l.cache.Get(ctx)
		switch {
		case cerr == nil:
			return cached, SourceCache
		case errors.Is(cerr, apperrors.ErrNotFound):
			l.logger.DebugContext(ctx, "catalog cache is empty")
		default:
			l.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("error", cerr.Error()),
			)
		}
	}

	return l.fallback(), SourceBundled
}
