package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
	"github.com/mohammed-shakir/resource-radius/internal/core/router"
	mylog "github.com/mohammed-shakir/resource-radius/internal/logger"
	"github.com/mohammed-shakir/resource-radius/internal/spatial"
)

type Datasets interface {
	Load(ctx context.Context, cat catalog.Category) ([]model.Record, error)
}

// Composer answers /api/resources: the isochrone plus the records of the
// requested categories that fall inside it, as one FeatureCollection.
type Composer struct {
	svc      *Service
	datasets Datasets
	logger   *slog.Logger
}

func NewComposer(logger *slog.Logger, svc *Service, ds Datasets) *Composer {
	return &Composer{svc: svc, datasets: ds, logger: logger}
}

// Compose runs the pipeline and the category loads concurrently. Unknown or
// unreadable categories are logged and skipped.
func (c *Composer) Compose(ctx context.Context, req model.ResourcesRequest) (model.IsochronePolygon, []model.Record, error) {
	var (
		raw   []byte
		mu    sync.Mutex
		byCat = make(map[string][]model.Record, len(req.Categories))
	)

	cats := resolveCategories(req.Categories)
	for _, id := range req.Categories {
		if _, ok := catalog.Lookup(id); !ok {
			c.logger.WarnContext(ctx, "unknown category", "category", id)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := c.svc.Resolve(gctx, req.ResourceRequest)
		if err != nil {
			return err
		}
		raw = b
		return nil
	})
	for _, cat := range cats {
		g.Go(func() error {
			lctx := mylog.WithCategory(gctx, cat.ID)
			recs, err := c.datasets.Load(lctx, cat)
			if err != nil {
				c.logger.WarnContext(lctx, "category load failed", "err", err)
				return nil
			}
			mu.Lock()
			byCat[cat.ID] = recs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.IsochronePolygon{}, nil, err
	}

	iso, err := spatial.DecodeIsochrone(raw)
	if err != nil {
		return model.IsochronePolygon{}, nil, fmt.Errorf("decode isochrone: %w", err)
	}

	var inside []model.Record
	total := 0
	for _, cat := range cats {
		recs := byCat[cat.ID]
		total += len(recs)
		inside = append(inside, spatial.Filter(recs, iso)...)
	}
	observability.AddResourcesFiltered(len(inside), total-len(inside))
	return iso, inside, nil
}

// catalog entries for ids in request order, without duplicates
func resolveCategories(ids []string) []catalog.Category {
	seen := make(map[string]bool, len(ids))
	var out []catalog.Category
	for _, id := range ids {
		cat, ok := catalog.Lookup(id)
		if !ok || seen[cat.ID] {
			continue
		}
		seen[cat.ID] = true
		out = append(out, cat)
	}
	return out
}

func (c *Composer) HandleResources(ctx context.Context, w http.ResponseWriter, req model.ResourcesRequest) {
	iso, recs, err := c.Compose(ctx, req)
	if err != nil {
		c.logger.ErrorContext(ctx, "resources request failed", "err", err)
		router.WriteError(w, http.StatusInternalServerError, err.Error(), DetailsFetchError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(spatial.FeatureCollection(&iso, recs))
}
