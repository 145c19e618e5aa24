// Package finder is the client side of the resource search: it accumulates
// category records, asks the proxy for an isochrone and keeps only the
// records inside it.
package finder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	mylog "github.com/mohammed-shakir/resource-radius/internal/logger"
	"github.com/mohammed-shakir/resource-radius/internal/records"
	"github.com/mohammed-shakir/resource-radius/internal/spatial"
)

// ErrStale is returned by Submit when a newer Submit or a Reset happened
// while the request was in flight. The response was discarded.
var ErrStale = errors.New("stale isochrone response discarded")

type Isochrones interface {
	Isochrone(ctx context.Context, req model.ResourceRequest, categories []string) ([]byte, error)
}

type Option func(*Finder)

// WithParallelism bounds concurrent category loads.
func WithParallelism(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.parallel = n
		}
	}
}

type Finder struct {
	logger   *slog.Logger
	src      Source
	proxy    Isochrones
	parallel int

	mu    sync.Mutex
	state State
	form  Form
	byCat map[string][]model.Record
	order []string
	iso   *model.IsochronePolygon
	err   string
	gen   uint64
	epoch uint64
}

func New(logger *slog.Logger, src Source, proxy Isochrones, opts ...Option) *Finder {
	f := &Finder{
		logger:   logger,
		src:      src,
		proxy:    proxy,
		parallel: 4,
		byCat:    make(map[string][]model.Record),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Select loads the given categories and appends their records. Selecting a
// category twice appends its records twice. Categories that fail to load
// are logged and stay empty; only unknown ids are an error.
func (f *Finder) Select(ctx context.Context, ids ...string) error {
	cats := make([]catalog.Category, 0, len(ids))
	for _, id := range ids {
		cat, ok := catalog.Lookup(id)
		if !ok {
			return fmt.Errorf("unknown category %q", id)
		}
		cats = append(cats, cat)
	}

	f.mu.Lock()
	epoch := f.epoch
	for _, cat := range cats {
		if _, seen := f.byCat[cat.ID]; !seen {
			f.byCat[cat.ID] = nil
			f.order = append(f.order, cat.ID)
		}
	}
	f.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallel)
	for _, cat := range cats {
		g.Go(func() error {
			lctx := mylog.WithCategory(gctx, cat.ID)
			text, err := f.src.Fetch(lctx, cat)
			if err != nil {
				f.logger.WarnContext(lctx, "category load failed", "err", &RecordLoadError{Category: cat.ID, Err: err})
				return nil
			}
			seq, err := records.ParseAuto(text)
			if err != nil {
				f.logger.WarnContext(lctx, "category header drifted, reading columns by position", "err", err)
			}
			recs := records.Collect(seq)
			f.merge(epoch, cat.ID, recs)
			f.logger.DebugContext(lctx, "category loaded", "records", len(recs))
			return nil
		})
	}
	return g.Wait()
}

func (f *Finder) merge(epoch uint64, id string, recs []model.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if epoch != f.epoch {
		return
	}
	f.byCat[id] = append(f.byCat[id], recs...)
}

// Submit asks the proxy for the isochrone of form and narrows every
// category to the records inside it. On failure the state becomes Failed
// and the accumulated records are left as they were.
func (f *Finder) Submit(ctx context.Context, form Form) (View, error) {
	req := form.Request()
	form.Minutes = int(req.Minutes)

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = AwaitingResponse
	f.form = form
	f.err = ""
	cats := append([]string(nil), f.order...)
	f.mu.Unlock()

	raw, err := f.proxy.Isochrone(ctx, req, cats)
	var iso model.IsochronePolygon
	if err == nil {
		iso, err = spatial.DecodeIsochrone(raw)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		f.logger.DebugContext(ctx, "discarding stale isochrone", "generation", gen, "current", f.gen)
		return f.viewLocked(), ErrStale
	}
	if err != nil {
		f.state = Failed
		f.err = userMessage(err)
		f.logger.WarnContext(ctx, "isochrone request failed", "err", err)
		return f.viewLocked(), err
	}

	for id, recs := range f.byCat {
		f.byCat[id] = spatial.Filter(recs, iso)
	}
	f.iso = &iso
	f.state = Displaying
	return f.viewLocked(), nil
}

// Reset clears records, polygon and error and returns to AwaitingInput.
// Loads and submits still in flight are discarded when they complete.
func (f *Finder) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.epoch++
	f.state = AwaitingInput
	f.form = Form{}
	f.byCat = make(map[string][]model.Record)
	f.order = nil
	f.iso = nil
	f.err = ""
}

// View is a snapshot of the finder. Records are flattened in the order the
// categories were first selected.
type View struct {
	State     State
	Form      Form
	Records   []model.Record
	Counts    map[string]int
	Isochrone *model.IsochronePolygon
	Error     string
}

func (f *Finder) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Finder) viewLocked() View {
	v := View{
		State:     f.state,
		Form:      f.form,
		Records:   []model.Record{},
		Counts:    make(map[string]int, len(f.order)),
		Isochrone: f.iso,
		Error:     f.err,
	}
	for _, id := range f.order {
		recs := f.byCat[id]
		v.Counts[id] = len(recs)
		v.Records = append(v.Records, recs...)
	}
	return v
}

// Render returns the map features for v.
func Render(v View) *geojson.FeatureCollection {
	return spatial.FeatureCollection(v.Isochrone, v.Records)
}

func userMessage(err error) string {
	var pe *ProxyError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return err.Error()
}
