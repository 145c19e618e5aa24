package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
	mylog "github.com/mohammed-shakir/resource-radius/internal/logger"
	"github.com/mohammed-shakir/resource-radius/internal/records"
)

type dataset struct {
	sum  uint64
	recs []model.Record
}

// Datasets parses category files from fsys and keeps the results in a
// bounded LRU. An entry is reused only while the file content hash matches.
// Concurrent misses on the same file may both parse it; the last Add wins
// and both results are identical.
type Datasets struct {
	logger *slog.Logger
	fsys   fs.FS
	lru    *lru.Cache[string, dataset]
}

func NewDatasets(logger *slog.Logger, fsys fs.FS, size int) *Datasets {
	if size <= 0 {
		size = 32
	}
	c, _ := lru.New[string, dataset](size)
	return &Datasets{logger: logger, fsys: fsys, lru: c}
}

// Load returns the records of cat. The slice is a copy the caller may keep.
func (d *Datasets) Load(ctx context.Context, cat Category) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := fs.ReadFile(d.fsys, cat.File)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cat.File, err)
	}
	sum := xxhash.Sum64(raw)

	cached, ok := d.lru.Get(cat.File)
	if ok && cached.sum == sum {
		observability.IncDatasetCacheHit()
		return append([]model.Record(nil), cached.recs...), nil
	}
	observability.IncDatasetCacheMiss()

	seq, err := records.ParseAuto(string(raw))
	if err != nil {
		d.logger.WarnContext(mylog.WithCategory(ctx, cat.ID), "category header drifted, reading columns by position",
			"file", cat.File, "err", err)
	}
	recs := records.Collect(seq)
	d.lru.Add(cat.File, dataset{sum: sum, recs: recs})

	return append([]model.Record(nil), recs...), nil
}

// Len is the number of cached datasets.
func (d *Datasets) Len() int { return d.lru.Len() }
