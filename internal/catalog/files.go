package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
)

// ETag is the strong entity tag for a file body.
func ETag(b []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(b))
}

// ListHandler serves the category list with the URL of each file under
// prefix.
func ListHandler(prefix string) http.HandlerFunc {
	type item struct {
		Category
		URL string `json:"url"`
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		out := make([]item, 0, len(categories))
		for _, c := range categories {
			out = append(out, item{Category: c, URL: path.Join(prefix, c.File)})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}
}

// FileHandler serves a single category file from fsys. The route must
// provide a {file} parameter. Conditional requests are answered with 304.
func FileHandler(fsys fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, ok := Lookup(chi.URLParam(r, "file"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		b, err := fs.ReadFile(fsys, cat.File)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "read failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("ETag", ETag(b))
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, cat.File, time.Time{}, bytes.NewReader(b))
	}
}
