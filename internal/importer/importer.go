// Package importer normalizes per-institution statement exports into
// canonical ledger directives. Each importer owns one source format: it
// identifies files by declared content type plus a small content probe, then
// extracts dated transactions (and, where the format carries a running
// balance, one trailing balance assertion).
package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/beanport-dev/beanport/internal/model"
	"github.com/beanport-dev/beanport/internal/source"
)

// ErrMissingField marks a required label or column that was absent from a
// file that passed detection. It propagates as a hard failure for that file;
// a file violating its own format's structure must not be silently skipped.
var ErrMissingField = errors.New("missing expected field")

// now is stubbed in tests. Formats without a content date use ingestion time.
var now = time.Now

// Importer is one source-format importer. Identify is a total predicate with
// no side effect beyond populating the File's decode cache; Extract returns
// the file's directives in chronological order. FileAccount and FileDate are
// used by callers to route the source document itself.
type Importer interface {
	Name() string
	Identify(f *source.File) bool
	Extract(f *source.File) ([]model.Directive, error)
	FileAccount() string
	FileDate(f *source.File) (time.Time, error)
}

// Registry holds importers in registration order. Order matters: formats with
// weak detection (content-type only) must be registered after formats that
// probe content, so IdentifyFile tries the strict probes first.
type Registry struct {
	order  []Importer
	byName map[string]Importer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Importer)}
}

// Register adds an importer. Panics on duplicate name.
func (r *Registry) Register(imp Importer) {
	key := strings.ToLower(imp.Name())
	if _, ok := r.byName[key]; ok {
		panic("duplicate importer name: " + key)
	}
	r.byName[key] = imp
	r.order = append(r.order, imp)
}

// Get returns the importer with the given name, or nil.
func (r *Registry) Get(name string) Importer {
	return r.byName[strings.ToLower(name)]
}

// All returns importers in registration order.
func (r *Registry) All() []Importer {
	return r.order
}

// IdentifyFile returns the first importer that claims the file, or nil.
func (r *Registry) IdentifyFile(f *source.File) Importer {
	for _, imp := range r.order {
		if imp.Identify(f) {
			return imp
		}
	}
	return nil
}

// Result is the outcome of ingesting one file.
type Result struct {
	File       *source.File
	Importer   string
	Directives []model.Directive
	Err        error
}

// ExtractFiles runs detection and extraction over a set of files. A failed
// or unrecognized file never blocks the others; failures are recorded on the
// per-file Result and logged.
func ExtractFiles(reg *Registry, paths []string, logger *log.Logger) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		f := source.New(path)
		res := Result{File: f}

		imp := reg.IdentifyFile(f)
		if imp == nil {
			res.Err = fmt.Errorf("no importer recognizes %s", f.Name())
			logger.Warn("file not recognized", "file", f.Name())
			results = append(results, res)
			continue
		}

		res.Importer = imp.Name()
		directives, err := imp.Extract(f)
		if err != nil {
			res.Err = fmt.Errorf("%s: extracting %s: %w", imp.Name(), f.Name(), err)
			logger.Error("extraction failed", "importer", imp.Name(), "file", f.Name(), "error", err)
			results = append(results, res)
			continue
		}

		res.Directives = directives
		logger.Info("extracted", "importer", imp.Name(), "file", f.Name(), "directives", len(directives))
		results = append(results, res)
	}
	return results
}

// reverseDirectives flips a slice extracted from a reverse-chronological
// export into chronological order, in place.
func reverseDirectives(ds []model.Directive) {
	for i, j := 0, len(ds)-1; i < j; i, j = i+1, j-1 {
		ds[i], ds[j] = ds[j], ds[i]
	}
}
