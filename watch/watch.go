// Package watch re-loads and re-processes a ledger whenever one of its
// constituent files changes on disk, grounded on the teacher's
// web.Server.reloadLedger reload-on-demand pattern but generalized into
// a push model driven by fsnotify instead of a per-request check.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ledgerbase/ledgerbase/loader"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/processor"
	"github.com/ledgerbase/ledgerbase/query"
)

// Callback receives the freshly rebuilt query surface after a reload,
// or err if the reload failed (a fatal loader/processor error). The
// previous *query.Engine remains valid and safe to keep serving until
// a callback with err == nil arrives.
type Callback func(eng *query.Engine, err error)

// Watcher rebuilds the ledger rooted at filename whenever any file the
// Loader visited while building it changes.
type Watcher struct {
	filename string
	ldr      *loader.Loader
	fsw      *fsnotify.Watcher
	visited  map[string]bool
}

// New creates a Watcher for filename. FollowIncludes is always
// enabled, since watching a ledger that can't change shape from
// includes would defeat the purpose.
func New(filename string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		filename: filename,
		ldr:      loader.New(loader.WithFollowIncludes()),
		fsw:      fsw,
		visited:  map[string]bool{},
	}, nil
}

// Run performs an initial load, invokes cb, then blocks watching for
// write events on every visited file until ctx is cancelled. Each
// subsequent write triggers a full reload and another cb call with the
// newly tracked file set re-subscribed.
func (w *Watcher) Run(ctx context.Context, cb Callback) error {
	if err := w.reload(ctx, cb); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return w.fsw.Close()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := w.reload(ctx, cb); err != nil {
				cb(nil, err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			cb(nil, err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context, cb Callback) error {
	tree, result, err := w.ldr.Load(ctx, w.filename)
	if err != nil {
		return err
	}

	for _, f := range result.Visited {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		if w.visited[abs] {
			continue
		}
		w.visited[abs] = true
		if err := w.fsw.Add(abs); err != nil {
			return fmt.Errorf("failed to watch %s: %w", abs, err)
		}
	}

	opts, _ := options.Resolve(tree)
	st, idx, _, err := processor.Process(ctx, tree, opts)
	if err != nil {
		return err
	}

	cb(query.New(st, idx), nil)
	return nil
}
