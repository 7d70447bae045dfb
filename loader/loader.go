// Package loader resolves include directives into a single merged
// ast.AST, concurrently fetching sibling includes and tracking every
// file visited so external tools (a file-watcher, a doctor command)
// can subscribe to exactly the files a ledger is built from.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/errset"
	"github.com/ledgerbase/ledgerbase/parser"
	"github.com/ledgerbase/ledgerbase/telemetry"
)

type Loader struct {
	FollowIncludes bool
}

type Option func(*Loader)

func WithFollowIncludes() Option {
	return func(l *Loader) { l.FollowIncludes = true }
}

func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result carries everything a caller needs besides the merged tree:
// the set of files actually read (for file-watching) and any
// non-fatal errors collected while resolving includes (missing files
// never abort a load).
type Result struct {
	Visited []string
	Errors  []error
}

// Load reads filename and, if FollowIncludes is set, recursively
// resolves every include directive it or its includes declare. A
// returned error is fatal (an I/O failure); grammar errors, invalid
// UTF-8 included, and missing includes are returned inside
// Result.Errors instead.
func (l *Loader) Load(ctx context.Context, filename string) (*ast.AST, *Result, error) {
	collector := telemetry.FromContext(ctx)
	timer := collector.Start(fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	if !l.FollowIncludes {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filename, err)
		}
		tree, errs, _ := parser.ParseBytesWithFilenameCtx(ctx, filename, data)
		return tree, &Result{Visited: []string{filename}, Errors: errs}, nil
	}

	state := &loaderState{visited: map[string]bool{}}
	tree, err := state.loadRecursive(ctx, filename, timer)
	if err != nil {
		return nil, nil, err
	}

	visited := make([]string, 0, len(state.visited))
	for f := range state.visited {
		visited = append(visited, f)
	}
	sort.Strings(visited)

	return tree, &Result{Visited: visited, Errors: state.errors}, nil
}

type loaderState struct {
	mu      sync.Mutex
	visited map[string]bool
	errors  []error
}

// loadRecursive reads filename, parses it, and recursively resolves
// its includes concurrently via an errgroup. Cycles are skipped
// silently (spec.md §4.2): a file already in the visited set
// contributes nothing further, rather than erroring.
func (s *loaderState) loadRecursive(ctx context.Context, filename string, parent telemetry.Timer) (*ast.AST, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	s.mu.Lock()
	if s.visited[absPath] {
		s.mu.Unlock()
		return &ast.AST{}, nil
	}
	s.visited[absPath] = true
	// File I/O happens while holding the lock to avoid a TOCTOU race
	// where two goroutines both observe the file as unvisited and
	// both read it; parsing (the expensive part) happens outside the
	// lock below.
	data, readErr := os.ReadFile(absPath)
	s.mu.Unlock()

	if readErr != nil {
		return nil, fmt.Errorf("%s: %w", absPath, readErr)
	}

	var timer telemetry.Timer
	if parent != nil {
		timer = parent.Child(fmt.Sprintf("loader.parse %s", filepath.Base(absPath)))
		defer timer.End()
	}

	tree, errs, _ := parser.ParseBytesWithFilenameCtx(ctx, absPath, data)
	s.mu.Lock()
	s.errors = append(s.errors, errs...)
	s.mu.Unlock()

	if len(tree.Includes) == 0 {
		return tree, nil
	}

	baseDir := filepath.Dir(absPath)
	g, gctx := errgroup.WithContext(ctx)
	included := make([]*ast.AST, len(tree.Includes))

	for i, inc := range tree.Includes {
		i, inc := i, inc
		matches, globErr := filepath.Glob(filepath.Join(baseDir, inc.Pattern))
		if globErr != nil || len(matches) == 0 {
			s.mu.Lock()
			s.errors = append(s.errors, &errset.IncludeNotFound{
				Pos:     inc.Pos,
				Pattern: inc.Pattern,
			})
			s.mu.Unlock()
			continue
		}
		sort.Strings(matches)

		var childTimer telemetry.Timer
		if timer != nil {
			childTimer = timer.Child(fmt.Sprintf("loader.include %s", inc.Pattern))
		}

		g.Go(func() error {
			merged := &ast.AST{}
			for _, match := range matches {
				sub, err := s.loadRecursive(gctx, match, childTimer)
				if err != nil {
					s.mu.Lock()
					s.errors = append(s.errors, err)
					s.mu.Unlock()
					continue
				}
				merged = mergeASTs(merged, sub)
			}
			if childTimer != nil {
				childTimer.End()
			}
			included[i] = merged
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mergeASTs(tree, included...), nil
}

// mergeASTs combines main with its (already-merged) included trees.
// Included-file options are kept only if main doesn't declare the
// same option name, since the options resolver's last-value-wins rule
// needs main's own declarations to win; main's directives always sort
// back into position afterward via ast.SortDirectives.
func mergeASTs(main *ast.AST, included ...*ast.AST) *ast.AST {
	result := &ast.AST{
		Pushtags:  main.Pushtags,
		Poptags:   main.Poptags,
		Pushmetas: main.Pushmetas,
		Popmetas:  main.Popmetas,
	}

	declared := map[string]bool{}
	for _, opt := range main.Options {
		declared[opt.Name] = true
	}
	for _, inc := range included {
		for _, opt := range inc.Options {
			if !declared[opt.Name] {
				result.Options = append(result.Options, opt)
			}
		}
	}
	result.Options = append(result.Options, main.Options...)

	result.Directives = append(result.Directives, main.Directives...)
	for _, inc := range included {
		result.Directives = append(result.Directives, inc.Directives...)
		result.Plugins = append(result.Plugins, inc.Plugins...)
	}
	result.Plugins = append(result.Plugins, main.Plugins...)

	ast.SortDirectives(result.Directives)
	return result
}
