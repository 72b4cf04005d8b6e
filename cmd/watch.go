// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/telemetry"
)

var (
	watchExcludes []string
	watchDebounce time.Duration
)

// WatchCommand creates the "watch" cobra command with optional
// embedder configuration.
func WatchCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	cmd := &cobra.Command{
		Use:   "watch [flags] [path]",
		Short: "Re-validate on every file change",
		Long: `Scan a directory once, then re-run the validation pipeline every time
a source file under it changes, reporting diagnostics on each run.

Watch never exits on its own; stop it with Ctrl-C.

Examples:
  bsc watch ./src                        Watch and re-validate a tree
  bsc watch --exclude=vendor ./src       Skip a directory by name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(root, watchExcludes, watchDebounce, cfg)
		},
	}

	cmd.Flags().StringArrayVar(&watchExcludes, "exclude", nil,
		"Pattern for files or directories to exclude (may be repeated).")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond,
		"Minimum time to wait after a change before re-validating.")

	return cmd
}

// runWatch is the CLI embodiment of the invalidation protocol: one
// dependency graph, scope catalog, and global scope live for the whole
// invocation, and every fsnotify event is translated into the same
// AddEdge/RemoveEdge/Invalidate calls a real incremental build would
// make, rather than rebuilding the workspace and scope from scratch on
// every tick.
func runWatch(root string, excludes []string, debounce time.Duration, cfg cmdConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := addWatchRecursive(watcher, absRoot); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	ws := loader.NewWorkspace(absRoot, sourceExtensions, cfg.resolveParseFunc())
	if err := ws.Scan(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	graph := depgraph.New()
	catalog := scope.NewScopeCatalog()
	const key = "scope:" + scope.GlobalScopeName
	for _, f := range ws.Files() {
		graph.AddEdge(key, f.PkgPath())
	}

	global := scope.New(scope.Config{
		Name:               scope.GlobalScopeName,
		DependencyGraphKey: key,
		Catalog:            catalog,
		Graph:              graph,
		Files:              ws,
		Builtins:           cfg.resolveBuiltins(),
		ClassValidator:     cfg.resolveClassValidator(),
		Logger:             cfg.resolveLogger(),
	})
	catalog.Add(global)

	revalidate := func() {
		ctx, end := tracer.StartValidate(context.Background(), global.Name())
		start := time.Now()
		global.Validate(false)
		end()

		diags := global.Diagnostics()
		telemetry.RecordValidate(ctx, global.Name(), len(diags), float64(time.Since(start).Milliseconds()))

		fmt.Printf("--- validated %s (%d diagnostics) ---\n", root, len(diags))
		if len(diags) > 0 {
			renderDiagnostics(diags)
		}
	}
	revalidate()

	// applyEvent feeds one fsnotify event into the persistent graph and
	// workspace. A content-only write leaves the graph edge unchanged, so
	// it wouldn't invalidate the scope through the graph's own change
	// notification; Invalidate is called explicitly to cover that case.
	applyEvent := func(path string, op fsnotify.Op) {
		pkgPath := relPkgPath(absRoot, path)
		if op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			ws.RemoveFile(pkgPath)
			graph.RemoveEdge(key, pkgPath)
			global.Invalidate()
			return
		}
		content, readErr := os.ReadFile(path) //nolint:gosec // watch root is caller-controlled
		if readErr != nil {
			ws.RemoveFile(pkgPath)
			graph.RemoveEdge(key, pkgPath)
			global.Invalidate()
			return
		}
		if err := ws.UpdateFile(pkgPath, content); err != nil {
			fmt.Fprintf(os.Stderr, "watch: %s: %v\n", pkgPath, err)
			return
		}
		graph.AddEdge(key, pkgPath)
		global.Invalidate()
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := make(map[string]fsnotify.Op)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if watchShouldIgnore(path, excludes) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					_ = addWatchRecursive(watcher, path)
					continue
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !hasSourceExtension(path) {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(debounce)
			}
			pending[path] |= event.Op
		case <-timer.C:
			if len(pending) > 0 {
				for path, op := range pending {
					applyEvent(path, op)
				}
				pending = make(map[string]fsnotify.Op)
				revalidate()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", watchErr)
		}
	}
}

func hasSourceExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range sourceExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if shouldSkipWatchDir(root, path, info.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func shouldSkipWatchDir(root, path, name string) bool {
	if path == root {
		return false
	}
	if name == ".git" || name == "node_modules" || name == "vendor" {
		return true
	}
	return strings.HasPrefix(name, ".")
}

func watchShouldIgnore(path string, excludes []string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swx") || strings.HasPrefix(base, ".#") {
		return true
	}
	return matchesAny(path, excludes)
}

func init() {
	rootCmd.AddCommand(WatchCommand())
}
