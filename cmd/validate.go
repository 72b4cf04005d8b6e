// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/diagnostic"
	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/telemetry"
)

var (
	validateJSON     bool
	validateExcludes []string
)

// ValidateCommand creates the "validate" cobra command with optional
// embedder configuration (WithParseFunc, WithBuiltins).
func ValidateCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	cmd := &cobra.Command{
		Use:   "validate [flags] [paths...]",
		Short: "Run the scope validator over source files",
		Long: `Run the fixed validation pipeline over a project's source and component
files, reporting every diagnostic the validator's checks produce.

With no paths, scans the current directory. A path ending in "/..." is
expanded recursively to every source file under that directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Examples:
  bsc validate ./src/...                       Validate an entire tree
  bsc validate ./src/main.brs ./src/lib.bs     Validate specific files
  bsc validate --json ./src/...                Emit diagnostics as JSON
  bsc validate --exclude=vendor ./src/...      Skip a directory by name`,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}
			expanded, err := expandArgs(args, validateExcludes)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if len(expanded) == 0 {
				fmt.Fprintln(os.Stderr, "validate: no source files matched")
				os.Exit(2)
			}

			root := commonRoot(expanded)
			ws := loader.NewWorkspace(root, sourceExtensions, cfg.resolveParseFunc())
			if err := ws.Scan(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			// Scan walks the whole root; keep only the expanded files.
			keep := make(map[string]bool, len(expanded))
			for _, p := range expanded {
				keep[filepath.Clean(p)] = true
			}
			for _, f := range ws.Files() {
				if !keep[filepath.Join(root, filepath.FromSlash(f.PkgPath()))] {
					ws.RemoveFile(f.PkgPath())
				}
			}

			diags := validateWorkspace(ws, &cfg)
			if len(diags) == 0 {
				return nil
			}

			if validateJSON {
				if err := diagnostic.WriteJSON(os.Stdout, diags); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(2)
				}
			} else {
				renderDiagnostics(diags)
			}
			os.Exit(1)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateJSON, "json", false, "Output diagnostics as JSON.")
	cmd.Flags().StringArrayVar(&validateExcludes, "exclude", nil,
		"Pattern for files or directories to exclude (may be repeated).")

	return cmd
}

// validateWorkspace builds one global scope over every scanned file and
// runs its validate pass, wrapped in a trace span and recorded as an
// OpenCensus measurement. A richer embedder (with real component/scope
// boundaries) would build one scope per component instead; this default
// covers the common case of a single flat source tree.
func validateWorkspace(ws *loader.Workspace, cfg *cmdConfig) []diagnostic.Diagnostic {
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

	ctx, end := tracer.StartValidate(context.Background(), global.Name())
	start := time.Now()
	global.Validate(false)
	end()

	diags := global.Diagnostics()
	telemetry.RecordValidate(ctx, global.Name(), len(diags), float64(time.Since(start).Milliseconds()))
	return diags
}

// commonRoot returns the deepest directory shared by every path, used
// as the workspace scan root so relative pkgPaths stay short.
func commonRoot(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	root := dirOf(paths[0])
	for _, p := range paths[1:] {
		root = commonPrefixDir(root, dirOf(p))
	}
	if root == "" {
		return "."
	}
	return root
}

func dirOf(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return "."
}

func commonPrefixDir(a, b string) string {
	aParts := strings.Split(a, "/")
	bParts := strings.Split(b, "/")
	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}
	var out []string
	for i := 0; i < n; i++ {
		if aParts[i] != bParts[i] {
			break
		}
		out = append(out, aParts[i])
	}
	if len(out) == 0 {
		return "."
	}
	return strings.Join(out, "/")
}

func init() {
	rootCmd.AddCommand(ValidateCommand())
}
