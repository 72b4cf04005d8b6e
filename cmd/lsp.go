// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/lspsurface"
	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/telemetry"
)

var lspWorkspaceRoot string

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders can pass WithParseFunc to wire in the
// dialect's real parser and WithBuiltins to adjust the recognized
// stdlib surface.
func LSPCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the bsc Language Server Protocol server",
		Long: `Start an LSP server exposing the scope validator's diagnostics
over the Language Server Protocol.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  bsc lsp                     Start with stdio transport
  bsc lsp --stdio             Same as above (explicit)
  bsc lsp --port 7998         Start with TCP on port 7998
  bsc lsp --workspace ./src   Scan a workspace root other than the cwd`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			root := lspWorkspaceRoot
			if root == "" {
				root = "."
			}

			ws := loader.NewWorkspace(root, sourceExtensions, cfg.resolveParseFunc())
			if err := ws.Scan(); err != nil {
				fmt.Fprintf(os.Stderr, "lsp: workspace scan failed: %v\n", err)
				os.Exit(1)
			}

			global := buildGlobalScope(ws, &cfg)
			logger := cfg.resolveLogger()

			srv := lspsurface.New(func(path string) (*scope.Scope, bool) {
				if _, ok := ws.GetFileByPkgPath(relPkgPath(root, path)); !ok {
					return nil, false
				}
				return global, true
			},
				lspsurface.WithObserver(func(scopeName string, diagCount int, elapsed time.Duration) {
					ctx, end := tracer.StartValidate(context.Background(), scopeName)
					end()
					telemetry.RecordValidate(ctx, scopeName, diagCount, float64(elapsed.Milliseconds()))
				}),
				lspsurface.WithContentUpdater(func(path string, content []byte) error {
					return ws.UpdateOverlay(relPkgPath(root, path), content)
				}),
				lspsurface.WithContentCloser(func(path string) error {
					ws.ClearOverlay(relPkgPath(root, path))
					return nil
				}),
			)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Log(scope.LevelInfo, "lsp server listening", scope.Label{Key: "addr", Value: addr})
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVar(&lspWorkspaceRoot, "workspace", "",
		"Workspace root to scan (defaults to the current directory)")

	return cmd
}

// buildGlobalScope wires every scanned file into one global scope, the
// same default single-scope wiring "bsc validate" uses.
func buildGlobalScope(ws *loader.Workspace, cfg *cmdConfig) *scope.Scope {
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
	return global
}

// relPkgPath converts an absolute editor path back to the workspace's
// pkgPath key space, which is relative to root and slash-separated.
func relPkgPath(root, path string) string {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
