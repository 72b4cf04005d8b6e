// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stbscript/bsc/depgraph"
	"github.com/stbscript/bsc/explore"
	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/scope"
)

// ExploreCommand creates the "explore" cobra command with optional
// embedder configuration.
func ExploreCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	cmd := &cobra.Command{
		Use:   "explore [path]",
		Short: "Interactively inspect a scope's callables and diagnostics",
		Long: `Scan a directory into a single scope and open an interactive session
for inspecting it: run the validator, list diagnostics, look up a
callable by name, list completions for a prefix, or dump the namespace
tree.

Type :help inside the session for the full command list.

Examples:
  bsc explore ./src       Explore an entire tree`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			ws := loader.NewWorkspace(root, sourceExtensions, cfg.resolveParseFunc())
			if err := ws.Scan(); err != nil {
				return fmt.Errorf("explore: %w", err)
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

			sess := explore.New(global, colorMode())
			if err := sess.Run(fmt.Sprintf("%s> ", root)); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(ExploreCommand())
}
