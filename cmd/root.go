// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	bscconfig "github.com/stbscript/bsc/config"
	"github.com/stbscript/bsc/telemetry"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bsc",
	Short: "bsc — static analysis for embedded set-top-box scripts",
	Long: `bsc is a static analysis toolchain for the case-insensitive scripting
dialect used by set-top-box applications. It builds a scope graph over a
project's source and component files and runs a fixed validation pipeline
over each scope, reporting diagnostics.

Getting started:
  bsc validate ./src/...       Validate every source file under a tree
  bsc watch ./src              Re-validate on every file change
  bsc explore ./src            Interactively inspect scopes, callables, and diagnostics
  bsc lsp                      Start a Language Server Protocol server

This tool does not execute or interpret scripts; it only analyzes them.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called by main.main() exactly once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	bscconfig.RegisterPersistentFlags(rootCmd)
	cobra.OnInitialize(func() {
		if _, err := bscconfig.Load(); err != nil {
			log.Printf("config: %v", err)
		}
	})
	if err := telemetry.RegisterViews(); err != nil {
		log.Printf("telemetry: failed to register views: %v", err)
	}
}
