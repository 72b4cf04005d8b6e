// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/stbscript/bsc/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	switch viper.GetString("color") {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

// newRenderer builds a renderer that reads source lines off disk for
// the span-quoting portion of its output.
func newRenderer() *diagnostic.Renderer {
	return diagnostic.NewRenderer(os.Stderr, colorMode(), readSourceLines)
}

func readSourceLines(file string) []string {
	content, err := os.ReadFile(file) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return nil
	}
	return strings.Split(string(content), "\n")
}

// renderDiagnostics renders diags to stderr using the configured color mode.
func renderDiagnostics(diags []diagnostic.Diagnostic) {
	newRenderer().Render(diags)
}
