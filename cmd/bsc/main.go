// Copyright © 2024 The ELPS authors

// Command bsc is the static analysis CLI: validate, watch, explore, and
// lsp subcommands over the scope validation core.
package main

import "github.com/stbscript/bsc/cmd"

func main() {
	cmd.Execute()
}
