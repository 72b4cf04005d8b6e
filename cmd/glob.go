// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions lists the file extensions expandArgs treats as
// source files when expanding a "/..." pattern.
var sourceExtensions = []string{".brs", ".bs", ".xml"}

// expandArgs expands arguments, resolving patterns ending with "/..." to
// every matching-extension file found recursively under the given
// directory, then drops anything matching excludes. Non-pattern
// arguments pass through excludes filtering unchanged.
func expandArgs(args []string, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if dir, ok := strings.CutSuffix(arg, "/..."); ok {
			if dir == "" {
				dir = "."
			}
			files, err := findSourceFiles(dir)
			if err != nil {
				return nil, fmt.Errorf("expanding %s: %w", arg, err)
			}
			out = append(out, files...)
		} else {
			out = append(out, arg)
		}
	}
	return filterExcludes(out, excludes), nil
}

func findSourceFiles(root string) ([]string, error) {
	extSet := make(map[string]bool, len(sourceExtensions))
	for _, ext := range sourceExtensions {
		extSet[ext] = true
	}
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if extSet[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops any path matching one of the exclude patterns,
// preserving order.
func filterExcludes(paths []string, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path matches any pattern, checked against
// the full path, the base name, a filepath.Match glob, or any single
// path component (so "--exclude=build" excludes an entire directory).
func matchesAny(path string, patterns []string) bool {
	base := filepath.Base(path)
	components := splitPath(path)
	for _, pat := range patterns {
		if pat == path || pat == base {
			return true
		}
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		for _, c := range components {
			if c == pat {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
