// Copyright © 2024 The ELPS authors

// Package loader supplies a disk-backed scope.FileProvider. It walks a
// project tree once, skipping hidden directories and node_modules, and
// hands each matching file to an injected ParseFunc, since lexing and
// parsing the source language itself is a separate collaborator's job;
// this core only ever consumes an already-parsed scopetypes.BscFile.
package loader

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/stbscript/bsc/scope"
	"github.com/stbscript/bsc/scopetypes"
)

// ParseFunc turns raw file bytes into the reference data a BscFile
// exposes. The loader never inspects source syntax itself; callers
// supply whatever front end understands the scripting dialect.
type ParseFunc func(pkgPath string, content []byte) (ParsedFile, error)

// ParsedFile is the parse result loader.DiskFile wraps into a
// scopetypes.BscFile.
type ParsedFile struct {
	HasTypedef  bool
	Callables   []*scopetypes.Callable
	Calls       []*scopetypes.FunctionCall
	FnScopes    []*scopetypes.FunctionScope
	Completions []scopetypes.CompletionItem
	Refs        *scopetypes.ParserReferences
	OwnImports  []scopetypes.ScriptImport
	TagImports  []scopetypes.ScriptImport
}

// DiskFile is a scopetypes.BscFile backed by a real file on disk plus
// its ParsedFile contents.
type DiskFile struct {
	pkgPath string
	absPath string
	parsed  ParsedFile
}

func (f *DiskFile) PkgPath() string      { return f.pkgPath }
func (f *DiskFile) LowerPkgPath() string { return strings.ToLower(f.pkgPath) }
func (f *DiskFile) PathAbsolute() string { return f.absPath }
func (f *DiskFile) Extension() string    { return filepath.Ext(f.pkgPath) }
func (f *DiskFile) HasTypedef() bool     { return f.parsed.HasTypedef }

func (f *DiskFile) Callables() []*scopetypes.Callable           { return f.parsed.Callables }
func (f *DiskFile) FunctionCalls() []*scopetypes.FunctionCall   { return f.parsed.Calls }
func (f *DiskFile) FunctionScopes() []*scopetypes.FunctionScope { return f.parsed.FnScopes }
func (f *DiskFile) PropertyNameCompletions() []scopetypes.CompletionItem {
	return f.parsed.Completions
}
func (f *DiskFile) References() *scopetypes.ParserReferences {
	if f.parsed.Refs == nil {
		return &scopetypes.ParserReferences{}
	}
	return f.parsed.Refs
}
func (f *DiskFile) OwnScriptImports() []scopetypes.ScriptImport { return f.parsed.OwnImports }
func (f *DiskFile) ScriptTagImports() []scopetypes.ScriptImport { return f.parsed.TagImports }

// Workspace is a disk-backed scope.FileProvider over one project root.
// Files are keyed by lowercase pkgPath, matching the case-insensitive
// lookup rules the rest of the core relies on.
//
// overlays holds unsaved editor buffers keyed the same way. GetFileByPkgPath
// consults it ahead of the disk-scanned files map, so an LSP client's live
// edits are what the validator sees without touching anything on disk.
type Workspace struct {
	mu         sync.RWMutex
	root       string
	extensions map[string]bool
	parse      ParseFunc
	files      map[string]*DiskFile
	overlays   map[string]*DiskFile
	components map[string]scope.ComponentRef
}

// NewWorkspace returns an empty Workspace rooted at root. extensions
// lists the file extensions (with leading dot, e.g. ".brs") the scan
// should collect; every other file is skipped.
func NewWorkspace(root string, extensions []string, parse ParseFunc) *Workspace {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	return &Workspace{
		root:       root,
		extensions: extSet,
		parse:      parse,
		files:      make(map[string]*DiskFile),
		overlays:   make(map[string]*DiskFile),
		components: make(map[string]scope.ComponentRef),
	}
}

// Scan walks the workspace root once, (re)populating every matching
// file. It is safe to call again after files on disk change; it fully
// replaces the previous file set.
func (w *Workspace) Scan() error {
	files := make(map[string]*DiskFile)

	err := filepath.Walk(w.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries, matching the fault-tolerant scan this is grounded on
		}
		if info.IsDir() {
			if shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(w.root, path)
		if err != nil {
			rel = path
		}
		pkgPath := filepath.ToSlash(rel)

		content, err := os.ReadFile(path) //nolint:gosec // workspace root is caller-controlled
		if err != nil {
			return nil
		}
		parsed, err := w.parse(pkgPath, content)
		if err != nil {
			return nil
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			absPath = path
		}
		files[strings.ToLower(pkgPath)] = &DiskFile{pkgPath: pkgPath, absPath: absPath, parsed: parsed}
		return nil
	})
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.files = files
	w.mu.Unlock()
	return nil
}

func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return name == "node_modules"
}

// UpdateFile re-parses content and stores it under pkgPath in the
// disk-scanned file set, without walking the whole tree again. Callers
// (e.g. bsc watch) use this to apply a single fsnotify write/create
// event incrementally instead of re-running Scan on every change.
func (w *Workspace) UpdateFile(pkgPath string, content []byte) error {
	parsed, err := w.parse(pkgPath, content)
	if err != nil {
		return err
	}

	key := strings.ToLower(pkgPath)
	absPath := filepath.Join(w.root, filepath.FromSlash(pkgPath))
	if abs, err := filepath.Abs(absPath); err == nil {
		absPath = abs
	}

	w.mu.Lock()
	w.files[key] = &DiskFile{pkgPath: pkgPath, absPath: absPath, parsed: parsed}
	w.mu.Unlock()
	return nil
}

// RemoveFile drops pkgPath from the disk-scanned file set, for a
// fsnotify remove/rename event.
func (w *Workspace) RemoveFile(pkgPath string) {
	key := strings.ToLower(pkgPath)
	w.mu.Lock()
	delete(w.files, key)
	w.mu.Unlock()
}

// GetFileByPkgPath implements scope.FileProvider. An overlay set by
// UpdateOverlay takes precedence over the disk-scanned copy of the same
// file, so unsaved editor content is what the validator sees.
func (w *Workspace) GetFileByPkgPath(pkgPath string) (scopetypes.BscFile, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	key := strings.ToLower(pkgPath)
	if f, ok := w.overlays[key]; ok {
		return f, true
	}
	f, ok := w.files[key]
	if !ok {
		return nil, false
	}
	return f, true
}

// UpdateOverlay re-parses content under pkgPath and stores it as an
// overlay, shadowing whatever Scan last read from disk for that file.
// It is how an LSP session feeds a client's in-progress edits into the
// same FileProvider the validator reads from.
func (w *Workspace) UpdateOverlay(pkgPath string, content []byte) error {
	parsed, err := w.parse(pkgPath, content)
	if err != nil {
		return err
	}

	key := strings.ToLower(pkgPath)
	absPath := filepath.Join(w.root, filepath.FromSlash(pkgPath))
	if abs, err := filepath.Abs(absPath); err == nil {
		absPath = abs
	}

	w.mu.Lock()
	if existing, ok := w.files[key]; ok {
		absPath = existing.absPath
	}
	w.overlays[key] = &DiskFile{pkgPath: pkgPath, absPath: absPath, parsed: parsed}
	w.mu.Unlock()
	return nil
}

// ClearOverlay drops pkgPath's overlay, reverting GetFileByPkgPath to
// whatever the last Scan read from disk. Callers use this on
// textDocument/didClose, once an editor buffer is no longer authoritative.
func (w *Workspace) ClearOverlay(pkgPath string) {
	key := strings.ToLower(pkgPath)
	w.mu.Lock()
	delete(w.overlays, key)
	w.mu.Unlock()
}

// RegisterComponent associates a component name (as referenced by a
// "component:" dependency-graph edge) with the file that declares it.
func (w *Workspace) RegisterComponent(name string, ref scope.ComponentRef) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.components[strings.ToLower(name)] = ref
}

// GetComponent implements scope.FileProvider.
func (w *Workspace) GetComponent(name string) (scope.ComponentRef, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.components[strings.ToLower(name)]
	return c, ok
}

// Files returns every currently scanned file, for callers (e.g. the CLI's
// validate subcommand) that need to enumerate the whole tree.
func (w *Workspace) Files() []*DiskFile {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*DiskFile, 0, len(w.files))
	for _, f := range w.files {
		out = append(out, f)
	}
	return out
}
