// Copyright © 2024 The ELPS authors

package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stbscript/bsc/loader"
	"github.com/stbscript/bsc/scopetypes"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func countingParser(t *testing.T) (loader.ParseFunc, *int) {
	calls := 0
	return func(pkgPath string, content []byte) (loader.ParsedFile, error) {
		calls++
		return loader.ParsedFile{
			Callables: []*scopetypes.Callable{{Name: "main", LowerName: "main"}},
		}, nil
	}, &calls
}

func TestScan_CollectsMatchingExtensionsOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/main.brs", "sub main()\nend sub\n")
	writeFile(t, root, "source/lib.bs", "sub helper()\nend sub\n")
	writeFile(t, root, "readme.md", "not a script")
	writeFile(t, root, ".git/config", "ignored")

	parse, calls := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs", ".bs"}, parse)
	require.NoError(t, w.Scan())

	assert.Equal(t, 2, *calls)
	assert.Len(t, w.Files(), 2)

	f, ok := w.GetFileByPkgPath("SOURCE/MAIN.BRS")
	require.True(t, ok)
	assert.Equal(t, "source/main.brs", f.PkgPath())
}

func TestScan_SkipsHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".hidden/skip.brs", "sub skip()\nend sub\n")
	writeFile(t, root, "node_modules/pkg/skip.brs", "sub skip()\nend sub\n")
	writeFile(t, root, "source/keep.brs", "sub keep()\nend sub\n")

	parse, _ := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())

	assert.Len(t, w.Files(), 1)
	_, ok := w.GetFileByPkgPath("source/keep.brs")
	assert.True(t, ok)
}

func TestScan_ReplacesPreviousFileSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.brs", "sub a()\nend sub\n")

	parse, _ := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())
	assert.Len(t, w.Files(), 1)

	require.NoError(t, os.Remove(filepath.Join(root, "source/a.brs")))
	writeFile(t, root, "source/b.brs", "sub b()\nend sub\n")
	require.NoError(t, w.Scan())

	assert.Len(t, w.Files(), 1)
	_, ok := w.GetFileByPkgPath("source/b.brs")
	assert.True(t, ok)
}

func TestUpdateOverlay_ShadowsDiskCopy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.brs", "sub a()\nend sub\n")

	parse, calls := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())
	assert.Equal(t, 1, *calls)

	require.NoError(t, w.UpdateOverlay("source/a.brs", []byte("sub a()\nprint 1\nend sub\n")))
	assert.Equal(t, 2, *calls)

	f, ok := w.GetFileByPkgPath("source/a.brs")
	require.True(t, ok)
	assert.Equal(t, "source/a.brs", f.PkgPath())

	// Disk content is untouched; only the overlay changed.
	disk, err := os.ReadFile(filepath.Join(root, "source/a.brs"))
	require.NoError(t, err)
	assert.Equal(t, "sub a()\nend sub\n", string(disk))
}

func TestClearOverlay_RevertsToDiskCopy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.brs", "sub a()\nend sub\n")

	parse, _ := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())
	require.NoError(t, w.UpdateOverlay("source/a.brs", []byte("sub a()\nprint 1\nend sub\n")))

	w.ClearOverlay("source/a.brs")

	f, ok := w.GetFileByPkgPath("source/a.brs")
	require.True(t, ok)
	assert.Equal(t, "source/a.brs", f.PkgPath())
}

func TestUpdateFile_AddsWithoutFullRescan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.brs", "sub a()\nend sub\n")

	parse, calls := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())
	assert.Equal(t, 1, *calls)

	writeFile(t, root, "source/b.brs", "sub b()\nend sub\n")
	require.NoError(t, w.UpdateFile("source/b.brs", []byte("sub b()\nend sub\n")))
	assert.Equal(t, 2, *calls)

	assert.Len(t, w.Files(), 2)
	_, ok := w.GetFileByPkgPath("source/b.brs")
	assert.True(t, ok)
}

func TestRemoveFile_DropsFromFileSet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "source/a.brs", "sub a()\nend sub\n")

	parse, _ := countingParser(t)
	w := loader.NewWorkspace(root, []string{".brs"}, parse)
	require.NoError(t, w.Scan())

	w.RemoveFile("source/a.brs")

	assert.Len(t, w.Files(), 0)
	_, ok := w.GetFileByPkgPath("source/a.brs")
	assert.False(t, ok)
}
