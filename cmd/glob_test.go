package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.brs",
		"src/shirocore.brs",
		"lib/utils.brs",
	}
	result := filterExcludes(paths, []string{"shirocore.brs"})
	assert.Equal(t, []string{"src/main.brs", "lib/utils.brs"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.brs",
		"build/output.brs",
		"build/sub/deep.brs",
		"lib/utils.brs",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.brs", "lib/utils.brs"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.brs",
		"src/generated_foo.brs",
		"src/generated_bar.brs",
		"lib/utils.brs",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.brs", "lib/utils.brs"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.brs",
		"build/output.brs",
		"src/shirocore.brs",
		"lib/utils.brs",
	}
	result := filterExcludes(paths, []string{"build", "shirocore.brs"})
	assert.Equal(t, []string{"src/main.brs", "lib/utils.brs"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.brs",
		"lib/utils.brs",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.brs", "lib/utils.brs"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.brs"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.brs"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.brs", []string{"src/*.brs"}))
	assert.False(t, matchesAny("lib/main.brs", []string{"src/*.brs"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/shirocore.brs", []string{"shirocore.brs"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.brs", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.brs", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.brs")
	assert.Contains(t, components, "c.brs")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}
