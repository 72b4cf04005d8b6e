// Copyright © 2024 The ELPS authors

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonRoot_SharedPrefix(t *testing.T) {
	root := commonRoot([]string{"src/a/main.brs", "src/a/lib.bs", "src/b/util.bs"})
	assert.Equal(t, "src", root)
}

func TestCommonRoot_SingleFile(t *testing.T) {
	root := commonRoot([]string{"src/main.brs"})
	assert.Equal(t, "src", root)
}

func TestCommonRoot_NoSharedPrefix(t *testing.T) {
	root := commonRoot([]string{"a/main.brs", "b/lib.bs"})
	assert.Equal(t, ".", root)
}

func TestCommonRoot_Empty(t *testing.T) {
	assert.Equal(t, ".", commonRoot(nil))
}
