package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTaskID(t *testing.T) {
	prev := NewFunc
	NewFunc = func() string { return "fixed" }
	defer func() { NewFunc = prev }()
	assert.Equal(t, "gpu3-fixed", NewTaskID(3))
}

func TestNew(t *testing.T) {
	assert.NotEqual(t, New(), New())
}
