package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// NewTaskID returns identifier of a task submitted to the slot.
func NewTaskID(slotID int) string {
	return "gpu" + strconv.Itoa(slotID) + "-" + New()
}
