package supervisor

import (
	"errors"
	"fmt"

	"github.com/viant/gpuslot/model/slot"
)

// Kind represents synchronous submission error kind
type Kind string

const (
	KindUnknownSlot    Kind = "UnknownSlot"
	KindSlotBusy       Kind = "SlotBusy"
	KindInvalidRequest Kind = "InvalidRequest"
	KindLaunchFailed   Kind = "LaunchFailed"
)

var (
	ErrUnknownSlot    = errors.New("unknown slot")
	ErrSlotBusy       = errors.New("slot busy")
	ErrInvalidRequest = errors.New("invalid request")
	ErrLaunchFailed   = errors.New("launch failed")
)

// SubmitError represents rejected submission
type SubmitError struct {
	Kind   Kind
	SlotID int
	Status slot.Status
	Err    error
}

func (e *SubmitError) Error() string {
	switch e.Kind {
	case KindUnknownSlot:
		return fmt.Sprintf("invalid GPU ID: %d", e.SlotID)
	case KindSlotBusy:
		return fmt.Sprintf("GPU %d is busy, status: %s", e.SlotID, e.Status)
	case KindInvalidRequest:
		return fmt.Sprintf("invalid request for GPU %d: %v", e.SlotID, e.Err)
	default:
		return fmt.Sprintf("failed to start worker on GPU %d: %v", e.SlotID, e.Err)
	}
}

// Unwrap returns kind sentinel and the underlying cause
func (e *SubmitError) Unwrap() []error {
	var sentinel error
	switch e.Kind {
	case KindUnknownSlot:
		sentinel = ErrUnknownSlot
	case KindSlotBusy:
		sentinel = ErrSlotBusy
	case KindInvalidRequest:
		sentinel = ErrInvalidRequest
	default:
		sentinel = ErrLaunchFailed
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

func unknownSlotError(slotID int) error {
	return &SubmitError{Kind: KindUnknownSlot, SlotID: slotID}
}

func slotBusyError(slotID int, status slot.Status) error {
	return &SubmitError{Kind: KindSlotBusy, SlotID: slotID, Status: status}
}

func invalidRequestError(slotID int, err error) error {
	return &SubmitError{Kind: KindInvalidRequest, SlotID: slotID, Err: err}
}

func launchFailedError(slotID int, err error) error {
	return &SubmitError{Kind: KindLaunchFailed, SlotID: slotID, Err: err}
}
