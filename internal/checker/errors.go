package checker

import (
	"errors"
	"fmt"
)

// Errors returned by the check operations. The messages are shown to users as is.
var (
	ErrEmptySelection  = errors.New("select a frame or element to check")
	ErrNoTextFound     = errors.New("no text found in the selected elements")
	ErrNoScorableText  = errors.New("no checkable text found in the selected elements")
	ErrNoPriorCheck    = errors.New("run a contrast check first")
	ErrHighlightFailed = errors.New("failed to highlight failing texts")
	ErrClearFailed     = errors.New("failed to clear highlights")
)

// ResolutionFault records a failure to resolve the colours or font metrics of
// a single text node. The run continues; the node is reported with an error.
type ResolutionFault struct {
	NodeID string
	Err    error
	// Stack is set when the fault was a recovered panic.
	Stack []byte
}

func (f *ResolutionFault) Error() string {
	return fmt.Sprintf("node %s: %v", f.NodeID, f.Err)
}

func (f *ResolutionFault) Unwrap() error {
	return f.Err
}
