// Package bridge connects a panel to the checker through asynchronous
// messages: inbound requests are handled one at a time and answered with
// results, errors or transient notifications.
package bridge

import (
	"github.com/jmylchreest/contrastcheck/internal/checker"
)

// MessageType is the "type" field of every message.
type MessageType string

// Inbound message types.
const (
	TypeCheckContrast   MessageType = "check-contrast"
	TypeHighlightFailed MessageType = "highlight-failed-texts"
	TypeClearHighlights MessageType = "clear-highlights"
	TypeSetSelection    MessageType = "set-selection"
	TypeReload          MessageType = "reload"
)

// Outbound message types.
const (
	TypeCheckComplete MessageType = "check-complete"
	TypeCheckError    MessageType = "check-error"
	TypeNotify        MessageType = "notify"
)

// Inbound is a request from the panel. Fields other than Type are only read
// by the message types that use them; anything else in the payload is ignored.
type Inbound struct {
	Type MessageType `json:"type"`
	// IDs lists node ids for set-selection.
	IDs []string `json:"ids,omitempty"`
}

// Outbound is a message sent to the panel.
type Outbound interface {
	MessageType() MessageType
}

// CheckComplete carries the results of a successful check.
type CheckComplete struct {
	Type MessageType        `json:"type"`
	Data checker.SummaryDTO `json:"data"`
}

// MessageType implements Outbound.
func (CheckComplete) MessageType() MessageType { return TypeCheckComplete }

// CheckError reports a check that produced no results.
type CheckError struct {
	Type  MessageType `json:"type"`
	Error string      `json:"error"`
	Debug string      `json:"debug,omitempty"`
}

// MessageType implements Outbound.
func (CheckError) MessageType() MessageType { return TypeCheckError }

// Notify is a transient, non-blocking notification.
type Notify struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
	Error   bool        `json:"error"`
}

// MessageType implements Outbound.
func (Notify) MessageType() MessageType { return TypeNotify }

func newCheckComplete(s *checker.Summary) CheckComplete {
	return CheckComplete{Type: TypeCheckComplete, Data: s.DTO()}
}

func newCheckError(msg, debug string) CheckError {
	return CheckError{Type: TypeCheckError, Error: msg, Debug: debug}
}

func notify(msg string) Notify {
	return Notify{Type: TypeNotify, Message: msg}
}

func notifyError(msg string) Notify {
	return Notify{Type: TypeNotify, Message: msg, Error: true}
}
