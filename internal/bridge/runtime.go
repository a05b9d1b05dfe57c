package bridge

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
	"github.com/jmylchreest/contrastcheck/internal/checker"
)

// Host is the document the runtime works on.
type Host interface {
	checker.Host
	SelectIDs(ids []string) error
}

// Reloader is implemented by hosts that can re-read their document.
type Reloader interface {
	Reload() error
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// WithDebug includes Go error detail in check-error messages.
func WithDebug(enabled bool) Option {
	return func(rt *Runtime) { rt.debug = enabled }
}

// Runtime dispatches inbound messages to a Checker. It handles one message
// at a time and must only be driven from a single goroutine.
type Runtime struct {
	checker *checker.Checker
	host    Host
	sender  Sender
	logger  hclog.Logger
	debug   bool
}

// New creates a Runtime. c must have been created with host as its host.
func New(c *checker.Checker, host Host, sender Sender, opts ...Option) *Runtime {
	rt := &Runtime{
		checker: c,
		host:    host,
		sender:  sender,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Run handles messages from in until it is closed or ctx is done. A message
// being handled always completes before ctx is checked again.
func (rt *Runtime) Run(ctx context.Context, in <-chan Inbound) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			if err := rt.Handle(msg); err != nil {
				return err
			}
		}
	}
}

// Handle processes one message. Failures of the request itself are reported
// to the panel; the returned error is only set when a reply could not be sent.
func (rt *Runtime) Handle(msg Inbound) (err error) {
	rt.logger.Debug("received message", "type", msg.Type)

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			rt.logger.Error("unexpected fault", "type", msg.Type, "panic", r, "stack", string(stack))
			err = rt.send(newCheckError(fmt.Sprintf("an error occurred: %v", r), string(stack)))
		}
	}()

	switch msg.Type {
	case TypeCheckContrast:
		return rt.checkContrast()
	case TypeHighlightFailed:
		return rt.highlight()
	case TypeClearHighlights:
		return rt.clear()
	case TypeSetSelection:
		return rt.setSelection(msg.IDs)
	case TypeReload:
		return rt.reload()
	default:
		rt.logger.Warn("ignoring unknown message", "type", msg.Type)
		return nil
	}
}

func (rt *Runtime) checkContrast() error {
	summary, err := rt.checker.CheckSelection()
	if err == nil {
		return rt.send(newCheckComplete(summary))
	}

	if checker.IsUserError(err) {
		return rt.send(newCheckError(err.Error(), ""))
	}

	rt.logger.Error("check failed", "error", err)
	var detail string
	if rt.debug {
		detail = fmt.Sprintf("%#v", err)
	}
	return rt.send(newCheckError("an error occurred: "+err.Error(), detail))
}

func (rt *Runtime) highlight() error {
	outcome, err := rt.checker.HighlightFailing()
	switch {
	case errors.Is(err, checker.ErrNoPriorCheck):
		return rt.send(notifyError("Run a contrast check first"))
	case err != nil:
		rt.logger.Error("highlight failed", "error", err)
		return rt.send(notifyError("Highlight failed"))
	case outcome.AllPassed:
		return rt.send(notify("All texts pass"))
	default:
		return rt.send(notify(fmt.Sprintf("Highlighted %d failing %s", outcome.Count, plural(outcome.Count, "text", "texts"))))
	}
}

func (rt *Runtime) clear() error {
	outcome, err := rt.checker.ClearHighlighting()
	switch {
	case err != nil:
		rt.logger.Error("clear failed", "error", err)
		return rt.send(notifyError("Clear failed"))
	case outcome.NoActiveHighlight:
		return rt.send(notify("No active highlight to clear"))
	default:
		return rt.send(notify("Cleared highlights"))
	}
}

func (rt *Runtime) setSelection(ids []string) error {
	if err := rt.host.SelectIDs(ids); err != nil {
		return rt.send(notifyError("Selection failed: " + err.Error()))
	}
	return rt.send(notify(fmt.Sprintf("Selected %d %s", len(ids), plural(len(ids), "element", "elements"))))
}

func (rt *Runtime) reload() error {
	r, ok := rt.host.(Reloader)
	if !ok {
		return rt.send(notifyError("Reload is not supported"))
	}
	if err := r.Reload(); err != nil {
		rt.logger.Error("reload failed", "error", err)
		return rt.send(notifyError("Reload failed: " + err.Error()))
	}
	return rt.send(notify("Document reloaded"))
}

func (rt *Runtime) send(msg Outbound) error {
	if err := rt.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.MessageType(), err)
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
