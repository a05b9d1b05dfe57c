package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// maxLineBytes bounds a single inbound message.
const maxLineBytes = 1024 * 1024

// Sender delivers outbound messages. Delivery is fire-and-forget.
type Sender interface {
	Send(msg Outbound) error
}

// ChanSender sends messages on a channel, for in-process panels and tests.
type ChanSender chan<- Outbound

// Send implements Sender. It blocks until the message is received.
func (c ChanSender) Send(msg Outbound) error {
	c <- msg
	return nil
}

// Encoder writes outbound messages as newline-delimited JSON.
type Encoder struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: json.NewEncoder(w)}
}

// Send implements Sender.
func (e *Encoder) Send(msg Outbound) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(msg); err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msg.MessageType(), err)
	}
	return nil
}

// Decoder reads inbound messages from newline-delimited JSON.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Decoder{scanner: s}
}

// ErrMalformed wraps a line that is not a valid message. Decoding can continue.
var ErrMalformed = errors.New("malformed message")

// Decode returns the next message. Blank lines are skipped. It returns io.EOF
// at the end of input and an error wrapping ErrMalformed for a bad line.
func (d *Decoder) Decode() (Inbound, error) {
	for d.scanner.Scan() {
		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var msg Inbound
		if err := json.Unmarshal(line, &msg); err != nil {
			return Inbound{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if msg.Type == "" {
			return Inbound{}, fmt.Errorf("%w: missing type", ErrMalformed)
		}
		return msg, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Inbound{}, fmt.Errorf("failed to read message: %w", err)
	}
	return Inbound{}, io.EOF
}

// Pump forwards decoded messages to out until input ends or ctx is done,
// then closes out. Malformed lines are logged and skipped.
func Pump(ctx context.Context, dec *Decoder, out chan<- Inbound, logger hclog.Logger) error {
	defer close(out)
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	for {
		msg, err := dec.Decode()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, ErrMalformed):
			logger.Warn("skipping message", "error", err)
			continue
		case err != nil:
			return err
		}

		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
