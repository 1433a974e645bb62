// Package transport owns the Content-Length framed DAP wire: a
// background reader goroutine decoding stdin into an inbound queue, a
// mutex-serialized writer, and a NextSeq counter for adapter-originated
// messages. Wire framing and message structs come from
// github.com/google/go-dap (spec.md §6's "library providing
// request/response/event structs"); everything else is grounded on
// original_source/src/dap_server.rs's DapServer (background thread +
// crossbeam channel + mutex-guarded Server), translated into the
// bounded-channel idiom dtail itself reaches for instead of an
// actually-unbounded queue (internal/constants.InboundQueueCapacity).
package transport

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/go-dap"

	"github.com/mimecast/retread/internal/constants"
	"github.com/mimecast/retread/internal/dlog"
	"github.com/mimecast/retread/internal/retreaderrors"
)

// Transport is the session-lifetime DAP endpoint: decode requests off
// r in the background, write responses/events to w under a single
// mutex so the replay loop and the diagnostic logger never interleave
// mid-frame.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer

	writeMu sync.Mutex
	seq     int64

	inbound chan dap.Message
	alive   int32

	errMu sync.Mutex
	err   error
}

// New wraps r/w without starting the background reader; call Start
// once the caller is ready to receive messages.
func New(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader:  bufio.NewReader(r),
		writer:  w,
		inbound: make(chan dap.Message, constants.InboundQueueCapacity),
		alive:   1,
	}
}

// Start launches the background reader goroutine. Call at most once.
func (t *Transport) Start() {
	go t.readLoop()
}

func (t *Transport) readLoop() {
	defer close(t.inbound)
	defer atomic.StoreInt32(&t.alive, 0)
	for {
		data, err := dap.ReadBaseMessage(t.reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				dlog.Error("transport read failed, background reader exiting:", err)
				t.setErr(retreaderrors.Wrapf(retreaderrors.ErrTransport, "reading DAP frame: %s", err.Error()))
			}
			return
		}

		msg, err := dap.DecodeProtocolMessage(data)
		if err != nil {
			dlog.Warn("dropping unparsable DAP message:", err)
			continue
		}
		t.inbound <- msg
	}
}

// TryRead is the foreground worker's non-blocking poll of the inbound
// queue (spec.md §4.3's try_read). It never blocks. Messages queued
// before the reader exited (read error, EOF, or malformed framing
// that can't be recovered from) are still delivered; once they are
// drained, TryRead returns (nil, false) forever.
func (t *Transport) TryRead() (dap.Message, bool) {
	select {
	case msg, ok := <-t.inbound:
		if !ok {
			return nil, false
		}
		return msg, true
	default:
		return nil, false
	}
}

// Write frames and sends message, serialized against every other
// writer (the replay loop's responses/events and the diagnostic
// logger's Output events share this one path).
func (t *Transport) Write(message dap.Message) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return dap.WriteProtocolMessage(t.writer, message)
}

// Alive reports whether the background reader goroutine might still
// deliver another message. Once the reader has exited (EOF or read
// error) this permanently returns
// false, letting the session loop know there is nothing left to wait
// for.
func (t *Transport) Alive() bool {
	return atomic.LoadInt32(&t.alive) != 0
}

func (t *Transport) setErr(err error) {
	t.errMu.Lock()
	t.err = err
	t.errMu.Unlock()
}

// Err returns the failure that ended the background reader, or nil if
// the reader is still running or exited cleanly (EOF, the normal
// Disconnect-then-close-stdin shutdown). A non-nil Err after Alive
// turns false distinguishes an unrecoverable transport failure from a
// clean shutdown (spec.md §6).
func (t *Transport) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

// NextSeq returns the next adapter-originated sequence number. DAP
// requires a single monotonically increasing seq across every
// response and event the adapter sends, regardless of which one
// triggered it.
func (t *Transport) NextSeq() int {
	return int(atomic.AddInt64(&t.seq, 1))
}
