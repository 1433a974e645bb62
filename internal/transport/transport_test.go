package transport

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-dap"
)

// frame wraps body in the Content-Length header DAP requires.
func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func waitForInbound(t *testing.T, tr *Transport) dap.Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msg, ok := tr.TryRead(); ok {
			return msg
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for inbound message")
	return nil
}

func TestTransportDecodesInitializeRequest(t *testing.T) {
	body := `{"seq":1,"type":"request","command":"initialize","arguments":{"clientID":"test","adapterID":"retread"}}`
	in := strings.NewReader(frame(body))
	var out bytes.Buffer

	tr := New(in, &out)
	tr.Start()

	msg := waitForInbound(t, tr)
	req, ok := msg.(*dap.InitializeRequest)
	if !ok {
		t.Fatalf("expected *dap.InitializeRequest, got %T", msg)
	}
	if req.Arguments.AdapterID != "retread" {
		t.Errorf("AdapterID = %q", req.Arguments.AdapterID)
	}
}

func TestTransportTryReadEmptyWhenNoData(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer
	tr := New(in, &out)
	tr.Start()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		if _, ok := tr.TryRead(); ok {
			t.Fatal("expected no inbound message from an empty stream")
		}
	}
}

func TestTransportWriteProducesValidFrame(t *testing.T) {
	var out bytes.Buffer
	tr := New(strings.NewReader(""), &out)

	evt := &dap.InitializedEvent{
		Event: dap.Event{
			ProtocolMessage: dap.ProtocolMessage{Seq: tr.NextSeq(), Type: "event"},
			Event:           "initialized",
		},
	}
	if err := tr.Write(evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	data, err := dap.ReadBaseMessage(reader)
	if err != nil {
		t.Fatalf("failed reading back written frame: %v", err)
	}
	msg, err := dap.DecodeProtocolMessage(data)
	if err != nil {
		t.Fatalf("failed decoding written frame: %v", err)
	}
	if _, ok := msg.(*dap.InitializedEvent); !ok {
		t.Fatalf("expected *dap.InitializedEvent, got %T", msg)
	}
}

func TestTransportOutputFormatsSeverity(t *testing.T) {
	var out bytes.Buffer
	tr := New(strings.NewReader(""), &out)

	tr.Output("WARN", "disk nearly full")

	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	data, err := dap.ReadBaseMessage(reader)
	if err != nil {
		t.Fatalf("failed reading back output event: %v", err)
	}
	msg, err := dap.DecodeProtocolMessage(data)
	if err != nil {
		t.Fatalf("failed decoding output event: %v", err)
	}
	evt, ok := msg.(*dap.OutputEvent)
	if !ok {
		t.Fatalf("expected *dap.OutputEvent, got %T", msg)
	}
	if evt.Body.Output != "[WARN] disk nearly full\n" {
		t.Errorf("Output = %q", evt.Body.Output)
	}
	if evt.Body.Category != "console" {
		t.Errorf("Category = %q", evt.Body.Category)
	}
}

func TestTransportReadErrorEndsInboundPermanently(t *testing.T) {
	// A Content-Length header with no body (stream cut mid-frame)
	// forces ReadBaseMessage to fail, which must end the reader
	// goroutine for good.
	in := strings.NewReader("Content-Length: 100\r\n\r\n{\"incomplete")
	var out bytes.Buffer
	tr := New(in, &out)
	tr.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := tr.TryRead(); ok {
			t.Fatal("did not expect a successfully decoded message")
		}
	}
}
