package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spirilis/pizzaz-mcp/logging"
)

// maxMessageSize bounds a single newline-delimited message
const maxMessageSize = 4 * 1024 * 1024

// StdioTransport implements Transport using newline-delimited JSON over stdin/stdout
type StdioTransport struct {
	scanner *bufio.Scanner
	out     io.Writer
	outMu   sync.Mutex
	handler MessageHandler
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewStdioTransport creates a new stdio transport
func NewStdioTransport() *StdioTransport {
	return NewStreamTransport(os.Stdin, os.Stdout)
}

// NewStreamTransport creates a transport over arbitrary streams
func NewStreamTransport(in io.Reader, out io.Writer) *StdioTransport {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
	ctx, cancel := context.WithCancel(context.Background())
	return &StdioTransport{
		scanner: scanner,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start begins reading messages and processing them
func (t *StdioTransport) Start(handler MessageHandler) error {
	t.handler = handler

	go func() {
		defer close(t.done)
		t.readLoop()
	}()

	return nil
}

// Done is closed once the input stream is exhausted or the transport stops
func (t *StdioTransport) Done() <-chan struct{} {
	return t.done
}

// Stop cancels in-flight handling. A read blocked on stdin is abandoned,
// not waited for.
func (t *StdioTransport) Stop() error {
	t.cancel()
	return nil
}

// readLoop continuously reads lines until EOF or Stop
func (t *StdioTransport) readLoop() {
	for t.scanner.Scan() {
		if t.ctx.Err() != nil {
			return
		}

		line := t.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := t.handler.HandleMessage(t.ctx, line)
		if response != nil {
			t.write(response)
		}
	}

	if err := t.scanner.Err(); err != nil {
		logging.Error("Stdio read error", "error", err)
	}
}

func (t *StdioTransport) write(response []byte) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	if _, err := fmt.Fprintf(t.out, "%s\n", response); err != nil {
		logging.Error("Stdio write error", "error", err)
	}
}
