package wire

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Channel carries one Message per line over a byte-oriented duplex stream.
// It is synchronous and not safe for concurrent use; the exchange performs
// one send and one receive, in that order.
type Channel struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewChannel wraps an input and an output stream. For process standard
// streams pass os.Stdin and os.Stdout.
func NewChannel(r io.Reader, w io.Writer) *Channel {
	return &Channel{
		reader: bufio.NewReader(r),
		writer: w,
	}
}

// Send serializes msg to one newline-terminated line and flushes it so the
// peer sees it before Send returns.
func (c *Channel) Send(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChannelWrite, err)
	}
	data = append(data, '\n')
	if _, err := c.writer.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelWrite, err)
	}
	return c.flush()
}

func (c *Channel) flush() error {
	f, ok := c.writer.(interface{ Flush() error })
	if !ok {
		return nil
	}
	if err := f.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrChannelWrite, err)
	}
	return nil
}

// Receive blocks until one full line is available and parses it. A stream
// that ends before the line terminator yields ErrChannelClosed; a line that
// is not a JSON record of the expected shape yields ErrMalformedMessage.
func (c *Channel) Receive() (*Message, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrChannelClosed
		}
		return nil, fmt.Errorf("%w: %v", ErrChannelClosed, err)
	}
	var msg Message
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return &msg, nil
}
