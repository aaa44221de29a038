package telnet

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"sync"
	"time"
)

// Telnet protocol bytes per RFC 854.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Sub-negotiation Begin
	GA   byte = 249 // Go Ahead
	NOP  byte = 241
	SE   byte = 240 // Sub-negotiation End

	// Negotiable options
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptLinemode        byte = 34
)

// Conn is a line-oriented Telnet session over a TCP connection. Inbound IAC
// sequences are stripped before input reaches the game; outbound writes are
// serialized under one mutex so the prompt loop and room broadcasts never
// interleave bytes.
type Conn struct {
	raw    net.Conn
	reader *bufio.Reader

	writeMu      sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps an accepted TCP connection. A timeout of zero disables the
// corresponding deadline.
//
// Precondition: raw must be open.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		reader:       bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate opens the session by offering to suppress go-ahead. Clients that
// refuse still work; the offer just quiets chatty ones.
func (c *Conn) Negotiate() error {
	return c.writeRaw([]byte{IAC, WILL, OptSuppressGoAhead})
}

// ReadLine reads the next line of text input. IAC sequences are consumed in
// place, control characters other than tab are dropped, and the line
// terminator (\n, \r, or \r\n) is not included.
//
// Postcondition: Returns whatever accumulated before an error, io.EOF
// included.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}

	var line bytes.Buffer
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return line.String(), err
		}

		switch {
		case b == IAC:
			if err := c.skipCommand(); err != nil {
				return line.String(), err
			}
		case b == '\n':
			return line.String(), nil
		case b == '\r':
			// Swallow the \n of a \r\n pair when it is already buffered.
			if next, err := c.reader.Peek(1); err == nil && len(next) > 0 && next[0] == '\n' {
				_, _ = c.reader.ReadByte()
			}
			return line.String(), nil
		case b >= 32 || b == '\t':
			line.WriteByte(b)
		}
	}
}

// skipCommand consumes the remainder of an IAC sequence whose lead byte has
// already been read.
func (c *Conn) skipCommand() error {
	cmd, err := c.reader.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		// One option byte follows.
		_, err = c.reader.ReadByte()
		return err
	case SB:
		// Consume sub-negotiation payload up to IAC SE.
		for {
			b, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if b != IAC {
				continue
			}
			next, err := c.reader.ReadByte()
			if err != nil {
				return err
			}
			if next == SE {
				return nil
			}
		}
	default:
		// Escaped IAC, NOP, GA and the rest carry no payload. The escaped
		// 0xFF is dropped rather than kept; player input is text.
		return nil
	}
}

// ReadPassword reads one line with client echo turned off. IAC WILL Echo
// tells the client the server will echo (so it must not); WONT Echo hands
// echoing back afterwards, even when the read fails. A blank line is written
// so the cursor moves past the hidden input.
func (c *Conn) ReadPassword() (string, error) {
	if err := c.writeRaw([]byte{IAC, WILL, OptEcho}); err != nil {
		return "", err
	}

	line, err := c.ReadLine()

	_ = c.writeRaw([]byte{IAC, WONT, OptEcho})
	_ = c.Write([]byte("\r\n"))
	return line, err
}

// WriteLine sends text followed by \r\n.
//
// Precondition: text should carry no trailing newline of its own.
func (c *Conn) WriteLine(text string) error {
	return c.writeRaw([]byte(text + "\r\n"))
}

// Write sends raw bytes.
func (c *Conn) Write(data []byte) error {
	return c.writeRaw(data)
}

// WritePrompt sends prompt without a line ending, leaving the cursor on the
// prompt line.
func (c *Conn) WritePrompt(prompt string) error {
	return c.writeRaw([]byte(prompt))
}

func (c *Conn) writeRaw(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	if _, err := c.raw.Write(data); err != nil {
		return fmt.Errorf("telnet write: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// FilterIAC strips Telnet command sequences from a byte slice using the same
// rules as ReadLine: negotiation triples and sub-negotiation blocks vanish,
// an escaped IAC collapses to a literal 0xFF, and any other two-byte command
// is dropped.
func FilterIAC(input []byte) []byte {
	const (
		stData = iota
		stCommand
		stOption
		stSub
		stSubIAC
	)

	out := make([]byte, 0, len(input))
	state := stData
	for _, b := range input {
		switch state {
		case stData:
			if b == IAC {
				state = stCommand
			} else {
				out = append(out, b)
			}
		case stCommand:
			switch b {
			case WILL, WONT, DO, DONT:
				state = stOption
			case SB:
				state = stSub
			case IAC:
				out = append(out, IAC)
				state = stData
			default:
				state = stData
			}
		case stOption:
			state = stData
		case stSub:
			if b == IAC {
				state = stSubIAC
			}
		case stSubIAC:
			if b == SE {
				state = stData
			} else {
				state = stSub
			}
		}
	}
	return out
}
