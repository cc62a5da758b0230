package antivirus

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// maxChunk stays below clamd's default StreamMaxLength chunking.
const maxChunk = 1 << 20

// ClamAVScanner talks to a clamd daemon over its INSTREAM protocol.
type ClamAVScanner struct {
	address string // "host:3310" or a unix socket path
	timeout time.Duration
	dialer  net.Dialer
}

var _ Scanner = (*ClamAVScanner)(nil)

// NewClamAVScanner returns a scanner for address. A zero timeout means 30 seconds.
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) network() string {
	if strings.HasPrefix(c.address, "/") {
		return "unix"
	}
	return "tcp"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, c.network(), c.address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping reports whether clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("failed to send ping: %w", err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("unexpected ping reply %q", reply)
	}
	return nil
}

// Scan streams data to clamd and parses its verdict.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) (Result, error) {
	result := Result{Scanner: c.Name()}

	conn, err := c.dial(ctx)
	if err != nil {
		return result, err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return result, fmt.Errorf("failed to send command: %w", err)
	}

	size := make([]byte, 4)
	for rest := data; len(rest) > 0; {
		n := min(len(rest), maxChunk)
		binary.BigEndian.PutUint32(size, uint32(n))
		if _, err := conn.Write(size); err != nil {
			return result, fmt.Errorf("failed to send chunk size: %w", err)
		}
		if _, err := conn.Write(rest[:n]); err != nil {
			return result, fmt.Errorf("failed to send %s: %w", filename, err)
		}
		rest = rest[n:]
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return result, fmt.Errorf("failed to send end marker: %w", err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return result, err
	}

	// "stream: OK", "stream: Eicar-Signature FOUND" or "stream: <reason> ERROR"
	verdict := strings.TrimSpace(strings.TrimPrefix(reply, "stream:"))
	switch {
	case strings.HasSuffix(verdict, " FOUND"):
		result.Infected = true
		result.ThreatName = strings.TrimSuffix(verdict, " FOUND")
		return result, nil
	case verdict == "OK":
		return result, nil
	default:
		return result, fmt.Errorf("clamd: %s", verdict)
	}
}

// readReply reads one NUL-terminated clamd reply.
func readReply(conn net.Conn) (string, error) {
	buf, err := io.ReadAll(io.LimitReader(conn, 4096))
	if err != nil && len(buf) == 0 {
		return "", fmt.Errorf("failed to read reply: %w", err)
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return strings.TrimSpace(string(buf)), nil
}
