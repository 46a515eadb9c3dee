// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	socketPrefix   = "discord-ipc-"
	maxSocketIndex = 10

	// DefaultTimeout bounds one request/response exchange when ctx has no deadline.
	DefaultTimeout = 10 * time.Second
)

// conn is satisfied by net.Conn and by *os.File named pipes.
type conn interface {
	io.ReadWriteCloser
	SetDeadline(t time.Time) error
}

// Options configures Dial.
type Options struct {
	ClientID string

	// Path is an explicit socket path. Empty means try CandidatePaths in order.
	Path string

	// Timeout bounds each exchange when the context carries no deadline.
	Timeout time.Duration
}

// Client is a logged-in Discord IPC connection. It is safe for concurrent use;
// exchanges are serialized.
type Client struct {
	conn    conn
	path    string
	pid     int
	timeout time.Duration
	user    User

	mu     sync.Mutex
	closed bool
}

// Dial opens the Discord IPC socket and performs the handshake.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	paths := []string{opts.Path}
	if opts.Path == "" {
		paths = CandidatePaths()
	}

	var (
		c    conn
		path string
		errs []error
	)
	for _, p := range paths {
		cc, err := dialSocket(ctx, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c, path = cc, p
		break
	}
	if c == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNoSocket, errors.Join(errs...))
	}

	client := &Client{
		conn:    c,
		path:    path,
		pid:     os.Getpid(),
		timeout: opts.Timeout,
	}

	if err := client.handshake(ctx, opts.ClientID); err != nil {
		_ = c.Close()
		return nil, err
	}

	logrus.Infof("connected to discord ipc at %s as %s", path, client.user.Username)
	return client, nil
}

// User returns the Discord account reported by the READY event.
func (c *Client) User() User {
	return c.user
}

// Path returns the socket the client is connected to.
func (c *Client) Path() string {
	return c.path
}

func (c *Client) handshake(ctx context.Context, clientID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg, err := c.exchange(ctx, OpHandshake, handshake{V: rpcVersion, ClientID: clientID}, func(m *message) bool {
		return m.Cmd == cmdDispatch && (m.Evt == evtReady || m.Evt == evtError)
	})
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return fmt.Errorf("%w: %w", ErrHandshakeRejected, rpcErr)
		}
		return err
	}
	if rpcErr := msg.rpcError(); rpcErr != nil {
		return fmt.Errorf("%w: %w", ErrHandshakeRejected, rpcErr)
	}

	var ready readyData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &ready); err != nil {
			return fmt.Errorf("failed to decode READY event: %w", err)
		}
	}
	c.user = ready.User
	return nil
}

// SetActivity publishes activity as the rich presence of this process.
func (c *Client) SetActivity(ctx context.Context, activity *Activity) error {
	return c.command(ctx, cmdSetActivity, setActivityArgs{PID: c.pid, Activity: activity})
}

// ClearActivity removes the rich presence of this process.
func (c *Client) ClearActivity(ctx context.Context) error {
	return c.command(ctx, cmdSetActivity, setActivityArgs{PID: c.pid})
}

func (c *Client) command(ctx context.Context, cmd string, args any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	nonce := uuid.NewString()
	msg, err := c.exchange(ctx, OpFrame, command{Cmd: cmd, Args: args, Nonce: nonce}, func(m *message) bool {
		return m.Nonce == nonce
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd, err)
	}
	if rpcErr := msg.rpcError(); rpcErr != nil {
		return fmt.Errorf("%s failed: %w", cmd, rpcErr)
	}
	return nil
}

// exchange writes one frame and reads until a FRAME satisfying match arrives.
// Pings are answered; unrelated events are skipped. Callers hold c.mu.
func (c *Client) exchange(ctx context.Context, op Opcode, payload any, match func(*message) bool) (*message, error) {
	if c.closed {
		return nil, ErrClosed
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		logrus.Debugf("discord ipc: could not set deadline: %v", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if err := WriteJSON(c.conn, op, payload); err != nil {
		return nil, c.ioError(ctx, err)
	}

	for {
		rop, body, err := ReadFrame(c.conn)
		if err != nil {
			return nil, c.ioError(ctx, err)
		}

		switch rop {
		case OpPing:
			if err := WriteFrame(c.conn, OpPong, body); err != nil {
				return nil, c.ioError(ctx, err)
			}
		case OpClose:
			c.closed = true
			_ = c.conn.Close()
			rpcErr := &RPCError{}
			if err := json.Unmarshal(body, rpcErr); err != nil {
				return nil, ErrClosed
			}
			return nil, fmt.Errorf("%w: %w", ErrClosed, rpcErr)
		case OpFrame:
			msg := &message{}
			if err := json.Unmarshal(body, msg); err != nil {
				return nil, fmt.Errorf("failed to decode frame: %w", err)
			}
			if match(msg) {
				return msg, nil
			}
			logrus.Debugf("discord ipc: skipping %s/%s frame", msg.Cmd, msg.Evt)
		default:
			logrus.Debugf("discord ipc: ignoring %s frame", rop)
		}
	}
}

func (c *Client) ioError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	// the socket deadline can fire just before the context's own timer does
	if errors.Is(err, os.ErrDeadlineExceeded) {
		if dl, ok := ctx.Deadline(); ok && !time.Now().Before(dl) {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
	}
	return err
}

// Close sends a close frame and closes the socket. Calling Close more than once is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.SetDeadline(time.Now().Add(time.Second))
	writeErr := WriteJSON(c.conn, OpClose, struct{}{})
	closeErr := c.conn.Close()
	if closeErr != nil {
		return fmt.Errorf("failed to close discord ipc socket: %w", closeErr)
	}
	if writeErr != nil {
		logrus.Debugf("discord ipc: close frame not delivered: %v", writeErr)
	}
	return nil
}
