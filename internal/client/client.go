// Package client connects an agent to a Hanabi game server over WebSocket
// and plays its games.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/hanabot/internal/agent"
	"github.com/lox/hanabot/internal/protocol"
)

var (
	// ErrActionRejected is returned when the server answers a move with
	// action_invalid or invalid_data. The agent's bookkeeping should make
	// this unreachable, so it ends the session.
	ErrActionRejected = errors.New("action rejected by server")

	// ErrTimeout is returned when the server stays silent past ReadTimeout
	ErrTimeout = errors.New("timed out waiting for server")

	// ErrClosed is returned once the connection has gone away
	ErrClosed = errors.New("connection closed")

	// ErrUnexpectedMessage is returned for a reply that does not fit the
	// current step of the session
	ErrUnexpectedMessage = errors.New("unexpected message")
)

const (
	writeWait  = 10 * time.Second
	bufferSize = 64
)

// Config holds the connection settings
type Config struct {
	URL          string
	Games        int
	ReadTimeout  time.Duration
	PingInterval time.Duration
}

// DefaultConfig returns the settings used when none are given
func DefaultConfig() Config {
	return Config{
		URL:          "http://localhost:1024",
		Games:        1,
		ReadTimeout:  60 * time.Second,
		PingInterval: 54 * time.Second,
	}
}

// Client is a WebSocket connection driving one agent
type Client struct {
	cfg     Config
	agent   *agent.Agent
	clock   quartz.Clock
	logger  *log.Logger
	conn    *websocket.Conn
	send    chan *protocol.Message
	receive chan *protocol.Message
	ctx     context.Context
	cancel  context.CancelFunc

	mu        sync.Mutex
	readErr   error
	closeOnce sync.Once
}

// New creates a client for a. Zero fields of cfg take their defaults.
func New(cfg Config, a *agent.Agent, clock quartz.Clock, logger *log.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = defaults.URL
	}
	if cfg.Games <= 0 {
		cfg.Games = defaults.Games
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = defaults.PingInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cfg:     cfg,
		agent:   a,
		clock:   clock,
		logger:  logger.WithPrefix("client").With("player", a.Name()),
		send:    make(chan *protocol.Message, bufferSize),
		receive: make(chan *protocol.Message, bufferSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Connect dials the server and starts the read and write pumps
func (c *Client) Connect(ctx context.Context) error {
	c.logger.Info("Connecting to server", "url", c.cfg.URL)

	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()

	c.logger.Info("Connected to server")
	return nil
}

// Close stops the pumps and closes the connection
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Debug("Disconnected from server")
	})
	return nil
}

// SendMessage queues a message for the write pump
func (c *Client) SendMessage(msg *protocol.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrClosed
	default:
		return fmt.Errorf("send buffer full")
	}
}

func (c *Client) request(t protocol.MessageType, data any) error {
	msg, err := protocol.NewMessage(t, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// next waits for the next inbound message
func (c *Client) next(ctx context.Context) (*protocol.Message, error) {
	expired := make(chan struct{})
	timer := c.clock.AfterFunc(c.cfg.ReadTimeout, func() {
		close(expired)
	}, "client", "read")
	defer timer.Stop()

	select {
	case msg, ok := <-c.receive:
		if !ok {
			return nil, c.closedError()
		}
		return msg, nil
	case <-expired:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.ReadTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) closedError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return fmt.Errorf("%w: %w", ErrClosed, c.readErr)
	}
	return ErrClosed
}

func (c *Client) readPump() {
	defer close(c.receive)

	for {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := c.clock.NewTicker(c.cfg.PingInterval, "client", "ping")
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}
			c.logger.Debug("Sent message", "type", msg.Type)

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
