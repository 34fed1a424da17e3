package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"task-tracker/pkg/logger"
)

// Client wraps NATS connection with JetStream context
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream
}

// ClientConfig configuration สำหรับ NATS Client
type ClientConfig struct {
	URL  string // nats://localhost:4222
	Name string
}

// NewClient สร้าง NATS Client พร้อม JetStream
func NewClient(cfg ClientConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1), // Reconnect forever
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		conn: nc,
		js:   js,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.setupStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL, "stream", StreamName)
	return client, nil
}

// setupStream สร้างหรืออัปเดต task events stream
func (c *Client) setupStream(ctx context.Context) error {
	streamCfg := jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectTaskEvents},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy, // ไม่ลบหลัง Ack, หลาย consumer อ่านได้
		MaxAge:      StreamMaxAge,
		Duplicates:  2 * time.Minute,
		Replicas:    1,
		Description: "Task create/update/delete events",
	}

	stream, err := c.js.CreateOrUpdateStream(ctx, streamCfg)
	if err != nil {
		return fmt.Errorf("failed to create/update task events stream: %w", err)
	}
	c.stream = stream
	logger.Info("JetStream stream ready", "name", StreamName)

	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Getters
// ═══════════════════════════════════════════════════════════════════════════════

// Conn returns the underlying NATS connection
func (c *Client) Conn() *nats.Conn {
	return c.conn
}

// JetStream returns the JetStream context
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// GetStreamInfo ดึงสถานะของ task events stream
func (c *Client) GetStreamInfo(ctx context.Context) (*StreamInfo, error) {
	info, err := c.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream info: %w", err)
	}

	return &StreamInfo{
		Name:     info.Config.Name,
		Messages: info.State.Msgs,
		Bytes:    info.State.Bytes,
		LastSeq:  info.State.LastSeq,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// Lifecycle
// ═══════════════════════════════════════════════════════════════════════════════

// Close ปิด NATS connection
func (c *Client) Close() error {
	if c.conn != nil {
		if err := c.conn.Drain(); err != nil {
			c.conn.Close()
		}
		logger.Info("NATS connection closed")
	}
	return nil
}
