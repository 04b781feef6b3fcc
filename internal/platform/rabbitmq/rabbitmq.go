package rabbitmq

import (
	"errors"
	"log/slog"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client owns one AMQP connection and channel pair.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials the broker and declares the durable topic exchange used
// for order-change events.
func Connect(url, exchange string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("rabbitmq URL is empty")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

// ConnectFromURL dials using the supplied URL and returns the client
// plus a cleanup function. On failure it logs and returns nil with a
// no-op cleanup so the caller can fall back to running without a broker.
func ConnectFromURL(url, exchange string, logger *slog.Logger) (*Client, func()) {
	if strings.TrimSpace(url) == "" {
		if logger != nil {
			logger.Warn("RABBITMQ_URL not set, order events will not be published")
		}
		return nil, func() {}
	}
	client, err := Connect(url, exchange)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to rabbitmq, order events will not be published", slog.String("error", err.Error()))
		}
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("rabbitmq connection established", slog.String("exchange", exchange))
	}
	return client, func() { client.Close() }
}

// Channel exposes the publishing channel.
func (c *Client) Channel() *amqp.Channel { return c.ch }

// Ping reports whether the connection is still usable.
func (c *Client) Ping() error {
	if c == nil || c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
