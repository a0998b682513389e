package camunda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// ErrBrokerUnavailable wraps every error that exhausted its retries on a
// transient broker failure.
var ErrBrokerUnavailable = errors.New("ZEEBE_UNAVAILABLE")

// Client wraps the Zeebe gRPC client with retry logic.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// NewClientWithConfig creates a Zeebe client and checks the broker topology,
// retrying transient failures.
func NewClientWithConfig(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout == 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	if err := c.HealthCheck(ctx); err != nil {
		zeebeClient.Close()
		return nil, err
	}
	return c, nil
}

// GetClient returns the raw Zeebe client for job workers.
func (c *Client) GetClient() zbc.Client {
	return c.client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// ExecuteWithRetry runs command with exponential backoff. Only transient
// errors (timeouts, connection issues) are retried.
func (c *Client) ExecuteWithRetry(ctx context.Context, operation string, command func(context.Context) error) error {
	retry := c.config.RetryConfig

	for attempt := 0; ; attempt++ {
		err := command(ctx)
		if err == nil {
			return nil
		}

		if !isRetryableZeebeError(err) {
			return fmt.Errorf("zeebe operation %q failed: %w", operation, err)
		}
		if attempt >= retry.MaxRetries {
			return fmt.Errorf("%w: %s after %d attempts: %v", ErrBrokerUnavailable, operation, attempt+1, err)
		}

		delay := retry.BaseDelay * time.Duration(1<<attempt)
		if delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("zeebe operation %q cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}
	}
}

func isRetryableZeebeError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"resource_exhausted",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// HealthCheck asks the broker for its topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.ExecuteWithRetry(ctx, "topology", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
		defer cancel()
		_, err := c.client.NewTopologyCommand().Send(ctx)
		return err
	})
}
