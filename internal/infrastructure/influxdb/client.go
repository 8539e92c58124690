package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/beacontrack/beacontrack-core/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultPingTimeout is the maximum time to wait for the initial ping.
	defaultPingTimeout = 5 * time.Second
)

// Client wraps influxdb-client-go for writing BeaconTrack telemetry.
//
// Writes are batched and non-blocking: points are queued in memory and
// flushed in the background, so the tracking loop never stalls on the
// time-series store.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	cfg      config.InfluxDBConfig

	// onError is invoked for asynchronous write failures (optional).
	onError    func(err error)
	callbackMu sync.RWMutex

	// closed guards against double Close.
	closed   bool
	closedMu sync.Mutex
}

// Connect creates an InfluxDB client and verifies the server is reachable.
//
// It performs the following setup:
//  1. Creates the client with batching options from config
//  2. Pings the server to verify connectivity
//  3. Starts the error consumer for asynchronous write failures
//
// Parameters:
//   - cfg: InfluxDB configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for writes
//   - error: ErrDisabled if telemetry is disabled, or a connection error
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	options := influxdb2.DefaultOptions().
		SetBatchSize(uint(cfg.BatchSize)).
		SetFlushInterval(uint(cfg.FlushInterval))

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()

	ok, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	if !ok {
		client.Close()
		return nil, ErrConnectionFailed
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		cfg:      cfg,
	}

	go c.consumeErrors()

	return c, nil
}

// consumeErrors drains the write API error channel.
//
// The non-blocking write API reports failures on a channel; if nobody
// reads it the channel fills and errors are silently dropped.
func (c *Client) consumeErrors() {
	for err := range c.writeAPI.Errors() {
		c.callbackMu.RLock()
		callback := c.onError
		c.callbackMu.RUnlock()
		if callback != nil {
			callback(err)
		}
	}
}

// SetOnError sets a callback invoked for asynchronous write failures.
func (c *Client) SetOnError(callback func(err error)) {
	c.callbackMu.Lock()
	c.onError = callback
	c.callbackMu.Unlock()
}

// HealthCheck verifies the InfluxDB server is reachable.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	ok, err := c.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	if !ok {
		return fmt.Errorf("influxdb health check: %w", ErrNotReady)
	}
	return nil
}

// Close flushes pending writes and releases client resources.
//
// Returns:
//   - error: Always nil; closing an already-closed client is not an error
func (c *Client) Close() error {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	c.writeAPI.Flush()
	c.client.Close()
	return nil
}
