package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/luxctl/internal/infrastructure/config"
)

const (
	pingTimeout = 10 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds
)

// Logger is the logging subset the client needs. *logging.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Client is the bucket holding luxctl's illuminance and action history.
//
// Writes are batched and never block a cycle. Batches the server rejects
// are logged; there is no retry beyond what the library does.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI

	mu     sync.RWMutex
	closed bool
}

// Connect pings the server at cfg.URL and opens a batched writer on
// cfg.Org/cfg.Bucket.
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger Logger) (*Client, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- both values are positive here
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*uint(time.Second/time.Millisecond)),
	)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	healthy, err := client.Ping(pingCtx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, cfg.URL, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: %s: server not ready", ErrConnectionFailed, cfg.URL)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
	}

	// The channel is closed by client.Close, which ends the goroutine.
	go func(errs <-chan error) {
		for err := range errs {
			logger.Warn("InfluxDB write failed", "bucket", cfg.Bucket, "error", err)
		}
	}(c.writeAPI.Errors())

	return c, nil
}

// WritePoint queues p for the next batch. It is dropped once the client is
// closed or if it never connected.
func (c *Client) WritePoint(p *write.Point) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.writeAPI == nil || c.closed {
		return
	}
	c.writeAPI.WritePoint(p)
}

// Flush sends the queued points now.
func (c *Client) Flush() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.writeAPI == nil || c.closed {
		return
	}
	c.writeAPI.Flush()
}

// Close flushes the queued points and releases the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.closed {
		return nil
	}
	c.closed = true
	c.writeAPI.Flush()
	c.client.Close()
	return nil
}
