package mqtt

import (
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/luxctl/internal/infrastructure/config"
)

// Client is one luxctl process's broker session for a site.
//
// While connected it keeps the retained site status current, and the broker
// publishes the offline will if the process dies. Cycle events go out through
// Publish; watch mode registers for run commands with OnRunCommand.
type Client struct {
	paho     pahomqtt.Client
	topics   Topics
	qos      byte
	clientID string
	logger   Logger

	mu    sync.Mutex
	onRun func()
}

// Logger is the logging subset the client needs. *logging.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Connect opens a session for site and announces it online.
//
// The first connection attempt is bounded by connectTimeout and not retried,
// so a one-shot run is never held up by an absent broker. After that the
// session reconnects on its own and renews the run command subscription.
func Connect(cfg config.MQTTConfig, site string, logger Logger) (*Client, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	c := &Client{
		topics:   NewTopics(site),
		qos:      byte(cfg.QoS),
		clientID: cfg.Broker.ClientID,
		logger:   logger,
	}

	opts := buildClientOptions(cfg)
	configureLWT(opts, c.topics, cfg.Broker.ClientID)

	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.announce(statusOnline, "")
		c.renewRunCommand()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.logger.Warn("MQTT connection lost", "site", site, "error", err)
	})
	opts.SetReconnectingHandler(func(_ pahomqtt.Client, o *pahomqtt.ClientOptions) {
		c.logger.Warn("MQTT reconnecting", "broker", o.Servers)
	})

	c.paho = pahomqtt.NewClient(opts)
	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		c.paho.Disconnect(0)
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	return c, nil
}

// Topics returns the topic builder for the client's site.
func (c *Client) Topics() Topics {
	return c.topics
}

// IsConnected reports whether the session is currently up.
func (c *Client) IsConnected() bool {
	return c.paho != nil && c.paho.IsConnected()
}

// Close announces a graceful offline status and ends the session.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.announce(statusOffline, reasonGraceful)
		token.WaitTimeout(publishTimeout)
	}
	c.paho.Disconnect(disconnectQuiesce)
	return nil
}

// announce publishes the retained site status without waiting for the broker.
func (c *Client) announce(status, reason string) pahomqtt.Token {
	payload := buildStatusPayload(status, c.clientID, reason)
	return c.paho.Publish(c.topics.Status(), c.qos, true, payload)
}
