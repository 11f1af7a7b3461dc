package mqtt

import (
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

// OnRunCommand calls fn for every message on the site's run command topic.
// The payload is ignored. fn runs on the client's delivery goroutine and
// should hand work off rather than run a whole cycle.
//
// The subscription is renewed after every reconnect. A later call replaces fn.
func (c *Client) OnRunCommand(fn func()) error {
	if fn == nil {
		return fmt.Errorf("%w: nil run command handler", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.mu.Lock()
	c.onRun = fn
	c.mu.Unlock()

	topic := c.topics.CommandRun()
	token := c.subscribeRun(fn)
	if !token.WaitTimeout(publishTimeout) {
		c.clearRunCommand()
		return fmt.Errorf("%w: %s: timeout after %v", ErrSubscribeFailed, topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		c.clearRunCommand()
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	return nil
}

// renewRunCommand restores the run command subscription after a reconnect.
// Sessions are clean, so the broker forgets it on every disconnect.
func (c *Client) renewRunCommand() {
	c.mu.Lock()
	fn := c.onRun
	c.mu.Unlock()

	if fn != nil {
		c.subscribeRun(fn)
	}
}

func (c *Client) clearRunCommand() {
	c.mu.Lock()
	c.onRun = nil
	c.mu.Unlock()
}

func (c *Client) subscribeRun(fn func()) pahomqtt.Token {
	return c.paho.Subscribe(c.topics.CommandRun(), c.qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("run command handler panicked", "topic", msg.Topic(), "panic", r)
			}
		}()
		fn()
	})
}
