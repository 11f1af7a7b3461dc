package mqtt

import "fmt"

// Publish sends payload on topic at the site's QoS and waits for the broker
// to accept it.
//
//	err := client.Publish(client.Topics().Illuminance(), []byte(`{"lux":412}`), true)
func (c *Client) Publish(topic string, payload []byte, retained bool) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.paho.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrPublishFailed, topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}
