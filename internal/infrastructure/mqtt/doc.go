// Package mqtt provides MQTT client connectivity for luxctl.
//
// This package manages:
//   - A broker session per site with auto-reconnect
//   - Publishing readings and fired actions for a site
//   - Subscription to the run command topic used by watch mode
//   - Last Will and Testament (LWT) for offline detection
//
// # Topics
//
//	luxctl/{site}/illuminance     retained, latest reading
//	luxctl/{site}/action/{scope}  one message per fired action; / + # in scope names become _
//	luxctl/{site}/status          retained online/offline, also the LWT
//	luxctl/{site}/command/run     triggers an immediate pass in watch mode
//
// # Security Considerations
//
//   - Enable TLS when the broker is not on localhost (cfg.Broker.TLS=true)
//   - Put broker credentials in luxctl.env rather than config.yaml
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, cfg.Site.ID, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	runner.AddObserver(mqtt.NewPublisher(client))
package mqtt
