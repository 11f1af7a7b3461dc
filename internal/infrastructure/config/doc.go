// Package config handles loading and validating luxctl configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Reading an optional luxctl.env file for secrets
//   - Overriding with LUXCTL_* environment variables
//   - Validation of required fields
//
// Security Considerations:
//   - MQTT passwords and InfluxDB tokens belong in luxctl.env or the environment
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.LoadOrDefault(config.DefaultPath)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Database.Path)
package config
