// Package config handles loading and validating the smart home core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// Besides infrastructure settings, the file declares the home (rooms and
// devices), the automation rules and the daily scheduled tasks. Rules and
// tasks are only checked structurally here; the automation package builds
// and validates them fully at startup.
//
// Security Considerations:
//   - Sensitive values (MQTT password, InfluxDB token, lock code) should be
//     set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Site.Name)
package config
