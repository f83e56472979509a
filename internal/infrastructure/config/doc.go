// Package config handles loading and validating mobile API server configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The server runs fine without a configuration file: every value has a
// default, and the device-wide environment variables (SIFIS_HOME_PATH,
// MOBILE_API_SCRIPTS_PATH) always take precedence.
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ListenAddr())
package config
