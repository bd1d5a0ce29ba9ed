// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from a YAML file, overridden by ZIGNAL_-prefixed environment
// variables and validated before any component is wired. Each settings struct
// owns its Validate method so that the REST server and the CLI share the same rules.
package config
