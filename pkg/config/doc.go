// Package config loads warden settings from a YAML file and WARDEN_*
// environment variables, tracking the source of each value.
package config
