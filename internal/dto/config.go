// Package dto holds the plain data structures decoded from host
// configuration files. It uses "mapstructure" tags so the CLI can decode a
// loosely-typed YAML document into explicit structs.
package dto

// Config is the root of a host configuration file.
type Config struct {
	Registry RegistryConfig `json:"registry" mapstructure:"registry"`
	Metrics  bool           `json:"metrics" mapstructure:"metrics"`
	Nodes    []NodeConfig   `json:"nodes" mapstructure:"nodes"`
}

// RegistryConfig selects the slot registry backend.
type RegistryConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend string      `json:"backend" mapstructure:"backend"`
	Redis   RedisConfig `json:"redis" mapstructure:"redis"`
}

// RedisConfig configures the redis-backed registry.
type RedisConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
	Prefix   string `json:"prefix" mapstructure:"prefix"`
}

// NodeConfig declares one YAML loader node instance.
type NodeConfig struct {
	Name   string `json:"name" mapstructure:"name"`
	Source string `json:"source" mapstructure:"source"`
	Filter string `json:"filter" mapstructure:"filter"`

	// Naming is "prefixed" (default) or "verbatim".
	Naming string `json:"naming" mapstructure:"naming"`
	Prefix string `json:"prefix" mapstructure:"prefix"`
	Label  string `json:"label" mapstructure:"label"`
}
