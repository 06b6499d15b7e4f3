package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the root of a stubd configuration file.
type Config struct {
	Server ServerConfig  `json:"server" yaml:"server"`
	Log    LogConfig     `json:"log" yaml:"log"`
	Watch  WatchConfig   `json:"watch" yaml:"watch"`
	Routes []RouteConfig `json:"routes" yaml:"routes"`
}

// ServerConfig holds the listen address.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// WatchConfig enables hot reload of the configuration file.
type WatchConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Paths are extra files or directories to watch besides the loaded
	// configuration file itself.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Include filters watched directory events by doublestar glob.
	// Empty means the default set of config extensions.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
}

// RouteConfig declares one route. Exactly one of Response or Store must
// be set: a route either replies with a canned response or binds a store
// operation.
type RouteConfig struct {
	Method   string          `json:"method" yaml:"method"`
	Path     string          `json:"path" yaml:"path"`
	Validate *ValidateConfig `json:"validate,omitempty" yaml:"validate,omitempty"`
	Response *ResponseConfig `json:"response,omitempty" yaml:"response,omitempty"`
	Store    *StoreConfig    `json:"store,omitempty" yaml:"store,omitempty"`
}

// ValidateConfig holds raw validator specs, parsed by the schema package
// when the route is registered.
type ValidateConfig struct {
	Params map[string]map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Query  map[string]map[string]any `json:"query,omitempty" yaml:"query,omitempty"`
	Body   map[string]any            `json:"body,omitempty" yaml:"body,omitempty"`
}

// ResponseConfig is a canned response.
type ResponseConfig struct {
	Status  int               `json:"status" yaml:"status"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    any               `json:"body,omitempty" yaml:"body,omitempty"`
}

// StoreConfig binds a route to an object store operation.
type StoreConfig struct {
	// Action is one of create, get, update, delete, find, bulkCreate,
	// bulkGet.
	Action string `json:"action" yaml:"action"`

	// Type is the object type the route operates on. Required for every
	// action except the bulk ones, which carry types per item.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// IDParam names the path parameter carrying the object ID.
	// Defaults to "id".
	IDParam string `json:"idParam,omitempty" yaml:"idParam,omitempty"`
}

var storeActions = map[string]bool{
	"create":     true,
	"get":        true,
	"update":     true,
	"delete":     true,
	"find":       true,
	"bulkCreate": true,
	"bulkGet":    true,
}

// idActions require an object ID from the path.
var idActions = map[string]bool{
	"get":    true,
	"update": true,
	"delete": true,
}

// Validate checks structural consistency of the whole config.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	for i := range c.Routes {
		if err := c.Routes[i].validate(); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks one route entry.
func (r *RouteConfig) validate() error {
	if r.Method == "" {
		return errors.New("method is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("path %q must start with /", r.Path)
	}
	if (r.Response == nil) == (r.Store == nil) {
		return errors.New("exactly one of response or store must be set")
	}
	if r.Response != nil {
		if r.Response.Status < 100 || r.Response.Status > 599 {
			return fmt.Errorf("response.status %d out of range", r.Response.Status)
		}
	}
	if r.Store != nil {
		if !storeActions[r.Store.Action] {
			return fmt.Errorf("unknown store action %q", r.Store.Action)
		}
		needsType := r.Store.Action != "bulkCreate" && r.Store.Action != "bulkGet" && r.Store.Action != "find"
		if needsType && r.Store.Type == "" {
			return fmt.Errorf("store action %q requires a type", r.Store.Action)
		}
		if idActions[r.Store.Action] {
			param := r.Store.IDParam
			if param == "" {
				param = "id"
			}
			if !strings.Contains(r.Path, "{"+param+"}") {
				return fmt.Errorf("store action %q needs {%s} in the path", r.Store.Action, param)
			}
		}
	}
	return nil
}

// Default returns the built-in configuration: localhost:4178, info-level
// text logs, no routes.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 4178},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Addr formats the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
