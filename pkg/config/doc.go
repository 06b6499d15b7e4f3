// Package config defines the stubd configuration file format and turns
// declarative route entries into a registration function for the route
// table. Files may be YAML or JSON; the format is detected by extension.
package config
