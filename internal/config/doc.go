// Package config is the single source of truth for configuration and file
// system paths used by the license client CLIs.
//
// Configuration is loaded from environment variables (prefix AUTODRIVE) and
// an optional YAML file; environment values take precedence. All paths the
// tools mutate (working directory, install target) are carried explicitly in
// the resolved Paths value rather than read from hidden globals.
package config
