// Package config holds netreport's runtime configuration.
//
// Configuration is layered: built-in defaults, then the optional
// .netreport YAML file (per-operator query defaults), then NETREPORT_*
// environment variables, then CLI flags. Flags always win.
//
// Design decision: The Config struct is populated once after CLI parsing
// and passed through the application by dependency injection rather than
// read from global state. Validation happens once, up front, with
// sentinel errors so callers can match failures programmatically.
package config
