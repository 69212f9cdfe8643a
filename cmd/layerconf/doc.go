// Layerconf prints a configuration merged from defaults, a JSON config file,
// environment variables and command-line flags.
//
// Usage:
//
//	layerconf dump --server.port=9090 app.json   # print merged config as JSON
//	layerconf get server.port app.json            # print a single value
//	layerconf version
//
// The command is configured through LAYERCONF_DEFAULTS (defaults JSON file),
// LAYERCONF_FORMAT (json or yaml), LAYERCONF_OUT (write to a file),
// LAYERCONF_CONFIG_KEY, LAYERCONF_ENV_PREFIX and LAYERCONF_LOG_LEVEL.
package main
