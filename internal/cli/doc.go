// Package cli implements the layerconf command: it merges defaults, a JSON
// config file, the environment and command-line flags with the layerconf
// package and prints the result.
package cli
