// Package layerconf builds a single configuration tree from four layers with
// fixed precedence, highest first:
//  1. Command-line arguments: --server.port=9090, --server.debug, --no-cache.
//  2. Environment variables: SERVER_PORT=9090 overrides server.port. Names are
//     matched case-insensitively and "." is equivalent to "_". Only paths
//     already present in the defaults or the config file can be overridden.
//  3. A JSON config file: the first positional argument ending in .json.
//  4. Defaults supplied by the program.
//
// After merging, every string value that reads as a boolean (true/on/yes/
// enable/enabled and their negatives) or a number is converted to bool or
// float64, whatever layer it came from.
//
// Typical usage:
//
//	cfg, err := layerconf.New(
//	    layerconf.WithDefaults(map[string]any{
//	        "server": map[string]any{"port": 8080, "debug": false},
//	    }),
//	    layerconf.WithArgs(os.Args[1:]),
//	    layerconf.WithEnviron(os.Environ()),
//	).Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port := cfg.Get("server.port") // float64(8080) unless overridden
//
// Load keeps no state between calls; the environment is always passed in.
package layerconf
