// Command graphctl inspects graph data files, exports their meshes and
// converts OpenStreetMap extracts into import records.
package main

import "os"

func main() {
	if err := rootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "graphctl: %v\n", err)
		os.Exit(1)
	}
}
