// Command fleetdash-dates prints zone dates and dashboard ranges as JSON
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
