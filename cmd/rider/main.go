// Command rider lets a rider pick a bike and follow its live telemetry.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
