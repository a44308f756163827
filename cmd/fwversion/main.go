// Package main is the entry point for the firmware version extractor.
package main

import "fwversion/cmd/fwversion/cmd"

func main() {
	cmd.Execute()
}
