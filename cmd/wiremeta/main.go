// Package main provides the CLI entrypoint for wiremeta.
//
// wiremeta analyzes Go packages and prints how their types are serialized:
//   - the wire name and accessibility of every member
//   - the constructor a decoder uses and the members bound to its parameters
package main

import (
	"os"

	"wiremeta/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
