// Package cli implements the wiremeta commands: inspect prints the resolved
// metadata of types, check verifies that every type of a package resolves.
package cli
