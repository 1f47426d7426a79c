// Package config loads the wiremeta CLI settings from wiremeta.yaml,
// WIREMETA_* environment variables and command-line flags.
package config
