// Package status implements the `status` subcommand, which asks a running
// monitor for its state over the gRPC health endpoint.
package status
