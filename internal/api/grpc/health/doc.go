// Package health exposes the monitor over the standard gRPC health protocol
// so that external tooling can see whether the freezer contact is open.
package health
