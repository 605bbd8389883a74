// Package common holds helpers shared by several services.
//
// It derives the device key from a network interface, guards against a second
// monitor process, and provides a small client for the monitor status endpoint.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
