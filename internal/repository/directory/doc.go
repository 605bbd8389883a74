// Package directory implements the contact directory lookup.
//
// The directory is a CSV file, local or served over HTTP, mapping a device key
// (the monitoring host's IPv4 address) to a location and the addresses to
// notify. It is parsed strictly and read again on every lookup; there is no cache.
package directory
