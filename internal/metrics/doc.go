// Package metrics counts transitions, delivery attempts and directory
// failures, and optionally serves them in the Prometheus text format.
package metrics
