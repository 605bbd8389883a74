// Package freezer contains the core domain types of the monitor.
//
// It defines the sampled Level, the notification Status it maps to, directory
// Entry records, the per-transition Intent and the escalation Tier with its
// transient Attempt record.
package freezer
